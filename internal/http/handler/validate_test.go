package handler

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"PHOTO.PNG", true},
		{"photo.JpG", true},
		{"archive.tar.jpeg", true},
		{"photo.gif", false},
		{"photo.bmp", false},
		{"photo.png.exe", false},
		{"photo", false},
		{"photo.", false},
		{".png", true},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, allowedFile(tt.filename), "filename %q", tt.filename)
	}
}

func TestValidateUpload(t *testing.T) {
	t.Run("nil form", func(t *testing.T) {
		fh, verr := validateUpload(nil)
		assert.Nil(t, fh)
		assert.Equal(t, errMissingFile, verr)
	})

	t.Run("no image key", func(t *testing.T) {
		form := &multipart.Form{
			Value: map[string][]string{"other": {"x"}},
			File:  map[string][]*multipart.FileHeader{},
		}
		_, verr := validateUpload(form)
		assert.Equal(t, errMissingFile, verr)
	})

	t.Run("image submitted as value field", func(t *testing.T) {
		// An empty declared filename parses the part as a value, not a file.
		form := &multipart.Form{
			Value: map[string][]string{"image": {"raw-bytes"}},
			File:  map[string][]*multipart.FileHeader{},
		}
		_, verr := validateUpload(form)
		assert.Equal(t, errEmptyFilename, verr)
	})

	t.Run("empty filename on file part", func(t *testing.T) {
		form := &multipart.Form{
			File: map[string][]*multipart.FileHeader{
				"image": {{Filename: ""}},
			},
		}
		_, verr := validateUpload(form)
		assert.Equal(t, errEmptyFilename, verr)
	})

	t.Run("disallowed extension", func(t *testing.T) {
		form := &multipart.Form{
			File: map[string][]*multipart.FileHeader{
				"image": {{Filename: "anim.gif"}},
			},
		}
		_, verr := validateUpload(form)
		assert.Equal(t, errBadExtension, verr)
	})

	t.Run("valid upload", func(t *testing.T) {
		want := &multipart.FileHeader{Filename: "cat.JPG"}
		form := &multipart.Form{
			File: map[string][]*multipart.FileHeader{
				"image": {want},
			},
		}
		fh, verr := validateUpload(form)
		assert.Nil(t, verr)
		assert.Same(t, want, fh)
	})
}
