package handler

import (
	"mime/multipart"
	"strings"
)

// ValidationError is a terminal upload-validation outcome whose message is
// safe to return to the client verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

var (
	errMissingFile   = &ValidationError{"No image part in the request"}
	errEmptyFilename = &ValidationError{"No file selected"}
	errBadExtension  = &ValidationError{"File type not allowed"}
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// validateUpload classifies the parsed multipart form without touching
// disk. A part submitted with an empty filename parses as a value field
// rather than a file, so a value-only "image" key means an empty filename
// was declared.
func validateUpload(form *multipart.Form) (*multipart.FileHeader, *ValidationError) {
	if form == nil {
		return nil, errMissingFile
	}

	files := form.File["image"]
	if len(files) == 0 {
		if _, ok := form.Value["image"]; ok {
			return nil, errEmptyFilename
		}
		return nil, errMissingFile
	}

	fh := files[0]
	if fh.Filename == "" {
		return nil, errEmptyFilename
	}
	if !allowedFile(fh.Filename) {
		return nil, errBadExtension
	}
	return fh, nil
}

// allowedFile checks the last dot-delimited extension, case-insensitively,
// against the image allow-list.
func allowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 || i == len(filename)-1 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(filename[i+1:])]
	return ok
}
