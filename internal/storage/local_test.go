package storage

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocal(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "staging")
		_, err := NewLocal(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty dir rejected", func(t *testing.T) {
		_, err := NewLocal("")
		assert.Error(t, err)
	})
}

func TestSaveAndRemove(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	sf, err := st.Save("photo.png", strings.NewReader("payload"))
	require.NoError(t, err)
	require.NotNil(t, sf)

	content, err := os.ReadFile(sf.Path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))
	assert.True(t, strings.HasSuffix(sf.Name, "_photo.png"))

	require.NoError(t, st.Remove(sf))
	_, err = os.Stat(sf.Path)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine.
	assert.NoError(t, st.Remove(sf))
	assert.NoError(t, st.Remove(nil))
}

func TestSaveWriteFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	st, err := NewLocal(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	sf, err := st.Save("photo.png", strings.NewReader("payload"))
	assert.Error(t, err)
	assert.Nil(t, sf)
}

func TestSavePreventsTraversal(t *testing.T) {
	dir := t.TempDir()
	st, err := NewLocal(dir)
	require.NoError(t, err)

	sf, err := st.Save("../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	defer st.Remove(sf)

	rel, err := filepath.Rel(dir, sf.Path)
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(rel, ".."))
	assert.Equal(t, sf.Name, rel)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"my photo (1).jpg", "my_photo__1_.jpg"},
		{"../../etc/passwd", "passwd"},
		{"..\\..\\boot.ini", "_.._boot.ini"},
		{"", "upload"},
		{"...", "upload"},
		{"名前.png", "__.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestConcurrentSavesNeverCollide(t *testing.T) {
	st, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	const n = 100
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		paths = make(map[string]struct{}, n)
	)

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			sf, err := st.Save("same-name.jpg", strings.NewReader("x"))
			assert.NoError(t, err)
			mu.Lock()
			paths[sf.Path] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, paths, n)
}
