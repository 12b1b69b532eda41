package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// localStaging implements Staging on a dedicated directory on local disk.
// It is safe for concurrent use: filenames carry a random UUID prefix, so
// simultaneous saves never collide.
type localStaging struct {
	dir string
}

// NewLocal creates the staging directory if absent and returns a Staging
// backed by it.
func NewLocal(dir string) (Staging, error) {
	if dir == "" {
		return nil, errors.New("staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &localStaging{dir: dir}, nil
}

// Save writes the payload to "<uuid>_<sanitized filename>" inside the
// staging directory.
func (l *localStaging) Save(filename string, r io.Reader) (*StagedFile, error) {
	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	path := filepath.Join(l.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("create staged file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("close staged file: %w", err)
	}

	return &StagedFile{Path: path, Name: name, CreatedAt: time.Now().UTC()}, nil
}

// Remove deletes the staged file. A file that is already gone counts as
// removed.
func (l *localStaging) Remove(sf *StagedFile) error {
	if sf == nil {
		return nil
	}
	if err := os.Remove(sf.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

// sanitizeFilename strips path separators and anything outside a safe
// alphanumeric set so a declared filename can never traverse out of the
// staging directory.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" || out == "_" {
		out = "upload"
	}
	return out
}
