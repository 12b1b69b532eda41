package storage

import (
	"io"
	"time"
)

// Package storage stages uploaded files on local disk for the duration of
// one request. Every StagedFile returned by Save must be handed back to
// Remove exactly once; Remove is idempotent so deferred cleanup is safe on
// every exit path.

// StagedFile describes one upload written to the staging directory.
type StagedFile struct {
	Path      string
	Name      string
	CreatedAt time.Time
}

// Staging is the temp-file manager for uploaded payloads.
type Staging interface {
	// Save writes the payload under a collision-free name derived from
	// filename and returns the staged file.
	Save(filename string, r io.Reader) (*StagedFile, error)
	// Remove deletes a previously staged file. Removing a file that is
	// already gone is not an error.
	Remove(sf *StagedFile) error
}
