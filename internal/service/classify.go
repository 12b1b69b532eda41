package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"classifyapi/internal/classifier"
	"classifyapi/internal/model"
	"classifyapi/internal/storage"
)

var (
	// ErrStorage marks failures writing the upload to the staging area.
	ErrStorage = errors.New("storage failure")
	// ErrClassification marks failures inside the classification capability.
	ErrClassification = errors.New("classification failure")
	// ErrReaderNil is returned when no upload payload was provided.
	ErrReaderNil = errors.New("reader is nil")
)

// ClassifyService runs the upload pipeline: stage the payload to a temp
// file, classify it, and release the file on every exit path.
type ClassifyService interface {
	ClassifyUpload(ctx context.Context, r io.Reader, filename string) (*model.Prediction, error)
}

type classifyService struct {
	staging storage.Staging
	clf     classifier.Classifier
}

// NewClassifyService constructs a ClassifyService.
func NewClassifyService(staging storage.Staging, clf classifier.Classifier) ClassifyService {
	return &classifyService{staging: staging, clf: clf}
}

// ClassifyUpload stages the validated payload and classifies it. Once a
// file is staged it is removed exactly once before this method returns,
// whatever the classification outcome.
func (s *classifyService) ClassifyUpload(ctx context.Context, r io.Reader, filename string) (*model.Prediction, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	sf, err := s.staging.Save(filename, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	defer func() {
		if err := s.staging.Remove(sf); err != nil {
			// Cleanup failure must not fail a request that already has an
			// outcome; the leaked path is logged for the operator.
			log.Printf("failed to remove staged file %s: %v", sf.Path, err)
		}
	}()

	pred, err := s.clf.Classify(ctx, sf.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassification, err)
	}
	return pred, nil
}
