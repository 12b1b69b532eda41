package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	clfMocks "classifyapi/internal/classifier/mocks"
	"classifyapi/internal/model"
	"classifyapi/internal/storage"
	storeMocks "classifyapi/internal/storage/mocks"
)

func TestClassifyUpload(t *testing.T) {
	ctx := context.Background()
	staged := &storage.StagedFile{Path: "/tmp/uploads/abc_cat.jpg", Name: "abc_cat.jpg"}

	tests := []struct {
		name       string
		reader     io.Reader
		setupMocks func(mStore *storeMocks.MockStaging, mClf *clfMocks.MockClassifier)
		want       *model.Prediction
		wantErr    error
	}{
		{
			name:   "happy path",
			reader: strings.NewReader("image-bytes"),
			setupMocks: func(mStore *storeMocks.MockStaging, mClf *clfMocks.MockClassifier) {
				mStore.On("Save", "cat.jpg", mock.Anything).Return(staged, nil)
				mClf.On("Classify", ctx, staged.Path).Return(&model.Prediction{Category: "tabby", Probability: 93.2}, nil)
				mStore.On("Remove", staged).Return(nil)
			},
			want: &model.Prediction{Category: "tabby", Probability: 93.2},
		},
		{
			name:    "nil reader",
			reader:  nil,
			wantErr: ErrReaderNil,
		},
		{
			name:   "storage failure creates no staged file",
			reader: strings.NewReader("image-bytes"),
			setupMocks: func(mStore *storeMocks.MockStaging, mClf *clfMocks.MockClassifier) {
				mStore.On("Save", "cat.jpg", mock.Anything).Return(nil, errors.New("disk full"))
			},
			wantErr: ErrStorage,
		},
		{
			name:   "classification failure still releases the file",
			reader: strings.NewReader("image-bytes"),
			setupMocks: func(mStore *storeMocks.MockStaging, mClf *clfMocks.MockClassifier) {
				mStore.On("Save", "cat.jpg", mock.Anything).Return(staged, nil)
				mClf.On("Classify", ctx, staged.Path).Return(nil, errors.New("inference blew up"))
				mStore.On("Remove", staged).Return(nil)
			},
			wantErr: ErrClassification,
		},
		{
			name:   "remove failure does not fail the request",
			reader: strings.NewReader("image-bytes"),
			setupMocks: func(mStore *storeMocks.MockStaging, mClf *clfMocks.MockClassifier) {
				mStore.On("Save", "cat.jpg", mock.Anything).Return(staged, nil)
				mClf.On("Classify", ctx, staged.Path).Return(&model.Prediction{Category: "tabby", Probability: 93.2}, nil)
				mStore.On("Remove", staged).Return(errors.New("already locked"))
			},
			want: &model.Prediction{Category: "tabby", Probability: 93.2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStaging)
			mClf := new(clfMocks.MockClassifier)
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mClf)
			}

			svc := NewClassifyService(mStore, mClf)
			got, err := svc.ClassifyUpload(ctx, tt.reader, "cat.jpg")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			mStore.AssertExpectations(t)
			mClf.AssertExpectations(t)
		})
	}
}

func TestClassifyUploadNeverLeaksInternalText(t *testing.T) {
	mStore := new(storeMocks.MockStaging)
	mClf := new(clfMocks.MockClassifier)
	staged := &storage.StagedFile{Path: "/tmp/uploads/x"}

	mStore.On("Save", "cat.jpg", mock.Anything).Return(staged, nil)
	mClf.On("Classify", mock.Anything, staged.Path).Return(nil, errors.New("onnxruntime: tensor shape mismatch"))
	mStore.On("Remove", staged).Return(nil)

	svc := NewClassifyService(mStore, mClf)
	_, err := svc.ClassifyUpload(context.Background(), strings.NewReader("x"), "cat.jpg")

	// Callers branch on the sentinel, not on backend error text.
	assert.ErrorIs(t, err, ErrClassification)
}
