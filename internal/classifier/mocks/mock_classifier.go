package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"classifyapi/internal/model"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, imagePath string) (*model.Prediction, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prediction), args.Error(1)
}
