package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"classifyapi/internal/model"
)

type MockClassifyService struct {
	mock.Mock
}

func (m *MockClassifyService) ClassifyUpload(ctx context.Context, r io.Reader, filename string) (*model.Prediction, error) {
	args := m.Called(ctx, r, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prediction), args.Error(1)
}
