package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"

	"classifyapi/internal/storage"
)

type MockStaging struct {
	mock.Mock
}

func (m *MockStaging) Save(filename string, r io.Reader) (*storage.StagedFile, error) {
	args := m.Called(filename, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.StagedFile), args.Error(1)
}

func (m *MockStaging) Remove(sf *storage.StagedFile) error {
	args := m.Called(sf)
	return args.Error(0)
}
