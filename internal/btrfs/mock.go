package btrfs

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client for testing.
//
// Example usage:
//
//	m := new(MockClient)
//	m.On("Exists", "/pool/@").Return(true, nil)
//	m.On("Rename", "/pool/@", mock.Anything).Return(nil)
//	m.On("Snapshot", mock.Anything, "/snaps/@.20240102_0000", "/pool/@").Return(nil)
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

// Rename returns a mocked error.
func (m *MockClient) Rename(oldPath, newPath string) error {
	args := m.Called(oldPath, newPath)
	return args.Error(0)
}

// Snapshot returns a mocked error.
func (m *MockClient) Snapshot(ctx context.Context, src, dst string) error {
	args := m.Called(ctx, src, dst)
	return args.Error(0)
}

// Delete returns a mocked error.
func (m *MockClient) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// Exists returns a mocked existence check.
func (m *MockClient) Exists(path string) (bool, error) {
	args := m.Called(path)
	return args.Bool(0), args.Error(1)
}
