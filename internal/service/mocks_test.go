package service

import (
	"context"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockNotifier mocks the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Success(message string) {
	m.Called(message)
}

func (m *MockNotifier) Error(message string) {
	m.Called(message)
}

// MockRemote mocks the remote.Remote interface
type MockRemote struct {
	mock.Mock
}

func (m *MockRemote) Fetch(ctx context.Context) ([]domain.InteractionInput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InteractionInput), args.Error(1)
}

func (m *MockRemote) Put(ctx context.Context, ws domain.Workspace) error {
	args := m.Called(ctx, ws)
	return args.Error(0)
}

// MockClipboard mocks the transfer.Clipboard interface
type MockClipboard struct {
	mock.Mock
}

func (m *MockClipboard) WriteAll(text string) error {
	args := m.Called(text)
	return args.Error(0)
}
