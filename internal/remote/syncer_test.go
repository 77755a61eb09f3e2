package remote

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRemote mocks the Remote interface
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

// slowRemote ignores cancellation and answers only when released
type slowRemote struct {
	release chan struct{}
	started chan struct{}
	inputs  []domain.InteractionInput
}

func (r *slowRemote) Fetch(context.Context) ([]domain.InteractionInput, error) {
	r.started <- struct{}{}
	<-r.release
	return r.inputs, nil
}

func (r *slowRemote) Put(context.Context, domain.Workspace) error { return nil }

func strPtr(s string) *string { return &s }

func TestSyncer_Disabled(t *testing.T) {
	s := New(config.RemoteConfig{})
	assert.False(t, s.HydrateEnabled())
	assert.False(t, s.PublishEnabled())

	_, err := s.Hydrate(context.Background(), func([]domain.InteractionInput) bool { t.Fatal("apply called"); return true })
	assert.ErrorIs(t, err, domain.ErrSyncDisabled)

	_, err = s.Publish(context.Background(), domain.Workspace{}, true)
	assert.ErrorIs(t, err, domain.ErrPublishDisabled)
}

func TestSyncer_PublishRequiresFlag(t *testing.T) {
	s := New(config.RemoteConfig{Endpoint: "http://svc"})
	assert.True(t, s.HydrateEnabled())
	assert.False(t, s.PublishEnabled())
}

func TestSyncer_HydrateOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("payload is applied", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Fetch", mock.Anything).Return([]domain.InteractionInput{{ID: strPtr("a")}}, nil)
		s := NewSyncer(remote, false)

		var got []domain.InteractionInput
		applied, err := s.Hydrate(ctx, func(in []domain.InteractionInput) bool { got = in; return true })
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Len(t, got, 1)
		assert.Equal(t, StatusSuccess, s.State().Hydrate.Status)
	})

	t.Run("payload refused by caller", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Fetch", mock.Anything).Return([]domain.InteractionInput{{ID: strPtr("a")}}, nil)
		s := NewSyncer(remote, false)

		applied, err := s.Hydrate(ctx, func([]domain.InteractionInput) bool { return false })
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, StatusIdle, s.State().Hydrate.Status)
	})

	t.Run("empty is success without replacement", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Fetch", mock.Anything).Return(nil, nil)
		s := NewSyncer(remote, false)

		applied, err := s.Hydrate(ctx, func([]domain.InteractionInput) bool { t.Fatal("apply called"); return true })
		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, StatusSuccess, s.State().Hydrate.Status)
	})

	t.Run("error is retained", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Fetch", mock.Anything).Return(nil, &domain.HTTPError{Op: "hydrate", Status: 502})
		s := NewSyncer(remote, false)

		applied, err := s.Hydrate(ctx, func([]domain.InteractionInput) bool { t.Fatal("apply called"); return true })
		assert.Error(t, err)
		assert.False(t, applied)
		state := s.State().Hydrate
		assert.Equal(t, StatusError, state.Status)
		assert.Contains(t, state.Error, "502")
	})
}

func TestSyncer_CancelledHydrateNeverApplies(t *testing.T) {
	remote := &slowRemote{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
		inputs:  []domain.InteractionInput{{ID: strPtr("remote")}},
	}
	s := NewSyncer(remote, false)

	var applied atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := s.Hydrate(context.Background(), func([]domain.InteractionInput) bool { applied.Store(true); return true })
		done <- err
	}()

	<-remote.started
	s.CancelHydrate()
	close(remote.release)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("hydrate did not return")
	}
	assert.False(t, applied.Load())
	assert.Equal(t, StatusIdle, s.State().Hydrate.Status)
}

func TestSyncer_NewerHydrateWins(t *testing.T) {
	remote := &slowRemote{
		release: make(chan struct{}),
		started: make(chan struct{}, 2),
		inputs:  []domain.InteractionInput{{ID: strPtr("remote")}},
	}
	s := NewSyncer(remote, false)

	var firstApplied, secondApplied atomic.Bool
	first := make(chan struct{})
	go func() {
		s.Hydrate(context.Background(), func([]domain.InteractionInput) bool { firstApplied.Store(true); return true })
		close(first)
	}()
	<-remote.started

	second := make(chan struct{})
	go func() {
		s.Hydrate(context.Background(), func([]domain.InteractionInput) bool { secondApplied.Store(true); return true })
		close(second)
	}()
	<-remote.started

	close(remote.release)
	<-first
	<-second

	assert.False(t, firstApplied.Load())
	assert.True(t, secondApplied.Load())
}

func TestSyncer_TeardownCancels(t *testing.T) {
	remote := &slowRemote{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
		inputs:  []domain.InteractionInput{{ID: strPtr("remote")}},
	}
	s := NewSyncer(remote, false)
	ctx, cancel := context.WithCancel(context.Background())

	var applied atomic.Bool
	done := make(chan struct{})
	go func() {
		s.Hydrate(ctx, func([]domain.InteractionInput) bool { applied.Store(true); return true })
		close(done)
	}()

	<-remote.started
	cancel()
	close(remote.release)
	<-done

	assert.False(t, applied.Load())
}

func TestSyncer_Publish(t *testing.T) {
	ctx := context.Background()
	ws := domain.Workspace{{ID: "a"}}

	t.Run("requires confirmation", func(t *testing.T) {
		s := NewSyncer(new(MockRemote), true)
		_, err := s.Publish(ctx, ws, false)
		assert.ErrorIs(t, err, domain.ErrPublishNotConfirmed)
	})

	t.Run("success records timestamp", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Put", mock.Anything, ws).Return(nil).Once()
		s := NewSyncer(remote, true)

		at, err := s.Publish(ctx, ws, true)
		require.NoError(t, err)
		assert.False(t, at.IsZero())
		state := s.State()
		assert.Equal(t, StatusSuccess, state.Publish.Status)
		assert.Equal(t, at, state.LastPublished)
		remote.AssertExpectations(t)
	})

	t.Run("failure is surfaced without retry", func(t *testing.T) {
		remote := new(MockRemote)
		remote.On("Put", mock.Anything, ws).Return(errors.New("connection refused")).Once()
		s := NewSyncer(remote, true)

		_, err := s.Publish(ctx, ws, true)
		assert.Error(t, err)
		state := s.State()
		assert.Equal(t, StatusError, state.Publish.Status)
		assert.True(t, state.LastPublished.IsZero())
		remote.AssertNumberOfCalls(t, "Put", 1)
	})
}

func TestSyncer_Close(t *testing.T) {
	remote := &slowRemote{
		release: make(chan struct{}),
		started: make(chan struct{}, 1),
		inputs:  []domain.InteractionInput{{ID: strPtr("remote")}},
	}
	s := NewSyncer(remote, false)

	var applied atomic.Bool
	done := make(chan struct{})
	go func() {
		s.Hydrate(context.Background(), func([]domain.InteractionInput) bool { applied.Store(true); return true })
		close(done)
	}()

	<-remote.started
	require.NoError(t, s.Close())
	close(remote.release)
	<-done

	assert.False(t, applied.Load())
	assert.NoError(t, New(config.RemoteConfig{}).Close())
}
