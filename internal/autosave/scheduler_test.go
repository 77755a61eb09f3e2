package autosave

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSaver struct {
	mu    sync.Mutex
	saves []domain.Workspace
	ok    bool
}

func (r *recordingSaver) Save(_ context.Context, ws domain.Workspace) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, ws)
	return r.ok
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

func (r *recordingSaver) last() domain.Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves[len(r.saves)-1]
}

func TestDebouncer_TrailingEdge(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Schedule(func() {
			calls.Add(1)
			last.Store(n)
		}, 100*time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(5), last.Load())
	assert.False(t, d.Pending())
}

func TestDebouncer_FlushAndCancel(t *testing.T) {
	d := NewDebouncer()
	var calls atomic.Int32

	d.Schedule(func() { calls.Add(1) }, time.Hour)
	assert.True(t, d.Pending())
	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, d.Pending())

	d.Schedule(func() { calls.Add(1) }, 10*time.Millisecond)
	d.Cancel()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	d.Flush()
	assert.Equal(t, int32(1), calls.Load())
}

func TestScheduler_SavesLatestSnapshotOnce(t *testing.T) {
	saver := &recordingSaver{ok: true}
	s := NewScheduler(saver, 20*time.Millisecond)

	s.Notify(domain.Workspace{{ID: "a"}})
	s.Notify(domain.Workspace{{ID: "a"}, {ID: "b"}})

	require.Eventually(t, func() bool { return saver.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, saver.last().IDs())
	assert.False(t, s.LastSaved().IsZero())
}

func TestScheduler_FailedSaveLeavesTimestamp(t *testing.T) {
	saver := &recordingSaver{ok: false}
	s := NewScheduler(saver, time.Hour)

	s.Notify(domain.Workspace{{ID: "a"}})
	s.Flush()

	assert.Equal(t, 1, saver.count())
	assert.True(t, s.LastSaved().IsZero())

	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.MarkSavedIfUnset(stamp)
	assert.Equal(t, stamp, s.LastSaved())
	s.MarkSavedIfUnset(stamp.Add(time.Hour))
	assert.Equal(t, stamp, s.LastSaved())
}

func TestScheduler_Stop(t *testing.T) {
	saver := &recordingSaver{ok: true}
	s := NewScheduler(saver, 10*time.Millisecond)

	s.Notify(domain.Workspace{{ID: "a"}})
	assert.True(t, s.Pending())
	s.Stop()
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, saver.count())
}

// blockingSaver holds the first Save until release is closed
type blockingSaver struct {
	recordingSaver
	entered chan struct{}
	release chan struct{}
	first   sync.Once
	active  atomic.Int32
	peak    atomic.Int32
}

func (b *blockingSaver) Save(ctx context.Context, ws domain.Workspace) bool {
	n := b.active.Add(1)
	defer b.active.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	b.first.Do(func() {
		close(b.entered)
		<-b.release
	})
	return b.recordingSaver.Save(ctx, ws)
}

func TestScheduler_FlushWaitsForRunningSave(t *testing.T) {
	saver := &blockingSaver{
		recordingSaver: recordingSaver{ok: true},
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	s := NewScheduler(saver, 10*time.Millisecond)

	s.Notify(domain.Workspace{{ID: "old"}})
	<-saver.entered

	s.Notify(domain.Workspace{{ID: "new"}})
	flushed := make(chan struct{})
	go func() {
		s.Flush()
		close(flushed)
	}()

	select {
	case <-flushed:
		t.Fatal("flush ran while an earlier save was still writing")
	case <-time.After(50 * time.Millisecond):
	}

	close(saver.release)
	<-flushed

	assert.Equal(t, 2, saver.count())
	assert.Equal(t, []string{"new"}, saver.last().IDs())
	assert.Equal(t, int32(1), saver.peak.Load())
}

func TestScheduler_DropsOlderSnapshot(t *testing.T) {
	saver := &recordingSaver{ok: true}
	s := NewScheduler(saver, time.Hour)

	s.save(2, domain.Workspace{{ID: "new"}})
	s.save(1, domain.Workspace{{ID: "old"}})

	assert.Equal(t, 1, saver.count())
	assert.Equal(t, []string{"new"}, saver.last().IDs())
}
