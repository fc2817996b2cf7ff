package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daytrack/internal/model"
	"daytrack/internal/storage"
	"daytrack/internal/task"
)

func newTestStore(start time.Time) (*Store, *storage.MemoryKV, *FakeClock) {
	kv := storage.NewMemoryKV()
	clock := NewFakeClock(start)
	return New(kv, clock, nil), kv, clock
}

func TestLoadAll_EmptyStore(t *testing.T) {
	s, _, _ := newTestStore(time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local))

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestLoadAll_MalformedBlobDegradesToEmpty(t *testing.T) {
	s, kv, _ := newTestStore(time.Date(2026, 3, 14, 8, 0, 0, 0, time.Local))
	require.NoError(t, kv.Set("tasks", []byte("{not json")))

	got, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadAll_RollsOverAtDayBoundary(t *testing.T) {
	start := time.Date(2026, 3, 13, 21, 0, 0, 0, time.Local)
	s, _, clock := newTestStore(start)
	ctx := context.Background()

	daily := task.Complete(task.New("meditate", model.KindOnceDaily, "", 0, start), start)
	daily.StreakCount = 5
	tasks, err := s.Upsert(ctx, nil, daily)
	require.NoError(t, err)

	progress := task.UpdateProgress(task.New("water", model.KindProgress, "", 8, start), 6, start)
	tasks, err = s.Upsert(ctx, tasks, progress)
	require.NoError(t, err)

	clock.Set(time.Date(2026, 3, 14, 7, 30, 0, 0, time.Local))

	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 6, got[0].StreakCount)
	assert.False(t, got[0].CompletedToday)
	assert.Zero(t, got[1].CurrentValue)
}

func TestLoadAll_SameDayIsStable(t *testing.T) {
	start := time.Date(2026, 3, 13, 21, 0, 0, 0, time.Local)
	s, _, clock := newTestStore(start)
	ctx := context.Background()

	seed := task.Complete(task.New("meditate", model.KindOnceDaily, "", 0, start), start)
	_, err := s.Upsert(ctx, nil, seed)
	require.NoError(t, err)

	clock.Set(time.Date(2026, 3, 14, 7, 0, 0, 0, time.Local))
	first, err := s.LoadAll(ctx)
	require.NoError(t, err)

	clock.Advance(4 * time.Hour)
	second, err := s.LoadAll(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestLoadAll_LostMarkerStillRunsOnce(t *testing.T) {
	start := time.Date(2026, 3, 13, 21, 0, 0, 0, time.Local)
	s, kv, clock := newTestStore(start)
	ctx := context.Background()

	seed := task.Complete(task.New("meditate", model.KindOnceDaily, "", 0, start), start)
	_, err := s.Upsert(ctx, nil, seed)
	require.NoError(t, err)

	clock.Set(time.Date(2026, 3, 14, 7, 0, 0, 0, time.Local))
	first, err := s.LoadAll(ctx)
	require.NoError(t, err)

	// Simulate a crash between the collection write and the marker write.
	require.NoError(t, kv.Delete("reset_marker"))

	second, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "re-running the reset pass must be idempotent")
	assert.Equal(t, 1, second[0].StreakCount)
}

func TestLoadAll_AllUnchangedPassStillAdvancesMarker(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	s, kv, _ := newTestStore(now)
	ctx := context.Background()

	seed := task.New("fresh", model.KindOnceDaily, "", 0, now)
	_, err := s.Upsert(ctx, nil, seed)
	require.NoError(t, err)

	_, err = s.LoadAll(ctx)
	require.NoError(t, err)

	raw, found, err := kv.Get("reset_marker")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "2026-03-14", string(raw))
}

func TestUpsert_ReplacesByIDOrAppends(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	s, _, _ := newTestStore(now)
	ctx := context.Background()

	a := task.New("a", model.KindOnceDaily, "", 0, now)
	tasks, err := s.Upsert(ctx, nil, a)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	b := task.New("b", model.KindStreak, "", 0, now)
	tasks, err = s.Upsert(ctx, tasks, b)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, a.ID, tasks[0].ID, "insertion order preserved")

	a2 := task.Complete(a, now)
	tasks, err = s.Upsert(ctx, tasks, a2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.True(t, tasks[0].CompletedToday)

	// Collection round-trips through persistence in order.
	got, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, got)
}

func TestRemove(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	s, _, _ := newTestStore(now)
	ctx := context.Background()

	a := task.New("a", model.KindOnceDaily, "", 0, now)
	tasks, err := s.Upsert(ctx, nil, a)
	require.NoError(t, err)

	tasks, err = s.Remove(ctx, tasks, a.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = s.Remove(ctx, tasks, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClear(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	s, kv, _ := newTestStore(now)
	ctx := context.Background()

	_, err := s.Upsert(ctx, nil, task.New("a", model.KindOnceDaily, "", 0, now))
	require.NoError(t, err)
	_, err = s.LoadAll(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))

	_, found, err := kv.Get("tasks")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = kv.Get("reset_marker")
	require.NoError(t, err)
	assert.False(t, found)
}

type failingKV struct {
	storage.KV
	setErr error
}

func (f *failingKV) Set(key string, value []byte) error { return f.setErr }

func TestUpsert_WriteFailurePropagates(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	boom := errors.New("disk full")
	s := New(&failingKV{KV: storage.NewMemoryKV(), setErr: boom}, NewFakeClock(now), nil)

	_, err := s.Upsert(context.Background(), nil, task.New("a", model.KindOnceDaily, "", 0, now))
	assert.ErrorIs(t, err, boom)
}

func TestLoadAll_RolloverPersistFailureStillReturnsCollection(t *testing.T) {
	start := time.Date(2026, 3, 13, 21, 0, 0, 0, time.Local)
	inner := storage.NewMemoryKV()
	clock := NewFakeClock(start)
	s := New(inner, clock, nil)
	ctx := context.Background()

	seed := task.Complete(task.New("meditate", model.KindOnceDaily, "", 0, start), start)
	_, err := s.Upsert(ctx, nil, seed)
	require.NoError(t, err)

	failing := &failingKV{KV: inner, setErr: errors.New("disk full")}
	s2 := New(failing, clock, nil)
	clock.Set(time.Date(2026, 3, 14, 7, 0, 0, 0, time.Local))

	got, err := s2.LoadAll(ctx)
	require.NoError(t, err, "load never fails the caller")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].StreakCount, "in-memory result is rolled over")

	// Marker must not advance past a failed persist, so a healthy store
	// retries the pass.
	got2, err := s.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, got2)
}
