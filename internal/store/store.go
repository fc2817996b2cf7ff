// Package store orchestrates task persistence and the once-per-day reset
// pass. It owns the task collection and the reset marker; nothing else reads
// or writes those keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/storage"
	"daytrack/internal/task"
)

const (
	keyTasks  = "tasks"
	keyMarker = "reset_marker"
)

var ErrNotFound = errors.New("task not found")

type Store struct {
	kv    storage.KV
	clock Clock
	log   *zap.Logger
}

func New(kv storage.KV, clock Clock, log *zap.Logger) *Store {
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, clock: clock, log: log}
}

// LoadAll returns the task collection, rolled over to today if the reset
// marker is stale. Unreadable or malformed state degrades to an empty
// collection rather than failing the caller; the screen must always render.
//
// The marker is only a fast-path skip. Per-task rollover guards on each
// task's own activity date, so a lost marker or a crash between the two
// writes cannot corrupt the collection.
func (s *Store) LoadAll(ctx context.Context) ([]model.Task, error) {
	_ = ctx

	tasks := s.loadTasks()
	now := s.clock.Now()
	today := model.DateOf(now)

	if s.loadMarker() == today {
		return tasks, nil
	}

	changed := false
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		next := task.RolloverForNewDay(t, today, now)
		if next != t {
			changed = true
		}
		out[i] = next
	}

	if changed {
		if err := s.saveTasks(out); err != nil {
			// Keep the marker stale so the next load retries the
			// persist; the in-memory result is already correct.
			s.log.Error("persist rollover failed", zap.Error(err))
			return out, nil
		}
	}
	if err := s.kv.Set(keyMarker, []byte(today)); err != nil {
		s.log.Warn("advance reset marker failed", zap.Error(err))
	}
	s.log.Info("reset pass applied",
		zap.String("today", today.String()),
		zap.Int("tasks", len(out)),
		zap.Bool("changed", changed))
	return out, nil
}

// Upsert replaces the task with a matching id, or appends it, and persists
// the whole collection. The caller supplies its current in-memory collection;
// concurrent writers race last-write-wins by contract.
func (s *Store) Upsert(ctx context.Context, tasks []model.Task, t model.Task) ([]model.Task, error) {
	_ = ctx

	out := make([]model.Task, 0, len(tasks)+1)
	replaced := false
	for _, cur := range tasks {
		if cur.ID == t.ID {
			out = append(out, t)
			replaced = true
			continue
		}
		out = append(out, cur)
	}
	if !replaced {
		out = append(out, t)
	}

	if err := s.saveTasks(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the task by id and persists the remainder. Removing an
// unknown id returns ErrNotFound; the stored collection is untouched.
func (s *Store) Remove(ctx context.Context, tasks []model.Task, id model.TaskID) ([]model.Task, error) {
	_ = ctx

	out := make([]model.Task, 0, len(tasks))
	found := false
	for _, cur := range tasks {
		if cur.ID == id {
			found = true
			continue
		}
		out = append(out, cur)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := s.saveTasks(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear erases the task collection and the reset marker. Used only for the
// full app reset.
func (s *Store) Clear(ctx context.Context) error {
	_ = ctx

	if err := s.kv.Delete(keyTasks); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	if err := s.kv.Delete(keyMarker); err != nil {
		return fmt.Errorf("clear reset marker: %w", err)
	}
	return nil
}

// Today exposes the store's notion of the current local calendar day.
func (s *Store) Today() model.Date {
	return s.clock.Today()
}

// Now exposes the store's clock so callers time mutations consistently.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

func (s *Store) loadTasks() []model.Task {
	raw, found, err := s.kv.Get(keyTasks)
	if err != nil {
		s.log.Warn("task collection unreadable, starting empty", zap.Error(err))
		return []model.Task{}
	}
	if !found {
		return []model.Task{}
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		s.log.Warn("task collection malformed, starting empty", zap.Error(err))
		return []model.Task{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

func (s *Store) saveTasks(tasks []model.Task) error {
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.kv.Set(keyTasks, b); err != nil {
		return fmt.Errorf("persist tasks: %w", err)
	}
	return nil
}

func (s *Store) loadMarker() model.Date {
	raw, found, err := s.kv.Get(keyMarker)
	if err != nil || !found {
		return ""
	}
	d, err := model.ParseDate(string(raw))
	if err != nil {
		return ""
	}
	return d
}
