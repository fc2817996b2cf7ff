// Package task holds the pure state transitions for tracked tasks. Nothing
// here does I/O; callers supply the clock and persist the results.
package task

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"daytrack/internal/model"
)

// New builds a fresh task. targetValue applies only to KindProgress and is
// floored at 1; description may be empty.
func New(title string, kind model.Kind, description string, targetValue float64, now time.Time) model.Task {
	t := model.Task{
		ID:          model.TaskID(uuid.NewString()),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if kind == model.KindProgress {
		if math.IsNaN(targetValue) || targetValue < 1 {
			targetValue = 1
		}
		t.TargetValue = targetValue
	}
	return t
}

// IsCompleted reports the task's completed state for today. Progress tasks
// derive it from the counter; the other kinds use the daily flag.
func IsCompleted(t model.Task) bool {
	if t.Kind == model.KindProgress {
		return t.CurrentValue >= t.TargetValue
	}
	return t.CompletedToday
}

// Complete marks the task done for today. Calling it again the same day only
// refreshes the timestamps. Streak counters move at the next rollover, not
// here: today's completion is not a streak day until it survives a day
// boundary.
func Complete(t model.Task, now time.Time) model.Task {
	if t.Kind == model.KindProgress {
		t.CurrentValue = t.TargetValue
	}
	t.CompletedToday = true
	t.LastCompletedAt = &now
	t.UpdatedAt = now
	return t
}

// Relapse zeroes a streak task and marks the day as spent. It is a no-op for
// other kinds. Repeating it the same day leaves the relapse day unchanged.
func Relapse(t model.Task, now time.Time) model.Task {
	if t.Kind != model.KindStreak {
		return t
	}
	t.CompletedToday = true
	t.StreakCount = 0
	t.LastRelapsedAt = model.DateOf(now)
	t.UpdatedAt = now
	return t
}

// UpdateProgress sets the counter of a progress task, clamped to
// [0, TargetValue]. Non-finite input clamps like any other out-of-range
// value. No-op for other kinds.
func UpdateProgress(t model.Task, value float64, now time.Time) model.Task {
	if t.Kind != model.KindProgress {
		return t
	}
	switch {
	case math.IsNaN(value) || value < 0:
		value = 0
	case value > t.TargetValue:
		value = t.TargetValue
	}
	t.CurrentValue = value
	if value >= t.TargetValue {
		t.LastCompletedAt = &now
	}
	t.UpdatedAt = now
	return t
}
