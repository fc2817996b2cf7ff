package model

import (
	"time"
)

type TaskID string

// Kind selects how a task tracks completion. The serialized values match the
// mobile app's storage format.
type Kind string

const (
	// KindProgress accumulates a numeric value toward a daily target.
	KindProgress Kind = "unit"
	// KindOnceDaily is checked off at most once per day and builds a streak.
	KindOnceDaily Kind = "daily"
	// KindStreak counts consecutive clean days and resets on relapse.
	KindStreak Kind = "clean"
)

func (k Kind) Valid() bool {
	switch k {
	case KindProgress, KindOnceDaily, KindStreak:
		return true
	}
	return false
}

type Task struct {
	ID          TaskID `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Kind        Kind   `json:"kind"`

	// TargetValue and CurrentValue are meaningful only for KindProgress.
	// Invariant: 0 <= CurrentValue <= TargetValue, TargetValue >= 1.
	TargetValue  float64 `json:"targetValue,omitempty"`
	CurrentValue float64 `json:"currentValue,omitempty"`

	CompletedToday bool `json:"completedToday"`

	// StreakCount is meaningful for KindOnceDaily and KindStreak; it is
	// never read for KindProgress.
	StreakCount int `json:"streakCount"`

	LastCompletedAt *time.Time `json:"lastCompletedAt,omitempty"`
	// LastRelapsedAt is the calendar day of the most recent relapse,
	// set only for KindStreak. Empty means never.
	LastRelapsedAt Date `json:"lastRelapsedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActivityDate is the calendar day the task was last touched. UpdatedAt moves
// on every mutation, so this is the signal for "was this task acted on today".
func (t Task) ActivityDate() Date {
	if t.UpdatedAt.IsZero() {
		return ""
	}
	return DateOf(t.UpdatedAt)
}
