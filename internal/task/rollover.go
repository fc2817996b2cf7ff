package task

import (
	"time"

	"daytrack/internal/model"
)

// RolloverForNewDay returns the task as it should look at the start of today.
// A task whose last activity already falls on today is returned unchanged, so
// the function is safe to apply any number of times per day; correctness does
// not depend on the caller's reset marker.
//
// Per kind, on a genuine rollover (last activity on an earlier day):
//   - Progress: the counter and daily flag reset; there is no streak to move.
//   - OnceDaily: the streak grows if yesterday's flag was set, otherwise it
//     resets; the flag clears.
//   - Streak: the streak grows for a day survived clean. A day whose last
//     activity was a relapse earns nothing; the count stays at zero.
func RolloverForNewDay(t model.Task, today model.Date, now time.Time) model.Task {
	last := t.ActivityDate()
	if last == today {
		return t
	}

	switch t.Kind {
	case model.KindProgress:
		t.CurrentValue = 0
		t.CompletedToday = false
	case model.KindOnceDaily:
		if t.CompletedToday {
			t.StreakCount++
		} else {
			t.StreakCount = 0
		}
		t.CompletedToday = false
	case model.KindStreak:
		if !t.LastRelapsedAt.IsZero() && t.LastRelapsedAt == last {
			t.StreakCount = 0
		} else {
			t.StreakCount++
		}
		t.CompletedToday = false
	default:
		return t
	}

	t.UpdatedAt = now
	return t
}
