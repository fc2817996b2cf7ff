// Package report aggregates the task and event collections into the summary
// the report screen renders. Pure computation over already-loaded state.
package report

import (
	"daytrack/internal/calendar"
	"daytrack/internal/model"
	"daytrack/internal/task"
)

const upcomingWindowDays = 7

type Summary struct {
	Day model.Date `json:"day"`

	TotalTasks  int                `json:"total_tasks"`
	TasksByKind map[model.Kind]int `json:"tasks_by_kind"`

	CompletedToday int `json:"completed_today"`
	PendingToday   int `json:"pending_today"`

	BestStreak      int    `json:"best_streak"`
	BestStreakTitle string `json:"best_streak_title,omitempty"`
	TotalStreakDays int    `json:"total_streak_days"`

	// ProgressRatio is the mean completion ratio across Progress tasks,
	// in [0, 1]. Zero when there are none.
	ProgressRatio float64 `json:"progress_ratio"`

	UpcomingEvents int `json:"upcoming_events"`
}

// Build computes the summary for the given day. Callers pass the collection
// returned by the store so the counts reflect post-rollover state.
func Build(tasks []model.Task, events []model.Event, today model.Date) Summary {
	s := Summary{
		Day:         today,
		TotalTasks:  len(tasks),
		TasksByKind: make(map[model.Kind]int),
	}

	progressCount := 0
	progressSum := 0.0
	for _, t := range tasks {
		s.TasksByKind[t.Kind]++

		if task.IsCompleted(t) {
			s.CompletedToday++
		} else {
			s.PendingToday++
		}

		switch t.Kind {
		case model.KindProgress:
			progressCount++
			if t.TargetValue > 0 {
				progressSum += t.CurrentValue / t.TargetValue
			}
		default:
			s.TotalStreakDays += t.StreakCount
			if t.StreakCount > s.BestStreak {
				s.BestStreak = t.StreakCount
				s.BestStreakTitle = t.Title
			}
		}
	}
	if progressCount > 0 {
		s.ProgressRatio = progressSum / float64(progressCount)
	}

	for _, e := range events {
		for i := 0; i < upcomingWindowDays; i++ {
			if calendar.OccursOn(e, today.AddDays(i)) {
				s.UpcomingEvents++
				break
			}
		}
	}

	return s
}
