package task

import (
	"testing"
	"time"

	"daytrack/internal/model"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, 3, d, hour, 0, 0, 0, time.Local)
}

func TestRollover_SameDayIsNoOp(t *testing.T) {
	now := day(14, 9)
	today := model.DateOf(now)

	tasks := []model.Task{
		UpdateProgress(New("water", model.KindProgress, "", 8, now), 3, now),
		Complete(New("meditate", model.KindOnceDaily, "", 0, now), now),
		Relapse(New("no sugar", model.KindStreak, "", 0, now), now),
		New("fresh", model.KindOnceDaily, "", 0, now),
	}
	for _, cur := range tasks {
		got := RolloverForNewDay(cur, today, day(14, 23))
		if got != cur {
			t.Fatalf("expected same-day rollover to be a no-op for %q, got %+v", cur.Title, got)
		}
	}
}

func TestRollover_ProgressResetsCounter(t *testing.T) {
	yesterday := day(13, 20)
	cur := UpdateProgress(New("water", model.KindProgress, "", 8, yesterday), 5, yesterday)

	now := day(14, 7)
	got := RolloverForNewDay(cur, model.DateOf(now), now)

	if got.CurrentValue != 0 {
		t.Fatalf("expected counter reset, got %v", got.CurrentValue)
	}
	if got.CompletedToday {
		t.Fatalf("expected daily flag cleared")
	}
	if got.UpdatedAt != now {
		t.Fatalf("expected updatedAt advanced to rollover time")
	}
}

func TestRollover_OnceDailyStreakGrowsAfterCompletedDay(t *testing.T) {
	yesterday := day(13, 20)
	cur := Complete(New("meditate", model.KindOnceDaily, "", 0, yesterday), yesterday)
	cur.StreakCount = 5

	now := day(14, 7)
	got := RolloverForNewDay(cur, model.DateOf(now), now)

	if got.StreakCount != 6 {
		t.Fatalf("expected streak 6, got %d", got.StreakCount)
	}
	if got.CompletedToday {
		t.Fatalf("expected daily flag cleared")
	}
}

func TestRollover_OnceDailyStreakResetsAfterMissedDay(t *testing.T) {
	yesterday := day(13, 20)
	cur := New("meditate", model.KindOnceDaily, "", 0, yesterday)
	cur.StreakCount = 9

	got := RolloverForNewDay(cur, model.DateOf(day(14, 7)), day(14, 7))

	if got.StreakCount != 0 {
		t.Fatalf("expected streak reset, got %d", got.StreakCount)
	}
}

func TestRollover_StreakSurvivesCleanDay(t *testing.T) {
	yesterday := day(13, 20)
	cur := Complete(New("no sugar", model.KindStreak, "", 0, yesterday), yesterday)
	cur.StreakCount = 10

	got := RolloverForNewDay(cur, model.DateOf(day(14, 7)), day(14, 7))

	if got.StreakCount != 11 {
		t.Fatalf("expected streak 11, got %d", got.StreakCount)
	}
	if got.CompletedToday {
		t.Fatalf("expected daily flag cleared")
	}
}

func TestRollover_StreakRelapseDayEarnsNothing(t *testing.T) {
	relapseDay := day(13, 15)
	cur := New("no sugar", model.KindStreak, "", 0, day(1, 10))
	cur.StreakCount = 10
	cur = Relapse(cur, relapseDay)

	got := RolloverForNewDay(cur, model.DateOf(day(14, 7)), day(14, 7))

	if got.StreakCount != 0 {
		t.Fatalf("expected streak 0 after relapse day, got %d", got.StreakCount)
	}
	if got.CompletedToday {
		t.Fatalf("expected daily flag cleared")
	}
}

func TestRollover_StreakGrowsAgainTheDayAfterRelapseWasRolled(t *testing.T) {
	cur := Relapse(New("no sugar", model.KindStreak, "", 0, day(12, 9)), day(13, 15))

	cur = RolloverForNewDay(cur, model.DateOf(day(14, 7)), day(14, 7))
	if cur.StreakCount != 0 {
		t.Fatalf("relapse day must not count, got %d", cur.StreakCount)
	}

	got := RolloverForNewDay(cur, model.DateOf(day(15, 7)), day(15, 7))
	if got.StreakCount != 1 {
		t.Fatalf("expected first clean day counted, got %d", got.StreakCount)
	}
}

func TestRollover_BrandNewTaskSkipsItsCreationDay(t *testing.T) {
	now := day(14, 9)
	cur := New("fresh", model.KindStreak, "", 0, now)

	got := RolloverForNewDay(cur, model.DateOf(now), day(14, 23))
	if got != cur {
		t.Fatalf("task created today must not roll over today")
	}
}

func TestRollover_AppliedTwiceEqualsOnce(t *testing.T) {
	yesterday := day(13, 20)
	cur := Complete(New("meditate", model.KindOnceDaily, "", 0, yesterday), yesterday)
	cur.StreakCount = 2

	now := day(14, 7)
	today := model.DateOf(now)
	once := RolloverForNewDay(cur, today, now)
	twice := RolloverForNewDay(once, today, day(14, 11))

	if twice != once {
		t.Fatalf("second rollover on the same day must not change the task")
	}
}
