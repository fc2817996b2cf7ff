package task

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"daytrack/internal/model"
)

var noon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

func TestNew_ProgressDefaults(t *testing.T) {
	got := New("drink water", model.KindProgress, "2 liters", 0, noon)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "drink water", got.Title)
	assert.Equal(t, "2 liters", got.Description)
	assert.Equal(t, float64(1), got.TargetValue, "target floors at 1")
	assert.Zero(t, got.CurrentValue)
	assert.False(t, got.CompletedToday)
	assert.Zero(t, got.StreakCount)
	assert.Equal(t, noon, got.CreatedAt)
	assert.Equal(t, noon, got.UpdatedAt)
}

func TestNew_NonProgressHasNoTarget(t *testing.T) {
	got := New("meditate", model.KindOnceDaily, "", 5, noon)
	assert.Zero(t, got.TargetValue)
	assert.Zero(t, got.CurrentValue)
}

func TestNew_UniqueIDs(t *testing.T) {
	seen := map[model.TaskID]bool{}
	for range 50 {
		got := New("x", model.KindStreak, "", 0, noon)
		assert.False(t, seen[got.ID])
		seen[got.ID] = true
	}
}

func TestComplete_Progress(t *testing.T) {
	cur := New("pushups", model.KindProgress, "", 30, noon)
	cur = UpdateProgress(cur, 12, noon)

	got := Complete(cur, noon)

	assert.Equal(t, float64(30), got.CurrentValue)
	assert.True(t, got.CompletedToday)
	assert.True(t, IsCompleted(got))
	assert.Equal(t, noon, *got.LastCompletedAt)
}

func TestComplete_SameDayTwiceOnlyRefreshesTimestamps(t *testing.T) {
	cur := Complete(New("meditate", model.KindOnceDaily, "", 0, noon), noon)
	later := noon.Add(2 * time.Hour)

	got := Complete(cur, later)

	assert.True(t, got.CompletedToday)
	assert.Equal(t, cur.StreakCount, got.StreakCount)
	assert.Equal(t, later, got.UpdatedAt)
	assert.Equal(t, later, *got.LastCompletedAt)
}

func TestRelapse_ZeroesStreakAndMarksDay(t *testing.T) {
	cur := New("no sugar", model.KindStreak, "", 0, noon.AddDate(0, 0, -30))
	cur.StreakCount = 12

	got := Relapse(cur, noon)

	assert.Zero(t, got.StreakCount)
	assert.True(t, got.CompletedToday)
	assert.Equal(t, model.DateOf(noon), got.LastRelapsedAt)
}

func TestRelapse_SameDayIsIdempotent(t *testing.T) {
	first := Relapse(New("no sugar", model.KindStreak, "", 0, noon), noon)
	second := Relapse(first, noon.Add(3*time.Hour))

	assert.Zero(t, second.StreakCount)
	assert.Equal(t, first.LastRelapsedAt, second.LastRelapsedAt)
}

func TestRelapse_NoOpForOtherKinds(t *testing.T) {
	cur := New("meditate", model.KindOnceDaily, "", 0, noon)
	assert.Equal(t, cur, Relapse(cur, noon.Add(time.Hour)))
}

func TestUpdateProgress_Clamps(t *testing.T) {
	cur := New("read pages", model.KindProgress, "", 3, noon)

	cases := []struct {
		in   float64
		want float64
	}{
		{1.5, 1.5},
		{-7, 0},
		{1003, 3},
		{math.Inf(1), 3},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		got := UpdateProgress(cur, tc.in, noon)
		assert.Equal(t, tc.want, got.CurrentValue, "input %v", tc.in)
		assert.GreaterOrEqual(t, got.CurrentValue, float64(0))
		assert.LessOrEqual(t, got.CurrentValue, cur.TargetValue)
	}
}

func TestUpdateProgress_ReachingTargetCompletes(t *testing.T) {
	cur := New("read pages", model.KindProgress, "", 3, noon)
	cur = UpdateProgress(cur, 1.5, noon)
	assert.False(t, IsCompleted(cur))

	got := UpdateProgress(cur, 3, noon)

	assert.True(t, IsCompleted(got))
	assert.Equal(t, float64(3), got.CurrentValue)
	assert.NotNil(t, got.LastCompletedAt)
}

func TestUpdateProgress_NoOpForOtherKinds(t *testing.T) {
	cur := New("no sugar", model.KindStreak, "", 0, noon)
	assert.Equal(t, cur, UpdateProgress(cur, 5, noon.Add(time.Hour)))
}
