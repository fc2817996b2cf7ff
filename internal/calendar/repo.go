// Package calendar manages discrete events with reminders and recurrence
// tags. Events live beside the task collection in the same blob store but
// have no day-boundary semantics of their own.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"daytrack/internal/model"
	"daytrack/internal/storage"
)

const keyEvents = "events"

var (
	ErrNotFound = errors.New("event not found")

	// ErrInvalid marks caller mistakes so transports can tell them
	// apart from storage failures.
	ErrInvalid = errors.New("invalid event")
)

// Patch represents a partial update. nil pointer => "no change".
type Patch struct {
	Title           *string              `json:"title,omitempty"`
	Description     *string              `json:"description,omitempty"`
	Date            *model.Date          `json:"date,omitempty"`
	StartTime       *string              `json:"startTime,omitempty"`
	Reminder        *bool                `json:"reminder,omitempty"`
	ReminderLeadMin *int                 `json:"reminderLeadMin,omitempty"`
	Recurrence      *model.RecurrenceTag `json:"recurrence,omitempty"`
}

type Repo struct {
	kv  storage.KV
	now func() time.Time
	log *zap.Logger

	// mu serializes the load-modify-save cycle on the events blob.
	// Without it two concurrent writers both read the same state and
	// the second save drops the first one's change.
	mu sync.Mutex
}

func NewRepo(kv storage.KV, now func() time.Time, log *zap.Logger) *Repo {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Repo{kv: kv, now: now, log: log}
}

func (r *Repo) Create(ctx context.Context, e model.Event) (model.Event, error) {
	_ = ctx

	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return model.Event{}, fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if e.Date.IsZero() {
		return model.Event{}, fmt.Errorf("%w: date is required", ErrInvalid)
	}
	if !e.Recurrence.Valid() {
		return model.Event{}, fmt.Errorf("%w: unknown recurrence tag %q", ErrInvalid, e.Recurrence)
	}

	now := r.now()
	e.ID = model.EventID(uuid.NewString())
	e.CreatedAt = now
	e.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return model.Event{}, err
	}
	events = append(events, e)
	if err := r.save(events); err != nil {
		return model.Event{}, err
	}
	return e, nil
}

func (r *Repo) Get(ctx context.Context, id model.EventID) (model.Event, error) {
	_ = ctx

	events, err := r.load()
	if err != nil {
		return model.Event{}, err
	}
	for _, e := range events {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *Repo) Update(ctx context.Context, id model.EventID, p Patch) (model.Event, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return model.Event{}, err
	}
	for i, e := range events {
		if e.ID != id {
			continue
		}
		if err := applyPatch(&e, p); err != nil {
			return model.Event{}, err
		}
		e.UpdatedAt = r.now()
		events[i] = e
		if err := r.save(events); err != nil {
			return model.Event{}, err
		}
		return e, nil
	}
	return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *Repo) Delete(ctx context.Context, id model.EventID) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	events, err := r.load()
	if err != nil {
		return err
	}
	out := events[:0]
	found := false
	for _, e := range events {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r.save(out)
}

// List returns all events sorted by date, then start time, then creation.
func (r *Repo) List(ctx context.Context) ([]model.Event, error) {
	_ = ctx

	events, err := r.load()
	if err != nil {
		return nil, err
	}
	sortEvents(events)
	return events, nil
}

// ListOn returns events occurring on the given day, recurrence included.
func (r *Repo) ListOn(ctx context.Context, d model.Date) ([]model.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if OccursOn(e, d) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListUpcoming returns events with an occurrence within [from, from+days).
func (r *Repo) ListUpcoming(ctx context.Context, from model.Date, days int) ([]model.Event, error) {
	events, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		for i := 0; i < days; i++ {
			if OccursOn(e, from.AddDays(i)) {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

// OccursOn reports whether the event has an occurrence on day d, expanding
// its recurrence tag from the first date forward.
func OccursOn(e model.Event, d model.Date) bool {
	first, err := e.Date.Time()
	if err != nil {
		return false
	}
	day, err := d.Time()
	if err != nil {
		return false
	}
	if day.Before(first) {
		return false
	}
	if day.Equal(first) {
		return true
	}

	switch e.Recurrence {
	case model.RecurDaily:
		return true
	case model.RecurWeekly:
		return day.Weekday() == first.Weekday()
	case model.RecurMonthly:
		return day.Day() == first.Day()
	default:
		return false
	}
}

func sortEvents(events []model.Event) {
	sort.Slice(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func applyPatch(e *model.Event, p Patch) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return fmt.Errorf("%w: title is required", ErrInvalid)
		}
		e.Title = title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return fmt.Errorf("%w: date is required", ErrInvalid)
		}
		e.Date = *p.Date
	}
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.Reminder != nil {
		e.Reminder = *p.Reminder
	}
	if p.ReminderLeadMin != nil {
		e.ReminderLeadMin = *p.ReminderLeadMin
	}
	if p.Recurrence != nil {
		if !p.Recurrence.Valid() {
			return fmt.Errorf("%w: unknown recurrence tag %q", ErrInvalid, *p.Recurrence)
		}
		e.Recurrence = *p.Recurrence
	}
	return nil
}

func (r *Repo) load() ([]model.Event, error) {
	raw, found, err := r.kv.Get(keyEvents)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	if !found {
		return []model.Event{}, nil
	}
	var events []model.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		r.log.Warn("event collection malformed, starting empty", zap.Error(err))
		return []model.Event{}, nil
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

func (r *Repo) save(events []model.Event) error {
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := r.kv.Set(keyEvents, b); err != nil {
		return fmt.Errorf("persist events: %w", err)
	}
	return nil
}

// Clear erases the event collection. Part of the full app reset.
func (r *Repo) Clear(ctx context.Context) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Delete(keyEvents); err != nil {
		return fmt.Errorf("clear events: %w", err)
	}
	return nil
}
