package model

import (
	"time"
)

type EventID string

// RecurrenceTag marks how a calendar event repeats after its first date.
type RecurrenceTag string

const (
	RecurNone    RecurrenceTag = ""
	RecurDaily   RecurrenceTag = "daily"
	RecurWeekly  RecurrenceTag = "weekly"
	RecurMonthly RecurrenceTag = "monthly"
)

func (r RecurrenceTag) Valid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly, RecurMonthly:
		return true
	}
	return false
}

// Event is a discrete calendar entry, independent of the task collection.
type Event struct {
	ID          EventID `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`

	Date Date `json:"date"`
	// StartTime is "HH:MM" local time; empty means an all-day event.
	StartTime string `json:"startTime,omitempty"`

	Reminder        bool `json:"reminder"`
	ReminderLeadMin int  `json:"reminderLeadMin,omitempty"`

	Recurrence RecurrenceTag `json:"recurrence,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
