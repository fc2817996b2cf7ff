package calendar

import (
	"fmt"
	"strings"
	"time"

	"daytrack/internal/model"
)

const icsDateLayout = "20060102"

// BuildEventICS renders an event as a single-event iCalendar document,
// including an RRULE for its recurrence tag and a VALARM when a reminder is
// set.
func BuildEventICS(e model.Event, now time.Time) (string, error) {
	start, err := e.Date.Time()
	if err != nil {
		return "", fmt.Errorf("event date must be YYYY-MM-DD")
	}
	end := start.AddDate(0, 0, 1)

	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = "Daytrack Event"
	}

	uid := fmt.Sprintf("event-%s@daytrack", strings.TrimSpace(string(e.ID)))
	if strings.TrimSpace(string(e.ID)) == "" {
		uid = fmt.Sprintf("event-export-%d@daytrack", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Daytrack//Calendar Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
	}

	if hh, mm, ok := parseStartTime(e.StartTime); ok {
		at := time.Date(start.Year(), start.Month(), start.Day(), hh, mm, 0, 0, time.Local)
		lines = append(lines,
			"DTSTART:"+at.UTC().Format("20060102T150405Z"),
			"DTEND:"+at.Add(time.Hour).UTC().Format("20060102T150405Z"),
		)
	} else {
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+start.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.Format(icsDateLayout),
		)
	}

	if desc := strings.TrimSpace(e.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if rrule := recurrenceToRRULE(e.Recurrence); rrule != "" {
		lines = append(lines, "RRULE:"+rrule)
	}
	if e.Reminder {
		lead := e.ReminderLeadMin
		if lead <= 0 {
			lead = 10
		}
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:"+escapeICSText(title),
			fmt.Sprintf("TRIGGER:-PT%dM", lead),
			"END:VALARM",
		)
	}

	lines = append(lines, "END:VEVENT", "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), nil
}

func recurrenceToRRULE(tag model.RecurrenceTag) string {
	switch tag {
	case model.RecurDaily:
		return "FREQ=DAILY;INTERVAL=1"
	case model.RecurWeekly:
		return "FREQ=WEEKLY;INTERVAL=1"
	case model.RecurMonthly:
		return "FREQ=MONTHLY;INTERVAL=1"
	default:
		return ""
	}
}

func parseStartTime(s string) (hh, mm int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(s, "%d:%d", &hh, &mm); err != nil {
		return 0, 0, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, false
	}
	return hh, mm, true
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
