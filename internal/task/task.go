// Package task holds the task record, its invariants, and the Store that owns
// the collection and persists it through a storage.KV.
package task

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func ParsePriority(v string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(v)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, v)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities for display: high=0, medium=1, low=2.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Timestamps keep the
// calendar day they fall on in the local zone, where they were picked.
func ParseDate(v string) (Date, error) {
	return parseDateIn(v, time.Local)
}

func parseDateIn(v string, loc *time.Location) (Date, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", v)
	}
	return DateOf(t.In(loc)), nil
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	return d.Time().Compare(o.Time())
}

// Task is a single to-do record. Values handed out by the Store are copies.
type Task struct {
	ID        string
	Title     string
	Completed bool
	Priority  Priority
	DueDate   *Date
	Category  string
}

func (t Task) clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Draft carries the user-editable fields for Create and Update.
// Empty Priority means medium; empty Category means the store default.
type Draft struct {
	Title    string
	Priority Priority
	DueDate  *Date
	Category string
}

func (d Draft) normalize(defaultCategory string) (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return d, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if !d.Priority.Valid() {
		return d, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, d.Priority)
	}
	d.Category = strings.TrimSpace(d.Category)
	if d.Category == "" {
		d.Category = defaultCategory
	}
	if d.DueDate != nil {
		due := *d.DueDate
		d.DueDate = &due
	}
	return d, nil
}

// DraftOf returns the editable fields of t.
func DraftOf(t Task) Draft {
	t = t.clone()
	return Draft{Title: t.Title, Priority: t.Priority, DueDate: t.DueDate, Category: t.Category}
}
