// Package view computes the filtered, sorted sequence of tasks shown to the
// user. Nothing here is persisted.
package view

import (
	"fmt"
	"slices"
	"strings"

	"tasklist/internal/task"
)

// All matches every priority or category.
const All = "all"

type SortMode string

const (
	SortNone     SortMode = "none"
	SortDueDate  SortMode = "due"
	SortPriority SortMode = "priority"
)

var sortModes = []SortMode{SortNone, SortDueDate, SortPriority}

func ParseSort(v string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "none":
		return SortNone, nil
	case "due", "duedate", "due-date", "by-due-date":
		return SortDueDate, nil
	case "priority", "by-priority":
		return SortPriority, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want none, due or priority)", v)
}

// Next cycles none -> due -> priority -> none.
func (m SortMode) Next() SortMode {
	if m == "" {
		m = SortNone
	}
	i := slices.Index(sortModes, m)
	return sortModes[(i+1)%len(sortModes)]
}

// Criteria holds the transient search, filter and sort settings.
// Empty Priority or Category means All; empty Sort means SortNone.
type Criteria struct {
	Search   string
	Priority string
	Category string
	Sort     SortMode
}

func ParsePriorityFilter(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == All {
		return All, nil
	}
	if !task.Priority(v).Valid() {
		return "", fmt.Errorf("unknown priority filter %q", v)
	}
	return v, nil
}

// NextPriority cycles all -> high -> medium -> low -> all.
func NextPriority(current string) string {
	options := []string{All}
	for _, p := range task.Priorities {
		options = append(options, string(p))
	}
	return nextOf(options, current)
}

// NextCategory cycles all -> categories[0] -> ... -> all.
func NextCategory(categories []string, current string) string {
	return nextOf(append([]string{All}, categories...), current)
}

func nextOf(options []string, current string) string {
	if current == "" {
		current = All
	}
	i := slices.Index(options, current)
	return options[(i+1)%len(options)]
}

func (c Criteria) String() string {
	var parts []string
	if c.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", c.Search))
	}
	parts = append(parts, "priority:"+orAll(c.Priority), "category:"+orAll(c.Category))
	sort := c.Sort
	if sort == "" {
		sort = SortNone
	}
	parts = append(parts, "sort:"+string(sort))
	return strings.Join(parts, " ")
}

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}

// Project filters then stably sorts tasks. The input slice is not modified.
func Project(tasks []task.Task, c Criteria) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.matches(t) {
			out = append(out, t)
		}
	}

	switch c.Sort {
	case SortDueDate:
		slices.SortStableFunc(out, compareDue)
	case SortPriority:
		slices.SortStableFunc(out, func(a, b task.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	}
	return out
}

func (c Criteria) matches(t task.Task) bool {
	if c.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.Search)) {
		return false
	}
	if c.Priority != "" && c.Priority != All && c.Priority != string(t.Priority) {
		return false
	}
	if c.Category != "" && c.Category != All && c.Category != t.Category {
		return false
	}
	return true
}

// compareDue puts dated tasks first, earliest to latest.
func compareDue(a, b task.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}
