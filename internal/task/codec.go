package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// record is the stored form of a Task. DueDate is always written, null when unset.
type record struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
	Priority  string  `json:"priority"`
	DueDate   *string `json:"dueDate"`
	Category  string  `json:"category"`
}

// incoming uses pointers so missing fields can be told apart from zero values.
type incoming struct {
	ID        *string `json:"id"`
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	Priority  *string `json:"priority"`
	DueDate   *string `json:"dueDate"`
	Category  *string `json:"category"`
}

func encode(tasks []Task) (string, error) {
	out := make([]record, 0, len(tasks))
	for _, t := range tasks {
		r := record{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Priority:  string(t.Priority),
			Category:  t.Category,
		}
		if t.DueDate != nil {
			s := t.DueDate.String()
			r.DueDate = &s
		}
		out = append(out, r)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal tasks: %w", err)
	}
	return string(data), nil
}

func decode(payload, defaultCategory string) ([]Task, error) {
	var list *[]incoming
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if list == nil {
		return nil, errors.New("parse tasks: not a task array")
	}
	in := *list

	tasks := make([]Task, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, r := range in {
		t, err := r.task(defaultCategory)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("task %d: duplicate id %q", i, t.ID)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r incoming) task(defaultCategory string) (Task, error) {
	if r.ID == nil || *r.ID == "" {
		return Task{}, errors.New("missing id")
	}
	if r.Title == nil {
		return Task{}, errors.New("missing title")
	}
	title := strings.TrimSpace(*r.Title)
	if title == "" {
		return Task{}, errors.New("empty title")
	}

	t := Task{
		ID:       *r.ID,
		Title:    title,
		Priority: PriorityMedium,
		Category: defaultCategory,
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
	if r.Priority != nil {
		p := Priority(*r.Priority)
		if !p.Valid() {
			return Task{}, fmt.Errorf("unknown priority %q", *r.Priority)
		}
		t.Priority = p
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) != "" {
		t.Category = *r.Category
	}
	if r.DueDate != nil && *r.DueDate != "" {
		d, err := ParseDate(*r.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = &d
	}
	return t, nil
}
