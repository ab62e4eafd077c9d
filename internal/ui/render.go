package ui

import (
	"fmt"
	"strings"

	"tasklist/internal/config"
	"tasklist/internal/task"
)

const displayDateLayout = "Jan 02, 2006"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Header.Render("Todo"))
	b.WriteString("  ")
	b.WriteString(styles.Criteria.Render(fmt.Sprintf("%d/%d • %s", len(m.visible), m.store.Len(), m.criteria)))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		if m.store.Len() == 0 {
			b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add))
		} else {
			b.WriteString("No tasks found")
		}
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	switch {
	case m.mode == modeSearch:
		b.WriteString("\n")
		b.WriteString(m.search.View())
		b.WriteString("\n")
	case m.mode == modePickDate:
		b.WriteString("\n")
		b.WriteString(m.renderDatePicker())
		b.WriteString("\n")
	case m.mode.hasForm():
		b.WriteString("\n")
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.isError {
		b.WriteString(styles.Error.Render(m.status))
	} else {
		b.WriteString(styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(styles.Help.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • space toggle • %s delete • %s search • %s priority • %s category • %s sort • %s clear • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Delete, k.Search, k.FilterPriority, k.FilterCategory, k.Sort, k.ClearFilters, k.Quit)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, renderTask(t, m.cursor == i)))
	}
	return b.String()
}

func renderTask(t task.Task, selected bool) string {
	checkbox := "[ ]"
	if t.Completed {
		checkbox = "[x]"
	}

	title := t.Title
	switch {
	case t.Completed:
		title = styles.Completed.Render(title)
	case selected:
		title = styles.Selected.Render(title)
	}

	parts := []string{checkbox, priorityBadge(t.Priority), title, styles.Tag.Render("#" + t.Category)}
	if t.DueDate != nil {
		parts = append(parts, styles.Due.Render("Due: "+t.DueDate.Time().Format(displayDateLayout)))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderForm() string {
	heading := "New task"
	if m.form.taskID != "" {
		heading = "Edit task"
	}

	due := "(none)"
	if m.form.due != nil {
		due = m.form.due.Time().Format(displayDateLayout)
	}
	values := []string{
		m.input.View(),
		priorityBadge(m.form.priority),
		m.form.category,
		due,
	}

	var b strings.Builder
	b.WriteString(styles.Header.Render(heading))
	b.WriteString("\n")
	for f := fieldTitle; f < fieldCount; f++ {
		prefix := " "
		label := fmt.Sprintf("%-9s", f.label())
		if f == m.form.field {
			prefix = ">"
			label = styles.Active.Render(label)
		}
		b.WriteString(fmt.Sprintf("%s %s : %s\n", prefix, label, values[f]))
	}
	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderDatePicker() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("Pick due date"))
	b.WriteString("\n")
	b.WriteString(styles.Active.Render(m.pickDate.Time().Format("Mon " + displayDateLayout)))
	if m.pickDate == m.today() {
		b.WriteString(" (today)")
	}
	return styles.Panel.Render(b.String())
}
