package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tasklist/internal/config"
	"tasklist/internal/task"
	"tasklist/internal/view"
)

// form holds the fields being edited. The title lives in Model.input.
type form struct {
	taskID   string
	priority task.Priority
	category string
	due      *task.Date
	field    formField
}

type Model struct {
	ctx        context.Context
	store      *task.Store
	cfg        config.Config
	log        *zap.Logger
	criteria   view.Criteria
	visible    []task.Task
	cursor     int
	mode       mode
	form       *form
	pickDate   task.Date
	pendingDel *task.Task
	input      textinput.Model
	search     textinput.Model
	status     string
	isError    bool
	today      func() task.Date
}

// New builds the model over an already loaded store.
func New(ctx context.Context, store *task.Store, cfg config.Config, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	si := textinput.New()
	si.Placeholder = "Search tasks"
	si.Prompt = "/ "
	si.CharLimit = 128
	si.Width = 40

	sortMode, err := view.ParseSort(cfg.DefaultSort)
	if err != nil {
		sortMode = view.SortNone
	}

	m := Model{
		ctx:      ctx,
		store:    store,
		cfg:      cfg,
		log:      log,
		criteria: view.Criteria{Priority: view.All, Category: view.All, Sort: sortMode},
		mode:     modeList,
		input:    ti,
		search:   si,
		status:   fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
		today:    task.Today,
	}
	m.refresh()
	return m
}

// WithNotice replaces the status line, e.g. to surface a load failure.
func (m Model) WithNotice(msg string, isError bool) Model {
	m.status = msg
	m.isError = isError
	return m
}

func Run(m Model) error {
	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch m.mode {
		case modeCreate, modeEdit:
			return m.updateFormMode(key, msg)
		case modePickDate:
			return m.updatePickDateMode(key)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(key)
		case modeSearch:
			return m.updateSearchMode(key, msg)
		default:
			return m.updateListMode(key)
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
		m.search.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Down, "down":
		if len(m.visible) == 0 {
			return m, nil
		}
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case k.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.visible))
		}
	case k.Add:
		return m.startForm(nil)
	case k.Edit:
		t, ok := m.selected()
		if !ok {
			m.setStatus("No tasks to edit")
			return m, nil
		}
		return m.startForm(&t)
	case k.Toggle, "space":
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		_, err := m.store.ToggleCompleted(m.ctx, t.ID)
		m.refresh()
		m.selectID(t.ID)
		m.reportMutation("Toggled task", err)
	case k.Delete:
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pendingDel = &t
		m.mode = modeConfirmDelete
		m.setStatus(fmt.Sprintf("Delete \"%s\"? y/n", t.Title))
	case k.Search:
		m.mode = modeSearch
		m.search.SetValue(m.criteria.Search)
		m.search.CursorEnd()
		m.search.Focus()
		m.setStatus("Search: type to filter, enter to keep, esc to clear")
	case k.FilterPriority:
		m.criteria.Priority = view.NextPriority(m.criteria.Priority)
		m.refresh()
		m.setStatus("Priority filter: " + m.criteria.Priority)
	case k.FilterCategory:
		m.criteria.Category = view.NextCategory(m.cfg.Categories, m.criteria.Category)
		m.refresh()
		m.setStatus("Category filter: " + m.criteria.Category)
	case k.Sort:
		m.criteria.Sort = m.criteria.Sort.Next()
		m.refresh()
		m.setStatus("Sort: " + string(m.criteria.Sort))
	case k.ClearFilters:
		m.criteria = view.Criteria{Priority: view.All, Category: view.All, Sort: m.criteria.Sort}
		m.refresh()
		m.setStatus("Filters cleared")
	}
	return m, nil
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	f := &form{
		priority: task.PriorityMedium,
		category: m.store.DefaultCategory(),
		field:    fieldTitle,
	}
	m.mode = modeCreate
	m.input.SetValue("")
	if t != nil {
		d := task.DraftOf(*t)
		f.taskID = t.ID
		f.priority = d.Priority
		f.category = d.Category
		f.due = d.DueDate
		m.mode = modeEdit
		m.input.SetValue(d.Title)
		m.input.CursorEnd()
	}
	m.form = f
	m.input.Focus()
	m.setStatus("tab to move between fields, enter to save, esc to cancel")
	return m, textinput.Blink
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	switch key {
	case m.cfg.Keys.Cancel, "esc":
		m.closeForm()
		m.setStatus("Cancelled")
		return m, nil
	case "tab", "down":
		m.moveField(1)
		return m, nil
	case "shift+tab", "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		if m.form.field == fieldDue {
			return m.openDatePicker()
		}
		return m.submitForm()
	}

	switch m.form.field {
	case fieldPriority:
		switch key {
		case "right", "l", " ", "space":
			m.form.priority = m.form.priority.Next()
		case "left", "h":
			m.form.priority = m.form.priority.Next().Next()
		}
	case fieldCategory:
		switch key {
		case "right", "l", " ", "space":
			m.form.category = cycle(m.cfg.Categories, m.form.category, 1)
		case "left", "h":
			m.form.category = cycle(m.cfg.Categories, m.form.category, -1)
		}
	case fieldDue:
		if key == m.cfg.Keys.DueClear {
			m.form.due = nil
			m.setStatus("Due date cleared")
		}
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveField(delta int) {
	m.form.field = formField(wrapIndex(int(m.form.field)+delta, int(fieldCount)))
	if m.form.field == fieldTitle {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.setStatus(m.formPrompt())
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	draft := task.Draft{
		Title:    m.input.Value(),
		Priority: f.priority,
		DueDate:  f.due,
		Category: f.category,
	}

	if f.taskID == "" {
		created, err := m.store.Create(m.ctx, draft)
		if errors.Is(err, task.ErrInvalidInput) {
			m.setError("Title cannot be empty")
			return m, nil
		}
		m.closeForm()
		m.refresh()
		m.selectID(created.ID)
		m.reportMutation("Added task", err)
		return m, nil
	}

	found, err := m.store.Update(m.ctx, f.taskID, draft)
	if errors.Is(err, task.ErrInvalidInput) {
		m.setError("Title cannot be empty")
		return m, nil
	}
	id := f.taskID
	m.closeForm()
	m.refresh()
	if !found {
		m.setStatus("Task no longer exists")
		return m, nil
	}
	m.selectID(id)
	m.reportMutation("Task updated", err)
	return m, nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) openDatePicker() (tea.Model, tea.Cmd) {
	if m.form.due != nil {
		m.pickDate = *m.form.due
	} else {
		m.pickDate = m.today()
	}
	m.mode = modePickDate
	k := m.cfg.Keys
	m.setStatus(fmt.Sprintf("%s/%s day • up/down week • %s today • %s clear • enter pick • esc back",
		k.DueBack, k.DueForward, k.DueToday, k.DueClear))
	return m, nil
}

func (m Model) updatePickDateMode(key string) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	k := m.cfg.Keys
	back := modeCreate
	if m.form.taskID != "" {
		back = modeEdit
	}
	switch key {
	case k.Cancel, "esc":
		m.mode = back
		m.setStatus(m.formPrompt())
	case k.Confirm, "enter":
		d := m.pickDate
		m.form.due = &d
		m.returnToTitle(back)
		m.setStatus("Due " + d.String() + ", enter to save")
	case k.DueClear:
		m.form.due = nil
		m.returnToTitle(back)
		m.setStatus("Due date cleared")
	case k.DueToday:
		m.pickDate = m.today()
	case k.DueForward, "right", "l":
		m.pickDate = m.pickDate.AddDays(1)
	case k.DueBack, "left", "h":
		m.shiftBack(1)
	case "down", "j":
		m.pickDate = m.pickDate.AddDays(7)
	case "up", "k":
		m.shiftBack(7)
	}
	return m, nil
}

func (m *Model) returnToTitle(back mode) {
	m.mode = back
	m.form.field = fieldTitle
	m.input.Focus()
}

// shiftBack moves the picker earlier but never to a day before today.
func (m *Model) shiftBack(days int) {
	next := m.pickDate.AddDays(-days)
	if today := m.today(); next.Compare(today) < 0 {
		next = today
		if m.pickDate.Compare(today) < 0 {
			next = m.pickDate
		}
	}
	m.pickDate = next
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", "esc":
		m.setStatus("Delete cancelled")
		m.mode = modeList
		m.pendingDel = nil
		return m, nil
	case "y", "Y":
		if m.pendingDel == nil {
			m.setStatus("Nothing to delete")
			m.mode = modeList
			return m, nil
		}
		_, err := m.store.Delete(m.ctx, m.pendingDel.ID)
		m.mode = modeList
		m.pendingDel = nil
		m.refresh()
		m.reportMutation("Deleted task", err)
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) updateSearchMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.criteria.Search = ""
		m.mode = modeList
		m.refresh()
		m.setStatus("Search cleared")
		return m, nil
	case "enter":
		m.search.Blur()
		m.mode = modeList
		m.setStatus(fmt.Sprintf("%d matching", len(m.visible)))
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.criteria.Search = strings.TrimSpace(m.search.Value())
	m.refresh()
	return m, cmd
}

// refresh recomputes the projection from the store.
func (m *Model) refresh() {
	m.visible = view.Project(m.store.Tasks(), m.criteria)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) selectID(id string) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) selected() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m *Model) reportMutation(done string, err error) {
	if err == nil {
		m.setStatus(done)
		return
	}
	m.log.Warn("mutation not persisted", zap.String("action", done), zap.Error(err))
	if errors.Is(err, task.ErrWriteFailed) {
		m.setError(fmt.Sprintf("%s (not saved: %v)", done, err))
		return
	}
	m.setError(fmt.Sprintf("%s failed: %v", strings.ToLower(done), err))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	hint := "enter to save"
	switch m.form.field {
	case fieldPriority, fieldCategory:
		hint = "left/right to change, enter to save"
	case fieldDue:
		hint = fmt.Sprintf("enter to pick, %s to clear", m.cfg.Keys.DueClear)
	}
	return fmt.Sprintf("Editing %s (field %d of %d). %s, esc to cancel.",
		m.form.field.label(), int(m.form.field)+1, int(fieldCount), hint)
}

// cycle steps through options; a value not in options jumps to the first.
func cycle(options []string, current string, delta int) string {
	if len(options) == 0 {
		return current
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	return options[wrapIndex(i+delta, len(options))]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
