package ui

// mode is the single UI state. Exactly one overlay can be active at a time.
type mode int

const (
	modeList          mode = iota // browsing the projection
	modeCreate                    // form for a new task
	modeEdit                      // form for form.taskID
	modePickDate                  // date picker for the open form
	modeConfirmDelete             // y/n for pendingDel
	modeSearch                    // typing into the search box
)

func (m mode) String() string {
	switch m {
	case modeList:
		return "list"
	case modeCreate:
		return "create"
	case modeEdit:
		return "edit"
	case modePickDate:
		return "pick_date"
	case modeConfirmDelete:
		return "confirm_delete"
	case modeSearch:
		return "search"
	default:
		return "unknown"
	}
}

// hasForm reports whether the task form is open (directly or under the picker).
func (m mode) hasForm() bool {
	switch m {
	case modeCreate, modeEdit, modePickDate:
		return true
	}
	return false
}

type formField int

const (
	fieldTitle formField = iota
	fieldPriority
	fieldCategory
	fieldDue
	fieldCount
)

func (f formField) label() string {
	switch f {
	case fieldTitle:
		return "title"
	case fieldPriority:
		return "priority"
	case fieldCategory:
		return "category"
	case fieldDue:
		return "due date"
	}
	return ""
}
