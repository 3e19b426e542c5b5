package board

import "github.com/nexora/cloudtask/internal/gateway"

// Assignee filter values. Anything else is treated as a member UID.
const (
	FilterAll        = "all"
	FilterMe         = "me"
	FilterUnassigned = "unassigned"
)

// NormalizedAssignees reconciles the two wire shapes into one assignee set.
// A non-empty list form wins outright, order preserved as served; otherwise a
// set legacy scalar id yields a single synthesized entry; otherwise empty.
func NormalizedAssignees(t gateway.Task) []Assignee {
	if len(t.Assignees) > 0 {
		out := make([]Assignee, len(t.Assignees))
		for i, a := range t.Assignees {
			out[i] = Assignee{UID: a.FirebaseUID, Name: a.Name, Email: a.Email}
		}
		return out
	}

	if t.AssigneeUserID != "" {
		return []Assignee{{
			UID:   t.AssigneeUserID,
			Name:  t.AssigneeName,
			Email: t.AssigneeEmail,
		}}
	}

	return nil
}

// Normalize converts a wire task into the canonical board shape. Done once
// right after fetch; view logic never sees the legacy fields.
func Normalize(t gateway.Task) Task {
	status := Status(t.Status)
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      status,
		ProjectID:   t.ProjectID,
		Assignees:   NormalizedAssignees(t),
		Transition:  StatusTransition(status),
	}
}

// NormalizeAll maps a fetched task list into board tasks.
func NormalizeAll(tasks []gateway.Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = Normalize(t)
	}
	return out
}

// FilterByStatus keeps tasks whose status matches exactly.
func FilterByStatus(tasks []Task, status Status) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// FilterByAssignee applies the board's assignee filter over normalized
// assignee sets. filter is "all", "me", "unassigned", or a member UID.
func FilterByAssignee(tasks []Task, filter, currentUID string) []Task {
	if filter == FilterAll || filter == "" {
		return tasks
	}

	var out []Task
	for _, t := range tasks {
		switch filter {
		case FilterMe:
			if hasAssignee(t, currentUID) {
				out = append(out, t)
			}
		case FilterUnassigned:
			if len(t.Assignees) == 0 {
				out = append(out, t)
			}
		default:
			if hasAssignee(t, filter) {
				out = append(out, t)
			}
		}
	}
	return out
}

func hasAssignee(t Task, uid string) bool {
	for _, a := range t.Assignees {
		if a.UID == uid {
			return true
		}
	}
	return false
}

// Columns groups tasks into the fixed status columns, intersecting the
// status filter with the assignee filter.
func Columns(tasks []Task, filter, currentUID string) []Column {
	filtered := FilterByAssignee(tasks, filter, currentUID)

	cols := make([]Column, len(statusOrder))
	for i, status := range statusOrder {
		cols[i] = Column{
			Status: status,
			Tasks:  FilterByStatus(filtered, status),
		}
	}
	return cols
}

// Transition reports which move affordances a task in the given status gets.
type Transition struct {
	CanMoveBack    bool `json:"canMoveBack"`
	CanMoveForward bool `json:"canMoveForward"`
}

// StatusTransition gates the move buttons against the fixed status order.
func StatusTransition(s Status) Transition {
	return Transition{
		CanMoveBack:    s != statusOrder[0],
		CanMoveForward: s != statusOrder[len(statusOrder)-1],
	}
}

// Prev returns the adjacent earlier status, ok=false at the first column.
func (s Status) Prev() (Status, bool) {
	for i, st := range statusOrder {
		if s == st && i > 0 {
			return statusOrder[i-1], true
		}
	}
	return "", false
}

// Next returns the adjacent later status, ok=false at the last column.
func (s Status) Next() (Status, bool) {
	for i, st := range statusOrder {
		if s == st && i < len(statusOrder)-1 {
			return statusOrder[i+1], true
		}
	}
	return "", false
}
