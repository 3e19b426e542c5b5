package board

import "github.com/nexora/cloudtask/internal/gateway"

// Status is a Kanban column. The order is fixed and linear; the UI only ever
// moves tasks between adjacent statuses.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// statusOrder drives column layout and move-forward/back gating.
var statusOrder = []Status{StatusTodo, StatusInProgress, StatusDone}

// Statuses returns the fixed column order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	for _, st := range statusOrder {
		if s == st {
			return true
		}
	}
	return false
}

// Role is a project membership role.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Assignee is the canonical assignee shape every view operates on. Both wire
// forms (list and legacy scalar) normalize into this at ingestion; nothing
// downstream looks at the raw task fields again.
type Assignee struct {
	UID   string `json:"uid"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Label is the display name for an assignee chip.
func (a Assignee) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.Email != "" {
		return a.Email
	}
	return "Assigned"
}

// Task is a board task with its assignee set already normalized and the
// move affordances for its column precomputed.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	ProjectID   int64      `json:"projectId"`
	Assignees   []Assignee `json:"assignees"`
	Transition  Transition `json:"transition"`
}

// Column is one Kanban column after both filters are applied.
type Column struct {
	Status Status `json:"status"`
	Tasks  []Task `json:"tasks"`
}

// View is the composed board a page renders: project header, member list,
// the viewer's capability, and the filtered columns.
type View struct {
	Project            *gateway.Project `json:"project"`
	Members            []gateway.Member `json:"members"`
	Role               Role             `json:"role,omitempty"`
	IsMember           bool             `json:"isMember"`
	CanEditAssignments bool             `json:"canEditAssignments"`
	AssigneeFilter     string           `json:"assigneeFilter"`
	Columns            []Column         `json:"columns"`
}

// Viewer identifies the signed-in user a view is computed for.
type Viewer struct {
	UID   string
	Email string
}
