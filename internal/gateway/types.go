package gateway

import "time"

// Project is a task-service project row.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerUID    string    `json:"ownerFirebaseUid,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TaskAssignee is one entry of the list-form assignee field.
type TaskAssignee struct {
	FirebaseUID string `json:"firebaseUid"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Task carries both assignee shapes the task-service still serves: the
// list-form assignees field and the legacy scalar assignee columns. Nothing
// outside the board package should read the legacy fields directly.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	ProjectID   int64  `json:"projectId"`
	CreatedBy   string `json:"createdBy,omitempty"`

	Assignees []TaskAssignee `json:"assignees,omitempty"`

	AssigneeUserID string `json:"assigneeUserId,omitempty"`
	AssigneeName   string `json:"assigneeName,omitempty"`
	AssigneeEmail  string `json:"assigneeEmail,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Member is a project membership row with denormalized user fields.
type Member struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	UserEmail   string    `json:"userEmail"`
	DisplayName string    `json:"displayName,omitempty"`
	FirebaseUID string    `json:"firebaseUid"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// UserSyncRequest mirrors POST /api/user/sync.
type UserSyncRequest struct {
	FirebaseUID string `json:"firebaseUid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// CreateProjectRequest mirrors POST /api/project.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateTaskRequest mirrors POST /api/task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ProjectID   int64  `json:"projectId"`
}

// AssignRequest mirrors the single-assign body.
type AssignRequest struct {
	AssigneeUserID string `json:"assigneeUserId"`
	AssigneeName   string `json:"assigneeName,omitempty"`
	AssigneeEmail  string `json:"assigneeEmail,omitempty"`
	AssigneePhoto  string `json:"assigneePhoto,omitempty"`
}

// AssigneeRef is one entry of the bulk-assign body. The assign-multiple
// endpoint reads member references, not the single-assign keys, so the JSON
// shape here matches TaskAssignee rather than AssignRequest.
type AssigneeRef struct {
	FirebaseUID string `json:"firebaseUid"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// AddMemberRequest mirrors the member-add body.
type AddMemberRequest struct {
	UserEmail string `json:"userEmail"`
	Role      string `json:"role"`
}
