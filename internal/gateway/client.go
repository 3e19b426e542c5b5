package gateway

import (
	"context"
	"fmt"
)

// Error is the typed failure for any non-2xx task-service response. Op names
// the gateway operation; Message carries the server-supplied error body when
// one could be decoded.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: task-service status %d", e.Op, e.StatusCode)
}

type UserAPI interface {
	SyncUserProfile(ctx context.Context, req UserSyncRequest) error
}

type ProjectAPI interface {
	CreateProject(ctx context.Context, uid string, req CreateProjectRequest) (*Project, error)
	ListUserProjects(ctx context.Context, uid string) ([]Project, error)
	GetProject(ctx context.Context, projectID int64, uid string) (*Project, error)
	DeleteProject(ctx context.Context, projectID int64, uid string) error
}

type TaskAPI interface {
	CreateTask(ctx context.Context, uid string, req CreateTaskRequest) (*Task, error)
	ListProjectTasks(ctx context.Context, projectID int64, uid string) ([]Task, error)
	ListAssignedTasks(ctx context.Context, uid string) ([]Task, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, status, uid string) (*Task, error)
	DeleteTask(ctx context.Context, taskID int64, uid string) error
	AssignTask(ctx context.Context, taskID int64, assignee *AssignRequest, actingUID string) (*Task, error)
	AssignTaskMultiple(ctx context.Context, taskID int64, assignees []AssigneeRef, actingUID string) (*Task, error)
}

type MemberAPI interface {
	ListProjectMembers(ctx context.Context, projectID int64) ([]Member, error)
	AddProjectMember(ctx context.Context, projectID int64, req AddMemberRequest, actingUID string) (*Member, error)
	RemoveProjectMember(ctx context.Context, projectID, userID int64, actingUID string) error
}

// API is the full task-service surface the board consumes.
type API interface {
	UserAPI
	ProjectAPI
	TaskAPI
	MemberAPI
}
