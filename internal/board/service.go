package board

import (
	"context"
	"errors"
	"strings"

	"github.com/nexora/cloudtask/internal/gateway"
)

var (
	ErrEmptyTitle       = errors.New("task title is required")
	ErrEmptyProjectName = errors.New("project name is required")
	ErrNotAllowed       = errors.New("requires OWNER or ADMIN role")
	ErrTaskNotFound     = errors.New("task not found on board")
	ErrAtBoundary       = errors.New("no adjacent status in that direction")
	ErrUnknownMember    = errors.New("selected assignee is not a project member")
	ErrBadDirection     = errors.New("direction must be back or forward")
	ErrBadRole          = errors.New("role must be ADMIN or MEMBER")
)

// Move directions for status changes. The board only ever requests adjacent
// transitions; whether the backend enforces adjacency is its own business.
const (
	MoveBack    = "back"
	MoveForward = "forward"
)

// Service composes gateway calls into board views and mutations. Every
// mutation runs strictly mutate-then-full-reload: no optimistic updates, no
// incremental patching of a previous view.
type Service struct {
	gw gateway.API
}

func NewService(gw gateway.API) *Service {
	return &Service{gw: gw}
}

// Load fetches project, tasks and members, then computes the filtered
// role-gated view.
func (s *Service) Load(ctx context.Context, v Viewer, projectID int64, filter string) (*View, error) {
	project, err := s.gw.GetProject(ctx, projectID, v.UID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.gw.ListProjectTasks(ctx, projectID, v.UID)
	if err != nil {
		return nil, err
	}

	members, err := s.gw.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, isMember := ResolveRole(members, v.Email)

	return &View{
		Project:            project,
		Members:            members,
		Role:               role,
		IsMember:           isMember,
		CanEditAssignments: CanEditAssignments(role),
		AssigneeFilter:     normalizeFilter(filter),
		Columns:            Columns(NormalizeAll(tasks), filter, v.UID),
	}, nil
}

func normalizeFilter(filter string) string {
	if filter == "" {
		return FilterAll
	}
	return filter
}

// ListProjects returns the viewer's projects.
func (s *Service) ListProjects(ctx context.Context, v Viewer) ([]gateway.Project, error) {
	return s.gw.ListUserProjects(ctx, v.UID)
}

// CreateProject creates a project owned by the viewer and returns the
// refreshed project list.
func (s *Service) CreateProject(ctx context.Context, v Viewer, name, description string) ([]gateway.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProjectName
	}

	if _, err := s.gw.CreateProject(ctx, v.UID, gateway.CreateProjectRequest{
		Name:        name,
		Description: description,
	}); err != nil {
		return nil, err
	}

	return s.gw.ListUserProjects(ctx, v.UID)
}

// DeleteProject deletes a project (tasks cascade server-side) and returns
// the refreshed project list.
func (s *Service) DeleteProject(ctx context.Context, v Viewer, projectID int64) ([]gateway.Project, error) {
	if err := s.gw.DeleteProject(ctx, projectID, v.UID); err != nil {
		return nil, err
	}

	return s.gw.ListUserProjects(ctx, v.UID)
}

// MyTasks returns every task assigned to the viewer across projects,
// normalized.
func (s *Service) MyTasks(ctx context.Context, v Viewer) ([]Task, error) {
	tasks, err := s.gw.ListAssignedTasks(ctx, v.UID)
	if err != nil {
		return nil, err
	}
	return NormalizeAll(tasks), nil
}

// CreateTask creates a task and optionally applies initial assignees. The
// assignment half is capability-gated before any gateway call goes out.
func (s *Service) CreateTask(ctx context.Context, v Viewer, projectID int64, title, description string, assigneeUIDs []string, filter string) (*View, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}

	var initial []gateway.AssigneeRef
	if len(assigneeUIDs) > 0 {
		members, err := s.gw.ListProjectMembers(ctx, projectID)
		if err != nil {
			return nil, err
		}
		if err := s.requireEditCapability(members, v); err != nil {
			return nil, err
		}
		refs, err := assigneeRefs(members, assigneeUIDs)
		if err != nil {
			return nil, err
		}
		initial = refs
	}

	created, err := s.gw.CreateTask(ctx, v.UID, gateway.CreateTaskRequest{
		Title:       title,
		Description: description,
		ProjectID:   projectID,
	})
	if err != nil {
		return nil, err
	}

	if len(initial) > 0 {
		if _, err := s.gw.AssignTaskMultiple(ctx, created.ID, initial, v.UID); err != nil {
			return nil, err
		}
	}

	return s.Load(ctx, v, projectID, filter)
}

// MoveTask shifts a task one column back or forward. Boundary moves are
// rejected before any gateway call.
func (s *Service) MoveTask(ctx context.Context, v Viewer, projectID, taskID int64, direction, filter string) (*View, error) {
	tasks, err := s.gw.ListProjectTasks(ctx, projectID, v.UID)
	if err != nil {
		return nil, err
	}

	var current Status
	found := false
	for _, t := range tasks {
		if t.ID == taskID {
			current = Status(t.Status)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrTaskNotFound
	}

	var target Status
	var ok bool
	switch direction {
	case MoveBack:
		target, ok = current.Prev()
	case MoveForward:
		target, ok = current.Next()
	default:
		return nil, ErrBadDirection
	}
	if !ok {
		return nil, ErrAtBoundary
	}

	if _, err := s.gw.UpdateTaskStatus(ctx, taskID, string(target), v.UID); err != nil {
		return nil, err
	}

	return s.Load(ctx, v, projectID, filter)
}

// DeleteTask removes a task and reloads the board.
func (s *Service) DeleteTask(ctx context.Context, v Viewer, projectID, taskID int64, filter string) (*View, error) {
	if err := s.gw.DeleteTask(ctx, taskID, v.UID); err != nil {
		return nil, err
	}

	return s.Load(ctx, v, projectID, filter)
}

// ApplyAssignment replaces a task's assignee set with exactly the selected
// members. An empty selection is an explicit unassign-all, not a no-op.
// Replace, never merge: there is no add-one/remove-one at this layer.
func (s *Service) ApplyAssignment(ctx context.Context, v Viewer, projectID, taskID int64, selectedUIDs []string, filter string) (*View, error) {
	members, err := s.gw.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditCapability(members, v); err != nil {
		return nil, err
	}

	if len(selectedUIDs) == 0 {
		if _, err := s.gw.AssignTask(ctx, taskID, nil, v.UID); err != nil {
			return nil, err
		}
		return s.Load(ctx, v, projectID, filter)
	}

	refs, err := assigneeRefs(members, selectedUIDs)
	if err != nil {
		return nil, err
	}

	if _, err := s.gw.AssignTaskMultiple(ctx, taskID, refs, v.UID); err != nil {
		return nil, err
	}

	return s.Load(ctx, v, projectID, filter)
}

// AddMember adds a user (by email) to the project. OWNER is set once at
// project creation and can never be granted here.
func (s *Service) AddMember(ctx context.Context, v Viewer, projectID int64, email string, role Role, filter string) (*View, error) {
	if role != RoleAdmin && role != RoleMember {
		return nil, ErrBadRole
	}

	members, err := s.gw.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditCapability(members, v); err != nil {
		return nil, err
	}

	if _, err := s.gw.AddProjectMember(ctx, projectID, gateway.AddMemberRequest{
		UserEmail: email,
		Role:      string(role),
	}, v.UID); err != nil {
		return nil, err
	}

	return s.Load(ctx, v, projectID, filter)
}

// RemoveMember removes a member row; capability-gated before the gateway
// call like every other membership mutation.
func (s *Service) RemoveMember(ctx context.Context, v Viewer, projectID, userID int64, filter string) (*View, error) {
	members, err := s.gw.ListProjectMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireEditCapability(members, v); err != nil {
		return nil, err
	}

	if err := s.gw.RemoveProjectMember(ctx, projectID, userID, v.UID); err != nil {
		return nil, err
	}

	return s.Load(ctx, v, projectID, filter)
}

func (s *Service) requireEditCapability(members []gateway.Member, v Viewer) error {
	role, ok := ResolveRole(members, v.Email)
	if !ok || !CanEditAssignments(role) {
		return ErrNotAllowed
	}
	return nil
}

// assigneeRefs maps selected member UIDs onto bulk-assign member references,
// carrying the denormalized display fields the member list already holds.
func assigneeRefs(members []gateway.Member, uids []string) ([]gateway.AssigneeRef, error) {
	byUID := make(map[string]gateway.Member, len(members))
	for _, m := range members {
		byUID[m.FirebaseUID] = m
	}

	out := make([]gateway.AssigneeRef, 0, len(uids))
	for _, uid := range uids {
		m, ok := byUID[uid]
		if !ok {
			return nil, ErrUnknownMember
		}
		out = append(out, gateway.AssigneeRef{
			FirebaseUID: m.FirebaseUID,
			Name:        m.DisplayName,
			Email:       m.UserEmail,
			PhotoURL:    m.PhotoURL,
		})
	}
	return out, nil
}
