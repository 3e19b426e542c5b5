package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora/cloudtask/internal/gateway"
)

// fakeGateway records every call in order so tests can assert both what the
// service called and that mutations always precede the reload.
type fakeGateway struct {
	calls []string

	project *gateway.Project
	tasks   []gateway.Task
	members []gateway.Member

	assignSingle   []*gateway.AssignRequest
	assignMultiple [][]gateway.AssigneeRef
	statusUpdates  []string
	err            error
}

var _ gateway.API = (*fakeGateway)(nil)

func (f *fakeGateway) record(call string) { f.calls = append(f.calls, call) }

func (f *fakeGateway) SyncUserProfile(_ context.Context, _ gateway.UserSyncRequest) error {
	f.record("SyncUserProfile")
	return f.err
}

func (f *fakeGateway) CreateProject(_ context.Context, _ string, _ gateway.CreateProjectRequest) (*gateway.Project, error) {
	f.record("CreateProject")
	return f.project, f.err
}

func (f *fakeGateway) ListUserProjects(_ context.Context, _ string) ([]gateway.Project, error) {
	f.record("ListUserProjects")
	if f.project != nil {
		return []gateway.Project{*f.project}, f.err
	}
	return nil, f.err
}

func (f *fakeGateway) GetProject(_ context.Context, _ int64, _ string) (*gateway.Project, error) {
	f.record("GetProject")
	return f.project, f.err
}

func (f *fakeGateway) DeleteProject(_ context.Context, _ int64, _ string) error {
	f.record("DeleteProject")
	return f.err
}

func (f *fakeGateway) CreateTask(_ context.Context, _ string, req gateway.CreateTaskRequest) (*gateway.Task, error) {
	f.record("CreateTask")
	return &gateway.Task{ID: 99, Title: req.Title, Status: "TODO", ProjectID: req.ProjectID}, f.err
}

func (f *fakeGateway) ListProjectTasks(_ context.Context, _ int64, _ string) ([]gateway.Task, error) {
	f.record("ListProjectTasks")
	return f.tasks, f.err
}

func (f *fakeGateway) ListAssignedTasks(_ context.Context, _ string) ([]gateway.Task, error) {
	f.record("ListAssignedTasks")
	return f.tasks, f.err
}

func (f *fakeGateway) UpdateTaskStatus(_ context.Context, _ int64, status, _ string) (*gateway.Task, error) {
	f.record("UpdateTaskStatus")
	f.statusUpdates = append(f.statusUpdates, status)
	return &gateway.Task{Status: status}, f.err
}

func (f *fakeGateway) DeleteTask(_ context.Context, _ int64, _ string) error {
	f.record("DeleteTask")
	return f.err
}

func (f *fakeGateway) AssignTask(_ context.Context, _ int64, assignee *gateway.AssignRequest, _ string) (*gateway.Task, error) {
	f.record("AssignTask")
	f.assignSingle = append(f.assignSingle, assignee)
	return &gateway.Task{}, f.err
}

func (f *fakeGateway) AssignTaskMultiple(_ context.Context, _ int64, assignees []gateway.AssigneeRef, _ string) (*gateway.Task, error) {
	f.record("AssignTaskMultiple")
	f.assignMultiple = append(f.assignMultiple, assignees)
	return &gateway.Task{}, f.err
}

func (f *fakeGateway) ListProjectMembers(_ context.Context, _ int64) ([]gateway.Member, error) {
	f.record("ListProjectMembers")
	return f.members, f.err
}

func (f *fakeGateway) AddProjectMember(_ context.Context, _ int64, _ gateway.AddMemberRequest, _ string) (*gateway.Member, error) {
	f.record("AddProjectMember")
	return &gateway.Member{}, f.err
}

func (f *fakeGateway) RemoveProjectMember(_ context.Context, _, _ int64, _ string) error {
	f.record("RemoveProjectMember")
	return f.err
}

func newBoardFixture() *fakeGateway {
	return &fakeGateway{
		project: &gateway.Project{ID: 7, Name: "Launch"},
		tasks: []gateway.Task{
			{ID: 1, Title: "a", Status: "TODO", ProjectID: 7},
			{ID: 2, Title: "b", Status: "IN_PROGRESS", ProjectID: 7},
			{ID: 3, Title: "c", Status: "DONE", ProjectID: 7},
		},
		members: []gateway.Member{
			{UserID: 10, UserEmail: "owner@x.com", FirebaseUID: "owner-uid", DisplayName: "Owner", Role: "OWNER"},
			{UserID: 11, UserEmail: "admin@x.com", FirebaseUID: "admin-uid", DisplayName: "Admin", Role: "ADMIN"},
			{UserID: 12, UserEmail: "member@x.com", FirebaseUID: "member-uid", DisplayName: "Member", Role: "MEMBER"},
		},
	}
}

var (
	owner   = Viewer{UID: "owner-uid", Email: "owner@x.com"}
	regular = Viewer{UID: "member-uid", Email: "member@x.com"}
	outside = Viewer{UID: "x-uid", Email: "nobody@x.com"}
)

func TestLoadComposesView(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	view, err := NewService(gw).Load(context.Background(), owner, 7, "")

	require.NoError(t, err)
	assert.Equal(t, int64(7), view.Project.ID)
	assert.Equal(t, RoleOwner, view.Role)
	assert.True(t, view.IsMember)
	assert.True(t, view.CanEditAssignments)
	assert.Equal(t, FilterAll, view.AssigneeFilter)
	require.Len(t, view.Columns, 3)
	assert.Len(t, view.Columns[0].Tasks, 1)
	assert.Len(t, view.Columns[1].Tasks, 1)
	assert.Len(t, view.Columns[2].Tasks, 1)

	// Move affordances ride along on every composed task.
	assert.Equal(t, Transition{CanMoveBack: false, CanMoveForward: true}, view.Columns[0].Tasks[0].Transition)
	assert.Equal(t, Transition{CanMoveBack: true, CanMoveForward: false}, view.Columns[2].Tasks[0].Transition)
}

func TestLoadNonMemberViewIsReadOnly(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	view, err := NewService(gw).Load(context.Background(), outside, 7, "")

	require.NoError(t, err)
	assert.False(t, view.IsMember)
	assert.False(t, view.CanEditAssignments)
	assert.Equal(t, Role(""), view.Role)
}

func TestCreateProjectRejectsBlankName(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).CreateProject(context.Background(), owner, "   ", "")

	assert.ErrorIs(t, err, ErrEmptyProjectName)
	assert.Empty(t, gw.calls)
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).CreateTask(context.Background(), owner, 7, "  ", "", nil, "")

	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, gw.calls)
}

func TestCreateTaskWithAssigneesChecksCapabilityFirst(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).CreateTask(context.Background(), regular, 7, "task", "", []string{"admin-uid"}, "")

	assert.ErrorIs(t, err, ErrNotAllowed)
	// Only the member lookup ran; the task was never created.
	assert.Equal(t, []string{"ListProjectMembers"}, gw.calls)
}

func TestCreateTaskWithAssigneesCreatesThenAssigns(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).CreateTask(context.Background(), owner, 7, "task", "desc", []string{"admin-uid", "member-uid"}, "")

	require.NoError(t, err)
	require.Len(t, gw.assignMultiple, 1)
	assert.Equal(t, []gateway.AssigneeRef{
		{FirebaseUID: "admin-uid", Name: "Admin", Email: "admin@x.com"},
		{FirebaseUID: "member-uid", Name: "Member", Email: "member@x.com"},
	}, gw.assignMultiple[0])

	assert.Equal(t, "CreateTask", gw.calls[1])
	assert.Equal(t, "AssignTaskMultiple", gw.calls[2])
	// Reload follows the mutation.
	assert.Contains(t, gw.calls[3:], "GetProject")
}

func TestCreateTaskUnknownAssignee(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).CreateTask(context.Background(), owner, 7, "task", "", []string{"ghost-uid"}, "")

	assert.ErrorIs(t, err, ErrUnknownMember)
	assert.NotContains(t, gw.calls, "CreateTask")
}

func TestMoveTask(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		taskID     int64
		direction  string
		wantStatus string
		wantErr    error
	}{
		{name: "todo moves forward", taskID: 1, direction: MoveForward, wantStatus: "IN_PROGRESS"},
		{name: "in progress moves back", taskID: 2, direction: MoveBack, wantStatus: "TODO"},
		{name: "done moves back", taskID: 3, direction: MoveBack, wantStatus: "IN_PROGRESS"},
		{name: "todo cannot move back", taskID: 1, direction: MoveBack, wantErr: ErrAtBoundary},
		{name: "done cannot move forward", taskID: 3, direction: MoveForward, wantErr: ErrAtBoundary},
		{name: "unknown task", taskID: 42, direction: MoveForward, wantErr: ErrTaskNotFound},
		{name: "bad direction", taskID: 1, direction: "sideways", wantErr: ErrBadDirection},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gw := newBoardFixture()
			_, err := NewService(gw).MoveTask(context.Background(), owner, 7, tt.taskID, tt.direction, "")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, gw.statusUpdates)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, []string{tt.wantStatus}, gw.statusUpdates)
		})
	}
}

func TestApplyAssignmentEmptySelectionUnassignsExplicitly(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).ApplyAssignment(context.Background(), owner, 7, 1, nil, "")

	require.NoError(t, err)
	// Empty selection must hit the unassign endpoint rather than short-circuit.
	require.Len(t, gw.assignSingle, 1)
	assert.Nil(t, gw.assignSingle[0])
	assert.Empty(t, gw.assignMultiple)
	assert.Contains(t, gw.calls, "AssignTask")
}

func TestApplyAssignmentReplacesSelection(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).ApplyAssignment(context.Background(), owner, 7, 1, []string{"member-uid"}, "")

	require.NoError(t, err)
	require.Len(t, gw.assignMultiple, 1)
	require.Len(t, gw.assignMultiple[0], 1)
	assert.Equal(t, "member-uid", gw.assignMultiple[0][0].FirebaseUID)
	assert.Empty(t, gw.assignSingle)
}

func TestApplyAssignmentRequiresCapability(t *testing.T) {
	t.Parallel()

	for _, v := range []Viewer{regular, outside} {
		gw := newBoardFixture()
		_, err := NewService(gw).ApplyAssignment(context.Background(), v, 7, 1, []string{"member-uid"}, "")

		assert.ErrorIs(t, err, ErrNotAllowed)
		assert.Empty(t, gw.assignMultiple)
		assert.Empty(t, gw.assignSingle)
	}
}

func TestAddMember(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).AddMember(context.Background(), owner, 7, "new@x.com", RoleMember, "")

	require.NoError(t, err)
	assert.Contains(t, gw.calls, "AddProjectMember")
}

func TestAddMemberRejectsOwnerRole(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).AddMember(context.Background(), owner, 7, "new@x.com", RoleOwner, "")

	assert.ErrorIs(t, err, ErrBadRole)
	assert.Empty(t, gw.calls)
}

func TestRemoveMemberRequiresCapability(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	_, err := NewService(gw).RemoveMember(context.Background(), regular, 7, 12, "")

	assert.ErrorIs(t, err, ErrNotAllowed)
	assert.NotContains(t, gw.calls, "RemoveProjectMember")
}

func TestDeleteTaskReloadsBoard(t *testing.T) {
	t.Parallel()

	gw := newBoardFixture()
	view, err := NewService(gw).DeleteTask(context.Background(), owner, 7, 1, FilterMe)

	require.NoError(t, err)
	assert.Equal(t, "DeleteTask", gw.calls[0])
	assert.Contains(t, gw.calls[1:], "GetProject")
	assert.Equal(t, FilterMe, view.AssigneeFilter)
}
