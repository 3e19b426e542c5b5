package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora/cloudtask/internal/gateway"
)

func TestNormalizedAssignees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		task gateway.Task
		want []Assignee
	}{
		{
			name: "list form wins and keeps order",
			task: gateway.Task{
				Assignees: []gateway.TaskAssignee{
					{FirebaseUID: "u2", Name: "Bea", Email: "bea@x.com"},
					{FirebaseUID: "u1", Name: "Al", Email: "al@x.com"},
				},
				AssigneeUserID: "legacy-ignored",
				AssigneeName:   "Legacy",
			},
			want: []Assignee{
				{UID: "u2", Name: "Bea", Email: "bea@x.com"},
				{UID: "u1", Name: "Al", Email: "al@x.com"},
			},
		},
		{
			name: "legacy scalar synthesizes one entry",
			task: gateway.Task{
				AssigneeUserID: "u1",
				AssigneeName:   "Al",
				AssigneeEmail:  "al@x.com",
			},
			want: []Assignee{{UID: "u1", Name: "Al", Email: "al@x.com"}},
		},
		{
			name: "legacy scalar without name keeps email",
			task: gateway.Task{
				AssigneeUserID: "u1",
				AssigneeEmail:  "al@x.com",
			},
			want: []Assignee{{UID: "u1", Email: "al@x.com"}},
		},
		{
			name: "neither form yields empty",
			task: gateway.Task{},
			want: nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizedAssignees(tt.task))
		})
	}
}

func TestAssigneeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Al", Assignee{UID: "u1", Name: "Al", Email: "al@x.com"}.Label())
	assert.Equal(t, "al@x.com", Assignee{UID: "u1", Email: "al@x.com"}.Label())
	assert.Equal(t, "Assigned", Assignee{UID: "u1"}.Label())
}

func TestNormalizePopulatesTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   Transition
	}{
		{"TODO", Transition{CanMoveBack: false, CanMoveForward: true}},
		{"IN_PROGRESS", Transition{CanMoveBack: true, CanMoveForward: true}},
		{"DONE", Transition{CanMoveBack: true, CanMoveForward: false}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.status, func(t *testing.T) {
			t.Parallel()
			got := Normalize(gateway.Task{ID: 1, Status: tt.status})
			assert.Equal(t, tt.want, got.Transition)
		})
	}
}

func taskWith(id int64, status Status, assigneeUIDs ...string) Task {
	t := Task{ID: id, Title: "t", Status: status}
	for _, uid := range assigneeUIDs {
		t.Assignees = append(t.Assignees, Assignee{UID: uid})
	}
	return t
}

func TestFilterByStatus(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		taskWith(1, StatusTodo),
		taskWith(2, StatusInProgress),
		taskWith(3, StatusTodo),
		taskWith(4, StatusDone),
	}

	got := FilterByStatus(tasks, StatusTodo)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Empty(t, FilterByStatus(nil, StatusTodo))
}

func TestFilterByAssignee(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		taskWith(1, StatusTodo, "u1"),
		taskWith(2, StatusTodo, "u1", "u2"),
		taskWith(3, StatusTodo),
		taskWith(4, StatusTodo, "u2"),
	}

	ids := func(ts []Task) []int64 {
		var out []int64
		for _, t := range ts {
			out = append(out, t.ID)
		}
		return out
	}

	tests := []struct {
		name   string
		filter string
		uid    string
		want   []int64
	}{
		{name: "all is identity", filter: FilterAll, uid: "u1", want: []int64{1, 2, 3, 4}},
		{name: "empty filter behaves like all", filter: "", uid: "u1", want: []int64{1, 2, 3, 4}},
		{name: "me keeps tasks including current uid", filter: FilterMe, uid: "u1", want: []int64{1, 2}},
		{name: "me excludes other uids", filter: FilterMe, uid: "u3", want: nil},
		{name: "unassigned keeps empty assignee sets only", filter: FilterUnassigned, uid: "u1", want: []int64{3}},
		{name: "specific member uid", filter: "u2", uid: "u1", want: []int64{2, 4}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ids(FilterByAssignee(tasks, tt.filter, tt.uid)))
		})
	}
}

func TestFilterByAssigneeMeIsSubsetOfAll(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		taskWith(1, StatusTodo, "u1"),
		taskWith(2, StatusInProgress),
		taskWith(3, StatusDone, "u2"),
	}

	all := FilterByAssignee(tasks, FilterAll, "u1")
	me := FilterByAssignee(tasks, FilterMe, "u1")

	for _, m := range me {
		assert.Contains(t, all, m)
	}
}

func TestFilterUsesNormalizedLegacyAssignee(t *testing.T) {
	t.Parallel()

	// Legacy single-assignee tasks must be visible through the same filters
	// as list-form tasks.
	tasks := NormalizeAll([]gateway.Task{
		{ID: 1, Status: "TODO", AssigneeUserID: "u1"},
		{ID: 2, Status: "TODO"},
	})

	me := FilterByAssignee(tasks, FilterMe, "u1")
	require.Len(t, me, 1)
	assert.Equal(t, int64(1), me[0].ID)

	unassigned := FilterByAssignee(tasks, FilterUnassigned, "u1")
	require.Len(t, unassigned, 1)
	assert.Equal(t, int64(2), unassigned[0].ID)
}

func TestColumnsIntersectsStatusAndAssigneeFilters(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		taskWith(1, StatusTodo, "u1"),
		taskWith(2, StatusTodo, "u2"),
		taskWith(3, StatusInProgress, "u1"),
		taskWith(4, StatusDone),
	}

	cols := Columns(tasks, FilterMe, "u1")
	require.Len(t, cols, 3)

	assert.Equal(t, StatusTodo, cols[0].Status)
	require.Len(t, cols[0].Tasks, 1)
	assert.Equal(t, int64(1), cols[0].Tasks[0].ID)

	assert.Equal(t, StatusInProgress, cols[1].Status)
	require.Len(t, cols[1].Tasks, 1)
	assert.Equal(t, int64(3), cols[1].Tasks[0].ID)

	assert.Equal(t, StatusDone, cols[2].Status)
	assert.Empty(t, cols[2].Tasks)
}

func TestStatusTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   Transition
	}{
		{StatusTodo, Transition{CanMoveBack: false, CanMoveForward: true}},
		{StatusInProgress, Transition{CanMoveBack: true, CanMoveForward: true}},
		{StatusDone, Transition{CanMoveBack: true, CanMoveForward: false}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusTransition(tt.status))
		})
	}
}

func TestStatusPrevNext(t *testing.T) {
	t.Parallel()

	next, ok := StatusTodo.Next()
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, next)

	prev, ok := StatusDone.Prev()
	require.True(t, ok)
	assert.Equal(t, StatusInProgress, prev)

	_, ok = StatusTodo.Prev()
	assert.False(t, ok)

	_, ok = StatusDone.Next()
	assert.False(t, ok)
}
