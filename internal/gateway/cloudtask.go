package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client talks to the CloudTask task-service. One network attempt per call,
// no retries; every mutation the board issues goes through here.
type Client struct {
	baseURL      string
	memberPrefix string
	httpClient   *http.Client
}

var _ API = (*Client)(nil)

// NewClient builds a task-service client. memberPrefix is the route prefix
// member endpoints hang off (defaults to "/api/project", giving
// "<prefix>/{projectId}/members").
func NewClient(baseURL, memberPrefix string) *Client {
	if memberPrefix == "" {
		memberPrefix = "/api/project"
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		memberPrefix: memberPrefix,
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// serverError is the task-service error body shape.
type serverError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gwErr := &Error{Op: op, StatusCode: resp.StatusCode}
		var se serverError
		if err := json.Unmarshal(raw, &se); err == nil {
			gwErr.Message = se.Error
		}
		return gwErr
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}

func uidQuery(uid string) url.Values {
	q := url.Values{}
	if uid != "" {
		q.Set("firebaseUid", uid)
	}
	return q
}

func actorQuery(uid string) url.Values {
	q := url.Values{}
	q.Set("requestorFirebaseUid", uid)
	return q
}

func (c *Client) SyncUserProfile(ctx context.Context, req UserSyncRequest) error {
	return c.do(ctx, "sync user profile", http.MethodPost, "/api/user/sync", nil, req, nil)
}

func (c *Client) CreateProject(ctx context.Context, uid string, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := c.do(ctx, "create project", http.MethodPost, "/api/project", uidQuery(uid), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListUserProjects(ctx context.Context, uid string) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, "list projects", http.MethodGet, "/api/project/user/"+url.PathEscape(uid), nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) GetProject(ctx context.Context, projectID int64, uid string) (*Project, error) {
	var p Project
	if err := c.do(ctx, "get project", http.MethodGet, fmt.Sprintf("/api/project/%d", projectID), uidQuery(uid), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID int64, uid string) error {
	return c.do(ctx, "delete project", http.MethodDelete, fmt.Sprintf("/api/project/%d", projectID), uidQuery(uid), nil, nil)
}

func (c *Client) CreateTask(ctx context.Context, uid string, req CreateTaskRequest) (*Task, error) {
	var t Task
	if err := c.do(ctx, "create task", http.MethodPost, "/api/task", uidQuery(uid), req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) ListProjectTasks(ctx context.Context, projectID int64, uid string) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, "list tasks", http.MethodGet, fmt.Sprintf("/api/task/project/%d", projectID), uidQuery(uid), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) ListAssignedTasks(ctx context.Context, uid string) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, "list assigned tasks", http.MethodGet, "/api/task/assignee/"+url.PathEscape(uid), nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status, uid string) (*Task, error) {
	q := uidQuery(uid)
	q.Set("status", status)

	var t Task
	if err := c.do(ctx, "update task status", http.MethodPatch, fmt.Sprintf("/api/task/%d/status", taskID), q, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64, uid string) error {
	return c.do(ctx, "delete task", http.MethodDelete, fmt.Sprintf("/api/task/%d", taskID), uidQuery(uid), nil, nil)
}

// AssignTask sets or clears the single-assignee form. A nil assignee is the
// explicit unassign-all path (DELETE on the assign resource), not a no-op.
func (c *Client) AssignTask(ctx context.Context, taskID int64, assignee *AssignRequest, actingUID string) (*Task, error) {
	var t Task
	path := fmt.Sprintf("/api/task/%d/assign", taskID)

	if assignee == nil {
		if err := c.do(ctx, "unassign task", http.MethodDelete, path, actorQuery(actingUID), nil, &t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	if err := c.do(ctx, "assign task", http.MethodPost, path, actorQuery(actingUID), assignee, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) AssignTaskMultiple(ctx context.Context, taskID int64, assignees []AssigneeRef, actingUID string) (*Task, error) {
	body := map[string]any{"assignees": assignees}

	var t Task
	if err := c.do(ctx, "assign task multiple", http.MethodPost, fmt.Sprintf("/api/task/%d/assign-multiple", taskID), actorQuery(actingUID), body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) memberPath(projectID int64) string {
	return fmt.Sprintf("%s/%d/members", c.memberPrefix, projectID)
}

func (c *Client) ListProjectMembers(ctx context.Context, projectID int64) ([]Member, error) {
	var members []Member
	if err := c.do(ctx, "list members", http.MethodGet, c.memberPath(projectID), nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) AddProjectMember(ctx context.Context, projectID int64, req AddMemberRequest, actingUID string) (*Member, error) {
	var m Member
	if err := c.do(ctx, "add member", http.MethodPost, c.memberPath(projectID), actorQuery(actingUID), req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) RemoveProjectMember(ctx context.Context, projectID, userID int64, actingUID string) error {
	path := fmt.Sprintf("%s/%d", c.memberPath(projectID), userID)
	return c.do(ctx, "remove member", http.MethodDelete, path, actorQuery(actingUID), nil, nil)
}
