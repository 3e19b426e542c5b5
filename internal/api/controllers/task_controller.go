package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/perrors"
)

type createTaskBody struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Assignees   []string `json:"assignees"`
}

type assignmentBody struct {
	// Assignees replaces the task's assignee set with exactly these member
	// UIDs; an empty (but present) list clears all assignees.
	Assignees []string `json:"assignees"`
}

func RegisterTaskRoutes(r *router.Router, svc *board.Service) {
	// Create a task, optionally with initial assignees
	r.POST("/api/board/projects/{id}/tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body createTaskBody
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		view, err := svc.CreateTask(stdCtx, v, projectID, body.Title, body.Description, body.Assignees, queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create task", boardErr("Failed to create task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task created successfully", view)
	})

	// Move a task one column back or forward
	r.POST("/api/board/projects/{id}/tasks/{taskId}/move", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		taskID, err := pathParamInt64(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		view, err := svc.MoveTask(stdCtx, v, projectID, taskID, queryString(ctx, "direction"), queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to move task", boardErr("Failed to move task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task moved successfully", view)
	})

	// Delete a task
	r.DELETE("/api/board/projects/{id}/tasks/{taskId}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		taskID, err := pathParamInt64(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		view, err := svc.DeleteTask(stdCtx, v, projectID, taskID, queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to delete task", boardErr("Failed to delete task", err))
			return
		}

		writeOK(ctx, stdCtx, "Task deleted successfully", view)
	})

	// Replace a task's assignee set (empty list = unassign all)
	r.PUT("/api/board/projects/{id}/tasks/{taskId}/assignees", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		projectID, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		taskID, err := pathParamInt64(ctx, "taskId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body assignmentBody
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		view, err := svc.ApplyAssignment(stdCtx, v, projectID, taskID, body.Assignees, queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to update assignees", boardErr("Failed to update assignees", err))
			return
		}

		writeOK(ctx, stdCtx, "Assignees updated successfully", view)
	})
}
