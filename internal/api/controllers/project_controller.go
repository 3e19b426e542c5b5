package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/perrors"
)

type createProjectBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func RegisterProjectRoutes(r *router.Router, svc *board.Service) {
	// List the viewer's projects
	r.GET("/api/board/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		projects, err := svc.ListProjects(stdCtx, v)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list projects", boardErr("Failed to list projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Create a project and return the refreshed list
	r.POST("/api/board/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		var body createProjectBody
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		projects, err := svc.CreateProject(stdCtx, v, body.Name, body.Description)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create project", boardErr("Failed to create project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project created successfully", projects)
	})

	// Delete a project (tasks cascade server-side)
	r.DELETE("/api/board/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		id, err := pathParamInt64(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		projects, err := svc.DeleteProject(stdCtx, v, id)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to delete project", boardErr("Failed to delete project", err))
			return
		}

		writeOK(ctx, stdCtx, "Project deleted successfully", projects)
	})
}
