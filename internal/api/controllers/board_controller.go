package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/perrors"
)

func RegisterBoardRoutes(r *router.Router, svc *board.Service) {
	// Composed board view: project, members, capability, filtered columns.
	// The assignee filter rides the "assignee" query arg.
	r.GET("/api/board/projects/{id}", func(ctx *fasthttp.RequestCtx) {
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

		view, err := svc.Load(stdCtx, v, id, queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to load board", boardErr("Failed to load board", err))
			return
		}

		writeOK(ctx, stdCtx, "Board retrieved successfully", view)
	})

	// Tasks assigned to the viewer across all projects
	r.GET("/api/board/my-tasks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		v, ok := viewer(ctx)
		if !ok {
			writeUnauthenticated(ctx, stdCtx)
			return
		}

		tasks, err := svc.MyTasks(stdCtx, v)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to load assigned tasks", boardErr("Failed to load assigned tasks", err))
			return
		}

		writeOK(ctx, stdCtx, "Tasks retrieved successfully", tasks)
	})
}
