package controllers

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/perrors"
)

type addMemberBody struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func RegisterMemberRoutes(r *router.Router, svc *board.Service) {
	// Add a member by email (OWNER/ADMIN only)
	r.POST("/api/board/projects/{id}/members", func(ctx *fasthttp.RequestCtx) {
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

		var body addMemberBody
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		view, err := svc.AddMember(stdCtx, v, projectID, body.Email, board.Role(body.Role), queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to add member", boardErr("Failed to add member", err))
			return
		}

		writeOK(ctx, stdCtx, "Member added successfully", view)
	})

	// Remove a member (OWNER/ADMIN only)
	r.DELETE("/api/board/projects/{id}/members/{userId}", func(ctx *fasthttp.RequestCtx) {
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

		userID, err := pathParamInt64(ctx, "userId")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		view, err := svc.RemoveMember(stdCtx, v, projectID, userID, queryString(ctx, "assignee"))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to remove member", boardErr("Failed to remove member", err))
			return
		}

		writeOK(ctx, stdCtx, "Member removed successfully", view)
	})
}
