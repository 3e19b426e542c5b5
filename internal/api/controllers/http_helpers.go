package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/nexora/cloudtask/internal/api/response"
	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/gateway"
	"github.com/nexora/cloudtask/internal/perrors"
)

// requestContext returns a baseline context for handlers. fasthttp does not
// provide a standard context; the middleware stores the extracted trace
// context under "traceCtx".
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamInt64(ctx *fasthttp.RequestCtx, key string) (int64, error) {
	raw, err := pathParam(ctx, key)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(raw, 10, 64)
}

func queryString(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// viewer returns the signed-in viewer the middleware resolved for this
// request. Handlers behind the auth check can rely on it being present.
func viewer(ctx *fasthttp.RequestCtx) (board.Viewer, bool) {
	v, ok := ctx.UserValue("viewer").(board.Viewer)
	return v, ok
}

func writeUnauthenticated(ctx *fasthttp.RequestCtx, stdCtx context.Context) {
	writeError(ctx, stdCtx, "Not signed in", perrors.New(perrors.ErrCodeUnauthorized, "Not signed in", errors.New("no session")))
}

// boardErr maps board/gateway failures onto the response error taxonomy:
// local precondition failures keep their own codes, anything the
// task-service rejected is surfaced as one uniform upstream failure.
func boardErr(msg string, err error) error {
	switch {
	case errors.Is(err, board.ErrNotAllowed):
		return perrors.NewErrForbidden(msg, err)
	case errors.Is(err, board.ErrTaskNotFound):
		return perrors.New(perrors.ErrCodeNotFound, msg, err)
	case errors.Is(err, board.ErrEmptyTitle),
		errors.Is(err, board.ErrEmptyProjectName),
		errors.Is(err, board.ErrAtBoundary),
		errors.Is(err, board.ErrBadDirection),
		errors.Is(err, board.ErrBadRole),
		errors.Is(err, board.ErrUnknownMember):
		return perrors.NewErrInvalidRequest(msg, err)
	}

	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		return perrors.NewErrUpstream(msg, err, map[string]interface{}{
			"op":              gwErr.Op,
			"upstream_status": gwErr.StatusCode,
		})
	}

	return perrors.NewErrInternalServerError(msg, err)
}
