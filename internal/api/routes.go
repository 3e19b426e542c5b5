package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/nexora/cloudtask/internal/api/controllers"
	"github.com/nexora/cloudtask/internal/board"
	"github.com/nexora/cloudtask/internal/session"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	controllers.RegisterAuthRoutes(r, s.sessions, s.auth, s.conf)
	controllers.RegisterProjectRoutes(r, s.boards)
	controllers.RegisterBoardRoutes(r, s.boards)
	controllers.RegisterTaskRoutes(r, s.boards)
	controllers.RegisterMemberRoutes(r, s.boards)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx, s.conf.WEB_ORIGIN)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Viewer resolution
		if !isPublicRoute(ctx) {
			v, err := s.resolveViewer(ctx)
			if err != nil {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}
			ctx.SetUserValue("viewer", v)
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

// resolveViewer turns a request into the signed-in viewer: the session
// cookie first, then a provider-issued bearer token for programmatic
// callers. With auth disabled, everything runs as a fixed dev identity.
func (s *Server) resolveViewer(ctx *fasthttp.RequestCtx) (board.Viewer, error) {
	if !s.auth.AuthEnabled() {
		return board.Viewer{UID: "dev-local", Email: "dev@localhost"}, nil
	}

	traceCtx := controllersContext(ctx)

	if raw := ctx.Request.Header.Cookie(controllers.SessionCookie); len(raw) > 0 {
		sid, err := s.auth.ParseSessionToken(string(raw))
		if err == nil {
			sess, err := s.sessions.Resolve(traceCtx, sid)
			if err == nil {
				return board.Viewer{UID: sess.User.UID, Email: sess.User.Email}, nil
			}
			if !errors.Is(err, session.ErrSessionNotFound) {
				slog.Error("Session resolution failed", slog.Any("error", err))
			}
		}
	}

	if bearer := strings.TrimPrefix(string(ctx.Request.Header.Peek("Authorization")), "Bearer "); bearer != "" {
		id, err := s.auth.VerifyAccessToken(traceCtx, bearer)
		if err == nil {
			return board.Viewer{UID: id.UID, Email: id.Email}, nil
		}
	}

	return board.Viewer{}, errors.New("no valid session or token")
}

func controllersContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}
	return context.Background()
}

func applyCORS(ctx *fasthttp.RequestCtx, origin string) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", origin)
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	// Auth routes manage their own cookie handling
	publicAuthRoutes := []string{
		"/api/board/auth/enabled",
		"/api/board/auth/login",
		"/api/board/auth/callback",
		"/api/board/auth/me",
		"/api/board/auth/logout",
	}

	switch {
	case path == "/api/health":
		return true
	default:
		for _, route := range publicAuthRoutes {
			if path == route {
				return true
			}
		}
		return false
	}
}
