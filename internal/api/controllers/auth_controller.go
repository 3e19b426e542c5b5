package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"github.com/nexora/cloudtask/internal/api/authenticator"
	"github.com/nexora/cloudtask/internal/config"
	"github.com/nexora/cloudtask/internal/session"
)

// SessionCookie carries the signed session token between requests.
const SessionCookie = "cloudtask_session"

func RegisterAuthRoutes(r *router.Router, sessions *session.Manager, auth *authenticator.Authenticator, conf *config.Config) {
	r.GET("/api/board/auth/enabled", func(ctx *fasthttp.RequestCtx) {
		writeOK(ctx, requestContext(ctx), "success", map[string]any{
			"auth_enabled": auth.AuthEnabled(),
		})
	})

	// Start the provider login flow
	r.GET("/api/board/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		csrf := make([]byte, 16)
		if _, err := rand.Read(csrf); err != nil {
			writeError(ctx, stdCtx, "Failed to generate state", err)
			return
		}

		state := authenticator.OAuthState{
			CSRF:      base64.RawURLEncoding.EncodeToString(csrf),
			Redirect:  conf.WEB_ORIGIN,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
		}

		encodedState, err := auth.GetSignedState(state)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create signed state", err)
			return
		}

		url := auth.AuthCodeURL(encodedState, oauth2.SetAuthURLParam("audience", auth.Audience()))
		ctx.Redirect(url, fasthttp.StatusTemporaryRedirect)
	})

	// Provider callback: verify state, exchange the code, sign the user in
	r.GET("/api/board/auth/callback", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)
		encodedState := ctx.URI().QueryArgs().Peek("state")
		code := ctx.URI().QueryArgs().Peek("code")

		if encodedState == nil || code == nil {
			writeError(ctx, stdCtx, "missing parameters", errors.New("missing parameters"))
			return
		}

		state, err := auth.VerifySignedState(string(encodedState))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to decode state", err)
			return
		}

		identity, err := auth.ExchangeCode(stdCtx, string(code))
		if err != nil {
			writeError(ctx, stdCtx, "Failed to exchange token", err)
			return
		}

		sess, err := sessions.SignIn(stdCtx, *identity)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to create session", err)
			return
		}

		token, err := auth.MintSessionToken(sess.ID, sess.ExpiresAt)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to mint session token", err)
			return
		}

		var cookie fasthttp.Cookie
		cookie.SetKey(SessionCookie)
		cookie.SetValue(token)
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
		cookie.SetExpire(sess.ExpiresAt)
		ctx.Response.Header.SetCookie(&cookie)

		ctx.Redirect(state.Redirect, fasthttp.StatusTemporaryRedirect)
	})

	// Current auth state
	r.GET("/api/board/auth/me", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		snap := sessions.Snapshot(stdCtx, sessionIDFromCookie(ctx, auth))
		writeOK(ctx, stdCtx, "success", snap)
	})

	// Logout
	r.POST("/api/board/auth/logout", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if sid := sessionIDFromCookie(ctx, auth); sid != "" {
			if err := sessions.SignOut(stdCtx, sid); err != nil {
				writeError(ctx, stdCtx, "Failed to sign out", err)
				return
			}
		}

		var cookie fasthttp.Cookie
		cookie.SetKey(SessionCookie)
		cookie.SetValue("")
		cookie.SetPath("/")
		cookie.SetHTTPOnly(true)
		cookie.SetExpire(time.Now().Add(-1 * time.Hour))
		ctx.Response.Header.SetCookie(&cookie)

		writeOK(ctx, stdCtx, "success", map[string]any{
			"message": "Logged out successfully",
		})
	})
}

func sessionIDFromCookie(ctx *fasthttp.RequestCtx, auth *authenticator.Authenticator) string {
	raw := ctx.Request.Header.Cookie(SessionCookie)
	if len(raw) == 0 {
		return ""
	}

	sid, err := auth.ParseSessionToken(string(raw))
	if err != nil {
		return ""
	}
	return sid
}
