package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/nexora/cloudtask/internal/config"
	"github.com/nexora/cloudtask/internal/session"
)

// Authenticator wraps the external OIDC identity provider: login redirects,
// code exchange, ID-token verification, and bearer access-token validation
// against the provider's JWKS. It also mints the local session cookie token.
type Authenticator struct {
	*oidc.Provider
	oauth2.Config

	stateSecret   string
	sessionSecret []byte
	issuer        string
	jwksProvider  *jwks.CachingProvider
	audience      string
	authEnabled   bool
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.OIDC_ISSUER == "" {
		return &Authenticator{
			authEnabled: false,
		}, nil
	}

	provider, err := oidc.NewProvider(context.Background(), conf.OIDC_ISSUER)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(conf.OIDC_ISSUER)
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		Provider: provider,
		Config: oauth2.Config{
			ClientID:     conf.OIDC_CLIENT_ID,
			ClientSecret: conf.OIDC_CLIENT_SECRET,
			RedirectURL:  conf.OIDC_CALLBACK_URL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		stateSecret:   conf.STATE_SECRET,
		sessionSecret: []byte(conf.SESSION_SECRET),
		issuer:        conf.OIDC_ISSUER,
		jwksProvider:  jwks.NewCachingProvider(issuerURL, 5*time.Minute),
		audience:      conf.OIDC_AUDIENCE,
		authEnabled:   true,
	}, nil
}

func (a *Authenticator) AuthEnabled() bool {
	return a.authEnabled
}

func (a *Authenticator) Audience() string {
	return a.audience
}

// identityClaims are the profile claims read off a verified ID token.
type identityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ExchangeCode swaps an authorization code for a verified identity.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (*session.Identity, error) {
	token, err := a.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	idToken, err := a.verifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	var claims identityClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}

	return &session.Identity{
		UID:         idToken.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		PhotoURL:    claims.Picture,
	}, nil
}

// verifyIDToken verifies that an *oauth2.Token carries a valid *oidc.IDToken.
func (a *Authenticator) verifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.ClientID,
	}

	return a.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// MintSessionToken wraps a session id in a signed cookie token.
func (a *Authenticator) MintSessionToken(sessionID string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cloudtask-board",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.sessionSecret)
}

// ParseSessionToken returns the session id inside a cookie token.
func (a *Authenticator) ParseSessionToken(token string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.sessionSecret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", errors.New("token has no session id")
	}

	return claims.SessionID, nil
}

// VerifyAccessToken validates a provider-issued bearer token against the
// provider JWKS and returns the identity it asserts. Used for programmatic
// callers that skip the cookie flow.
func (a *Authenticator) VerifyAccessToken(ctx context.Context, token string) (*session.Identity, error) {
	jwtValidator, err := validator.New(a.jwksProvider.KeyFunc, validator.RS256, a.issuer, []string{a.audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &accessClaims{} }))
	if err != nil {
		return nil, err
	}

	payload, err := jwtValidator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	claims, ok := payload.(*validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("unexpected claims payload")
	}

	id := &session.Identity{UID: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*accessClaims); ok {
		id.Email = custom.Email
		id.DisplayName = custom.Name
	}

	return id, nil
}

type accessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *accessClaims) Validate(context.Context) error { return nil }
