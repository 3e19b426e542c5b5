package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexora/cloudtask/internal/config"
)

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()

	// No issuer keeps auth disabled so construction never dials out; state
	// signing and session tokens work the same either way.
	auth, err := New(&config.Config{})
	require.NoError(t, err)

	auth.stateSecret = "state-secret"
	auth.sessionSecret = []byte("session-secret")
	return auth
}

func TestNewWithoutIssuerDisablesAuth(t *testing.T) {
	t.Parallel()

	auth, err := New(&config.Config{})
	require.NoError(t, err)
	assert.False(t, auth.AuthEnabled())
}

func TestSignedStateRoundTrip(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)
	now := time.Now()

	signed, err := auth.GetSignedState(OAuthState{
		CSRF:      "random-csrf",
		Redirect:  "/board/7",
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(10 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	state, err := auth.VerifySignedState(signed)
	require.NoError(t, err)
	assert.Equal(t, "random-csrf", state.CSRF)
	assert.Equal(t, "/board/7", state.Redirect)
}

func TestVerifySignedStateRejections(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)

	signed, err := auth.GetSignedState(OAuthState{
		CSRF:      "csrf",
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		state string
	}{
		{name: "not base64", state: "%%%"},
		{name: "too short", state: "c2hvcnQ="},
		{name: "tampered payload", state: "A" + signed[1:]},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := auth.VerifySignedState(tt.state)
			assert.Error(t, err)
		})
	}
}

func TestVerifySignedStateWrongSecret(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)
	signed, err := auth.GetSignedState(OAuthState{
		CSRF:      "csrf",
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
	})
	require.NoError(t, err)

	other := newTestAuthenticator(t)
	other.stateSecret = "different-secret"

	_, err = other.VerifySignedState(signed)
	assert.Error(t, err)
}

func TestVerifySignedStateExpired(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)
	signed, err := auth.GetSignedState(OAuthState{
		CSRF:      "csrf",
		IssuedAt:  time.Now().Add(-time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-30 * time.Minute).Unix(),
	})
	require.NoError(t, err)

	_, err = auth.VerifySignedState(signed)
	assert.ErrorContains(t, err, "expired")
}

func TestSessionTokenRoundTrip(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)

	token, err := auth.MintSessionToken("sess-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	sid, err := auth.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-123", sid)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)

	token, err := auth.MintSessionToken("sess-123", time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = auth.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)
	token, err := auth.MintSessionToken("sess-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	other := newTestAuthenticator(t)
	other.sessionSecret = []byte("different-secret")

	_, err = other.ParseSessionToken(token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	auth := newTestAuthenticator(t)
	_, err := auth.ParseSessionToken("not-a-jwt")
	assert.Error(t, err)
}
