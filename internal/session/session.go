package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexora/cloudtask/internal/gateway"
)

// Identity is what the identity provider vouches for: an opaque uid plus
// profile fields. This client never mutates it beyond the profile sync.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// Session is a signed-in identity with a server-issued id and lifetime.
type Session struct {
	ID        string    `json:"id"`
	User      Identity  `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Snapshot is the immutable auth state consumers read. Resolving is true
// only until the first state event fires, then permanently false; later
// sign-out/sign-in transitions never re-enter the resolving state.
type Snapshot struct {
	User      *Identity `json:"user"`
	Resolving bool      `json:"resolving"`
}

// Change is one auth-state transition.
type Change struct {
	User     *Identity
	SignedIn bool
}

// Handler receives auth-state changes. Handlers run on the calling
// goroutine; keep them cheap.
type Handler func(Change)

// Manager owns the authentication state. It is the single subscription
// boundary to sign-in/out transitions: consumers register handlers here
// instead of watching provider state themselves, and the per-sign-in profile
// sync fires exactly once, before the new session is published.
type Manager struct {
	store Store
	users gateway.UserAPI
	ttl   time.Duration

	mu       sync.RWMutex
	handlers []Handler

	resolveOnce sync.Once
	resolvedCh  chan struct{}
}

func NewManager(store Store, users gateway.UserAPI, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Manager{
		store:      store,
		users:      users,
		ttl:        ttl,
		resolvedCh: make(chan struct{}),
	}
}

// Subscribe registers a handler for auth-state changes.
func (m *Manager) Subscribe(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, h)
}

// SignIn syncs the user's profile with the task-service, issues a session,
// and publishes the transition. A failed sync is logged but never blocks the
// sign-in: the user is authenticated either way.
func (m *Manager) SignIn(ctx context.Context, id Identity) (*Session, error) {
	if err := m.users.SyncUserProfile(ctx, gateway.UserSyncRequest{
		FirebaseUID: id.UID,
		Email:       id.Email,
		DisplayName: displayName(id),
		PhotoURL:    id.PhotoURL,
	}); err != nil {
		slog.Error("Profile sync failed, continuing sign-in", slog.String("uid", id.UID), slog.Any("error", err))
	}

	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		User:      id,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Put(ctx, sess); err != nil {
		return nil, err
	}

	m.publish(Change{User: &sess.User, SignedIn: true})

	return sess, nil
}

// SignOut drops the session and publishes the signed-out transition. A
// missing session is treated as already signed out.
func (m *Manager) SignOut(ctx context.Context, sessionID string) error {
	if err := m.store.Delete(ctx, sessionID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return err
	}

	m.publish(Change{User: nil, SignedIn: false})

	return nil
}

// Resolve looks up the session behind a request cookie.
func (m *Manager) Resolve(ctx context.Context, sessionID string) (*Session, error) {
	return m.store.Get(ctx, sessionID)
}

// Snapshot reads the auth state for one request's session id.
func (m *Manager) Snapshot(ctx context.Context, sessionID string) Snapshot {
	snap := Snapshot{Resolving: m.resolving()}

	if sessionID == "" {
		return snap
	}

	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			slog.Error("Session lookup failed", slog.Any("error", err))
		}
		return snap
	}

	user := sess.User
	snap.User = &user

	return snap
}

func (m *Manager) publish(c Change) {
	m.resolveOnce.Do(func() { close(m.resolvedCh) })

	m.mu.RLock()
	handlers := make([]Handler, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.RUnlock()

	for _, h := range handlers {
		h(c)
	}
}

func (m *Manager) resolving() bool {
	select {
	case <-m.resolvedCh:
		return false
	default:
		return true
	}
}

// displayName mirrors the sync payload rule: fall back to the mailbox name
// when the provider has no display name.
func displayName(id Identity) string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return id.Email
}
