// Package session holds the per-browser login state: whether the visitor is
// logged in, who they are, and the bearer token the backend issued. The state
// lives server-side behind a Backend, keyed by an opaque session id that the
// web layer keeps in a cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/eringen/tolet/api"
)

// ErrNotFound is returned by a Backend when no live state exists for an id.
var ErrNotFound = errors.New("session: not found")

// Roles allowed to publish blog posts.
const (
	RoleContentCreator = "content_creator"
	RoleModerator      = "moderator"
)

// UserSummary is the part of the backend user record the front end keeps.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// State is one visitor's session.
type State struct {
	LoggedIn bool         `json:"loggedIn"`
	User     *UserSummary `json:"user,omitempty"`
	Token    string       `json:"token,omitempty"`
}

// UserID returns the canonical owner id, or "" when logged out.
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// CanPublish reports whether the user may create blog posts.
func (s State) CanPublish() bool {
	if !s.LoggedIn || s.User == nil {
		return false
	}
	return s.User.Role == RoleContentCreator || s.User.Role == RoleModerator
}

// Backend persists State by session id.
type Backend interface {
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, id string, st State) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Manager is the only writer of session state. Handlers read through Load
// and change state through Login, Register and Logout.
type Manager struct {
	backend Backend
	now     func() time.Time
}

// NewManager wraps a backend.
func NewManager(b Backend) *Manager {
	return &Manager{backend: b, now: time.Now}
}

// Load returns the state for id. Unknown ids and expired tokens read as
// logged out; an expired session is also removed.
func (m *Manager) Load(ctx context.Context, id string) (State, error) {
	if id == "" {
		return State{}, nil
	}
	st, err := m.backend.Load(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	if st.LoggedIn && tokenExpired(st.Token, m.now()) {
		if err := m.backend.Delete(ctx, id); err != nil {
			return State{}, fmt.Errorf("drop expired session: %w", err)
		}
		return State{}, nil
	}
	return st, nil
}

// Login records a successful login.
func (m *Manager) Login(ctx context.Context, id string, res api.AuthResult) (State, error) {
	st := State{
		LoggedIn: true,
		Token:    res.Token,
		User: &UserSummary{
			ID:    res.User.ID,
			Name:  res.User.DisplayName(),
			Email: res.User.Email,
			Role:  res.User.Role,
		},
	}
	if err := m.backend.Save(ctx, id, st); err != nil {
		return State{}, fmt.Errorf("save session: %w", err)
	}
	return st, nil
}

// Register records a successful registration. The new account is logged in
// straight away.
func (m *Manager) Register(ctx context.Context, id string, res api.AuthResult) (State, error) {
	return m.Login(ctx, id, res)
}

// Logout clears the state for id. Logging out twice is not an error.
func (m *Manager) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.backend.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}

// tokenExpired reads the exp claim without verifying the signature: the
// backend owns verification, this only spares a round trip that would 401.
// Opaque (non-JWT) tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}
