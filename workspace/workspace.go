// Package workspace tracks each signed-in user's tenant selection.
//
// A session pairs a user with their currently selected tenant and the
// grant resolved there. Switching tenants swaps the whole session
// atomically: a failed switch leaves the previous selection untouched.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/store"
	"github.com/xraph/custos/tenant"
)

// Session is a user's current workspace: the selected tenant and the
// grant resolved there. A user with memberships only in inactive tenants
// has a session with no selection.
type Session struct {
	UserID string         `json:"user_id"`
	Tenant *tenant.Tenant `json:"tenant,omitempty"`
	Grant  *custos.Grant  `json:"grant,omitempty"`
}

// Selected reports whether the session has a tenant selected.
func (s *Session) Selected() bool { return s != nil && s.Tenant != nil }

// Manager resolves and tracks workspace sessions. All methods are safe
// for concurrent use.
type Manager struct {
	eng    *custos.Engine
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option is a functional option for the Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option { return func(m *Manager) { m.logger = l } }

// NewManager creates a workspace manager on top of an engine.
func NewManager(eng *custos.Engine, opts ...Option) *Manager {
	m := &Manager{
		eng:      eng,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SignIn opens a session for the user. The default tenant is the active
// tenant where the user's oldest assignment lives; memberships in inactive
// tenants are skipped. A user with no usable membership signs in with no
// selection.
func (m *Manager) SignIn(ctx context.Context, userID string) (*Session, error) {
	tenantIDs, err := m.eng.UserTenants(ctx, userID)
	if err != nil {
		return nil, err
	}

	var selected *tenant.Tenant
	for _, tid := range tenantIDs {
		t, err := m.eng.GetTenant(ctx, tid)
		if err != nil {
			// A deleted tenant may leave assignments behind; skip it.
			if errors.Is(err, custos.ErrTenantNotFound) {
				continue
			}
			return nil, err
		}
		if t.IsActive {
			selected = t
			break
		}
	}

	session := &Session{UserID: userID}
	if selected != nil {
		grant, err := m.eng.Resolve(ctx, userID, selected.ID)
		if err != nil {
			return nil, err
		}
		session.Tenant = selected
		session.Grant = grant
	}

	m.mu.Lock()
	m.sessions[userID] = session
	m.mu.Unlock()

	m.logger.Debug("workspace sign-in",
		slog.String("user_id", userID),
		slog.Bool("selected", session.Selected()),
	)

	return session, nil
}

// SwitchTenant changes the user's selection to the given tenant. The user
// must be a member and the tenant must be active. On any failure the
// previous selection is preserved.
func (m *Manager) SwitchTenant(ctx context.Context, userID string, tenantID id.TenantID) (*Session, error) {
	t, err := m.eng.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, fmt.Errorf("%w: %s", custos.ErrTenantInactive, t.Slug)
	}

	member, err := m.isMember(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: %s in %s", custos.ErrNotAMember, userID, t.Slug)
	}

	grant, err := m.eng.Resolve(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}

	session := &Session{UserID: userID, Tenant: t, Grant: grant}
	m.mu.Lock()
	m.sessions[userID] = session
	m.mu.Unlock()

	m.logger.Debug("workspace switch",
		slog.String("user_id", userID),
		slog.String("tenant", t.Slug),
	)

	return session, nil
}

// Refresh re-resolves the grant for the user's current selection, picking
// up role and assignment changes. A user whose current tenant went
// inactive keeps the selection but ends up with an empty grant.
func (m *Manager) Refresh(ctx context.Context, userID string) (*Session, error) {
	m.mu.RLock()
	current, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok || !current.Selected() {
		return current, nil
	}

	t, err := m.eng.GetTenant(ctx, current.Tenant.ID)
	if err != nil {
		return nil, err
	}
	grant, err := m.eng.Resolve(ctx, userID, t.ID)
	if err != nil {
		return nil, err
	}

	session := &Session{UserID: userID, Tenant: t, Grant: grant}
	m.mu.Lock()
	m.sessions[userID] = session
	m.mu.Unlock()

	return session, nil
}

// Current returns the user's session, if one exists.
func (m *Manager) Current(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// SignOut discards the user's session.
func (m *Manager) SignOut(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *Manager) isMember(ctx context.Context, userID string, tenantID id.TenantID) (bool, error) {
	roles, err := m.eng.Store().ListRolesForUser(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", custos.ErrStoreUnavailable, err)
	}
	return len(roles) > 0, nil
}
