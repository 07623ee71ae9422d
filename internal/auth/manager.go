package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Registration carries sign-up credentials plus the profile fields stored in users.
type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Address  string
	Role     Role
}

// Manager reacts to identity changes by loading or dropping the profile of each session.
type Manager struct {
	identity Identity
	store    records.Store
	log      *slog.Logger
	nowFunc  func() time.Time

	mu       sync.RWMutex
	profiles map[string]User // token -> profile

	unsubscribe func()
}

// NewManager subscribes to identity changes. Call Close to detach.
func NewManager(identity Identity, store records.Store, log *slog.Logger) *Manager {
	m := &Manager{
		identity: identity,
		store:    store,
		log:      log,
		nowFunc:  time.Now,
		profiles: map[string]User{},
	}
	m.unsubscribe = identity.Subscribe(m.onChange)
	return m
}

func (m *Manager) Close() { m.unsubscribe() }

func (m *Manager) onChange(ctx context.Context, c Change) {
	switch c.Kind {
	case SignedIn:
		u, err := m.loadProfile(ctx, c.Session.UserID)
		if err != nil {
			m.log.Warn("profile load failed",
				slog.String("action", "load_profile"),
				slog.String("user_id", c.Session.UserID),
				slog.Any("error", err))
			return
		}
		m.setProfile(c.Session.Token, u)
	case SignedOut:
		m.mu.Lock()
		delete(m.profiles, c.Session.Token)
		m.mu.Unlock()
	case SignedUp:
		// Register writes the profile row itself.
	}
}

func (m *Manager) loadProfile(ctx context.Context, userID string) (User, error) {
	rec, err := m.store.Get(ctx, UsersTable, userID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return User{}, apperr.NotFound("user profile", userID)
		}
		return User{}, fmt.Errorf("load user %s: %w", userID, err)
	}
	return userFromRecord(rec)
}

func (m *Manager) setProfile(token string, u User) {
	m.mu.Lock()
	m.profiles[token] = u
	m.mu.Unlock()
}

// Register signs up with the identity provider and writes the profile row.
func (m *Manager) Register(ctx context.Context, r Registration) (Principal, error) {
	if r.Role == "" {
		r.Role = RoleCustomer
	}
	if !r.Role.Valid() {
		return Principal{}, apperr.Validation("unknown role %q", r.Role)
	}
	if strings.TrimSpace(r.Name) == "" {
		return Principal{}, apperr.Validation("name is required")
	}

	s, err := m.identity.SignUp(ctx, r.Email, r.Password)
	if err != nil {
		return Principal{}, err
	}

	u := User{
		ID:        s.UserID,
		Name:      strings.TrimSpace(r.Name),
		Email:     s.Email,
		Role:      r.Role,
		Phone:     r.Phone,
		Address:   r.Address,
		CreatedAt: m.nowFunc().UTC(),
	}
	rec, err := userToRecord(u)
	if err != nil {
		return Principal{}, err
	}
	if _, err := m.store.Insert(ctx, UsersTable, rec); err != nil {
		return Principal{}, apperr.ExternalWrite("insert user profile", err)
	}
	m.setProfile(s.Token, u)

	m.log.Info("user registered",
		slog.String("action", "register"),
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)))
	return Principal{Session: s, User: u}, nil
}

// SignIn establishes a session; the profile is loaded by the change notification.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Principal, error) {
	s, err := m.identity.SignIn(ctx, email, password)
	if err != nil {
		return Principal{}, err
	}
	p, err := m.Resolve(s.Token)
	if err != nil {
		return Principal{}, apperr.NotFound("user profile", s.UserID)
	}
	return p, nil
}

func (m *Manager) SignOut(ctx context.Context, token string) error {
	return m.identity.SignOut(ctx, token)
}

// Resolve returns the principal for a bearer token.
func (m *Manager) Resolve(token string) (Principal, error) {
	s, ok := m.identity.Current(token)
	if !ok {
		return Principal{}, fmt.Errorf("%w: unknown or expired session", apperr.ErrUnauthenticated)
	}
	m.mu.RLock()
	u, ok := m.profiles[token]
	m.mu.RUnlock()
	if !ok {
		return Principal{}, fmt.Errorf("%w: session has no profile", apperr.ErrUnauthenticated)
	}
	return Principal{Session: s, User: u}, nil
}

// Users returns profiles with the given role, or all profiles for an empty role.
func (m *Manager) Users(ctx context.Context, role Role) ([]User, error) {
	filter := records.Filter{}
	if role != "" {
		filter["role"] = string(role)
	}
	recs, err := m.store.Select(ctx, UsersTable, filter)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	out := make([]User, 0, len(recs))
	for _, rec := range recs {
		u, err := userFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
