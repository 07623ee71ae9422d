package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Identity is the session provider the core talks to.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	Current(token string) (Session, bool)
	// Subscribe registers fn for session changes and returns a function that removes it.
	// fn runs synchronously with the context of the operation that caused the change.
	Subscribe(fn func(context.Context, Change)) (unsubscribe func())
}

// LocalIdentity keeps bcrypt credentials in the record store and sessions in memory.
type LocalIdentity struct {
	store    records.Store
	cost     int
	nowFunc  func() time.Time
	newToken func() string

	mu       sync.RWMutex
	sessions map[string]Session
	subs     map[int]func(context.Context, Change)
	nextSub  int
}

// NewLocalIdentity creates a LocalIdentity using bcrypt.DefaultCost.
func NewLocalIdentity(store records.Store) *LocalIdentity {
	return &LocalIdentity{
		store:    store,
		cost:     bcrypt.DefaultCost,
		nowFunc:  time.Now,
		newToken: uuid.NewString,
		sessions: map[string]Session{},
		subs:     map[int]func(context.Context, Change){},
	}
}

// WithCost overrides the bcrypt cost.
func (l *LocalIdentity) WithCost(cost int) *LocalIdentity {
	l.cost = cost
	return l
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (l *LocalIdentity) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, apperr.Validation("email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	cred, err := records.Encode(credentialRecord{
		ID:           email,
		UserID:       uuid.NewString(),
		PasswordHash: string(hash),
		CreatedAt:    l.nowFunc().UTC(),
	})
	if err != nil {
		return Session{}, err
	}
	if _, err := l.store.Insert(ctx, CredentialsTable, cred); err != nil {
		if errors.Is(err, records.ErrConflict) {
			return Session{}, apperr.Validation("email %s is already registered", email)
		}
		return Session{}, apperr.ExternalWrite("insert credentials", err)
	}

	s := l.issue(cred["user_id"].(string), email)
	l.notify(ctx, Change{Kind: SignedUp, Session: s})
	return s, nil
}

func (l *LocalIdentity) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	rec, err := l.store.Get(ctx, CredentialsTable, email)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return Session{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)
		}
		return Session{}, fmt.Errorf("load credentials: %w", err)
	}
	var cred credentialRecord
	if err := records.Decode(rec, &cred); err != nil {
		return Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return Session{}, fmt.Errorf("%w: invalid email or password", apperr.ErrUnauthenticated)
	}

	s := l.issue(cred.UserID, email)
	l.notify(ctx, Change{Kind: SignedIn, Session: s})
	return s, nil
}

func (l *LocalIdentity) SignOut(ctx context.Context, token string) error {
	l.mu.Lock()
	s, ok := l.sessions[token]
	delete(l.sessions, token)
	l.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: no active session", apperr.ErrUnauthenticated)
	}
	l.notify(ctx, Change{Kind: SignedOut, Session: s})
	return nil
}

func (l *LocalIdentity) Current(token string) (Session, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.sessions[token]
	return s, ok
}

func (l *LocalIdentity) Subscribe(fn func(context.Context, Change)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

func (l *LocalIdentity) issue(userID, email string) Session {
	s := Session{
		Token:    l.newToken(),
		UserID:   userID,
		Email:    email,
		IssuedAt: l.nowFunc().UTC(),
	}
	l.mu.Lock()
	l.sessions[s.Token] = s
	l.mu.Unlock()
	return s
}

func (l *LocalIdentity) notify(ctx context.Context, c Change) {
	l.mu.RLock()
	subs := make([]func(context.Context, Change), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.RUnlock()

	for _, fn := range subs {
		fn(ctx, c)
	}
}
