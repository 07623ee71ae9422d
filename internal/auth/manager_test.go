package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/logging"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

func newTestManager(t *testing.T) (*Manager, *LocalIdentity, *records.MemoryStore) {
	t.Helper()
	store := records.NewMemoryStore()
	id := NewLocalIdentity(store).WithCost(bcrypt.MinCost)
	m := NewManager(id, store, logging.Discard())
	t.Cleanup(m.Close)
	return m, id, store
}

func TestRegister_WritesProfileAndResolves(t *testing.T) {
	m, _, store := newTestManager(t)
	ctx := context.Background()

	p, err := m.Register(ctx, Registration{
		Email:    "Thandi@Example.com ",
		Password: "secret123",
		Name:     "Thandi Nkosi",
		Phone:    "+27 82 555 0101",
		Address:  "12 Long Street, Cape Town",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, p.User.Role)
	assert.Equal(t, "thandi@example.com", p.User.Email)
	assert.NotEmpty(t, p.Session.Token)

	rec, err := store.Get(ctx, UsersTable, p.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer", rec["role"])
	assert.Equal(t, "+27 82 555 0101", rec["phone"])

	got, err := m.Resolve(p.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, p.User.ID, got.Actor().UserID)
	assert.Equal(t, RoleCustomer, got.Actor().Role)
}

func TestRegister_Rejects(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Register(ctx, Registration{Email: "a@b.co", Password: "pw1234", Name: "A", Role: "manager"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Register(ctx, Registration{Email: "a@b.co", Password: "pw1234", Name: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = m.Register(ctx, Registration{Email: "a@b.co", Password: "pw1234", Name: "A"})
	require.NoError(t, err)
	_, err = m.Register(ctx, Registration{Email: "A@B.CO", Password: "other1", Name: "B"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSignInSignOut_TracksProfile(t *testing.T) {
	m, id, _ := newTestManager(t)
	ctx := context.Background()

	reg, err := m.Register(ctx, Registration{Email: "chef@resto.co", Password: "braai42", Name: "Sipho", Role: RoleChef})
	require.NoError(t, err)

	var seen []ChangeKind
	unsub := id.Subscribe(func(_ context.Context, c Change) { seen = append(seen, c.Kind) })
	defer unsub()

	_, err = m.SignIn(ctx, "chef@resto.co", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = m.SignIn(ctx, "nobody@resto.co", "braai42")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	p, err := m.SignIn(ctx, "chef@resto.co", "braai42")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.User.ID)
	assert.Equal(t, RoleChef, p.User.Role)
	assert.NotEqual(t, reg.Session.Token, p.Session.Token)

	require.NoError(t, m.SignOut(ctx, p.Session.Token))
	_, err = m.Resolve(p.Session.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	// the registration session is still live
	_, err = m.Resolve(reg.Session.Token)
	assert.NoError(t, err)

	assert.ErrorIs(t, m.SignOut(ctx, p.Session.Token), apperr.ErrUnauthenticated)
	assert.Equal(t, []ChangeKind{SignedIn, SignedOut}, seen)
}

func TestSignIn_MissingProfile(t *testing.T) {
	store := records.NewMemoryStore()
	id := NewLocalIdentity(store).WithCost(bcrypt.MinCost)
	m := NewManager(id, store, logging.Discard())
	defer m.Close()
	ctx := context.Background()

	// credentials without a users row
	_, err := id.SignUp(ctx, "ghost@resto.co", "boo123")
	require.NoError(t, err)

	_, err = m.SignIn(ctx, "ghost@resto.co", "boo123")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUsers_FilterByRole(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	for _, r := range []Registration{
		{Email: "d1@resto.co", Password: "pw1234", Name: "D1", Role: RoleDelivery},
		{Email: "c1@resto.co", Password: "pw1234", Name: "C1"},
		{Email: "d2@resto.co", Password: "pw1234", Name: "D2", Role: RoleDelivery},
	} {
		_, err := m.Register(ctx, r)
		require.NoError(t, err)
	}

	drivers, err := m.Users(ctx, RoleDelivery)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "D1", drivers[0].Name)

	all, err := m.Users(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
