package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusCancelled},
		StatusConfirmed:  {StatusPreparing, StatusCancelled},
		StatusPreparing:  {StatusReady, StatusCancelled},
		StatusReady:      {StatusDispatched, StatusDelivered},
		StatusDispatched: {StatusDelivered},
	}
	for _, from := range Statuses {
		for _, to := range Statuses {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range Statuses {
		want := s == StatusDelivered || s == StatusCancelled
		assert.Equal(t, want, IsTerminal(s), s)
	}
	assert.False(t, IsTerminal("bogus"))
	assert.Empty(t, AllowedNext(StatusDelivered))
}

func TestAllowedNext_ReturnsCopy(t *testing.T) {
	next := AllowedNext(StatusPending)
	next[0] = StatusDelivered
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, AllowedNext(StatusPending))
}

func TestActionsFor(t *testing.T) {
	assert.Equal(t, []Status{StatusConfirmed, StatusCancelled}, ActionsFor(auth.RoleAdmin, StatusPending))
	assert.Empty(t, ActionsFor(auth.RoleChef, StatusPending))
	assert.Equal(t, []Status{StatusPreparing}, ActionsFor(auth.RoleChef, StatusConfirmed))
	assert.Equal(t, []Status{StatusReady}, ActionsFor(auth.RoleChef, StatusPreparing))
	assert.Equal(t, []Status{StatusDispatched}, ActionsFor(auth.RoleDelivery, StatusReady))
	assert.Equal(t, []Status{StatusDelivered}, ActionsFor(auth.RoleDelivery, StatusDispatched))
	assert.Empty(t, ActionsFor(auth.RoleCustomer, StatusPending))
}

func TestStatusAndTypeValidity(t *testing.T) {
	assert.True(t, StatusReady.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.True(t, TypeDineIn.Valid())
	assert.False(t, Type("drive-thru").Valid())
	assert.True(t, PaymentFailed.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
}
