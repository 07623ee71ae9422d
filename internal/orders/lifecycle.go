package orders

import (
	"slices"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
)

// transitions is the complete lifecycle: current status -> allowed next statuses.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusPreparing, StatusCancelled},
	StatusPreparing:  {StatusReady, StatusCancelled},
	StatusReady:      {StatusDispatched, StatusDelivered},
	StatusDispatched: {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

type edge struct{ from, to Status }

// staffEdges lists what non-admin roles may apply. Admins may apply any legal edge.
// A chef starts work from confirmed, never straight from pending: pending has no
// preparing edge in the table above, so confirming an order stays admin work.
var staffEdges = map[auth.Role]map[edge]bool{
	auth.RoleChef: {
		{StatusConfirmed, StatusPreparing}: true,
		{StatusPreparing, StatusReady}:     true,
	},
	auth.RoleDelivery: {
		{StatusReady, StatusDispatched}:     true,
		{StatusDispatched, StatusDelivered}: true,
	},
}

// AllowedNext returns the statuses reachable from s in one step.
func AllowedNext(s Status) []Status {
	return slices.Clone(transitions[s])
}

func CanTransition(from, to Status) bool {
	return slices.Contains(transitions[from], to)
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// RolePermits reports whether role may move an order from -> to.
// It does not check the transition table.
func RolePermits(role auth.Role, from, to Status) bool {
	if role == auth.RoleAdmin {
		return true
	}
	return staffEdges[role][edge{from, to}]
}

// ActionsFor returns the legal next statuses role may apply from s.
func ActionsFor(role auth.Role, s Status) []Status {
	var out []Status
	for _, next := range transitions[s] {
		if RolePermits(role, s, next) {
			out = append(out, next)
		}
	}
	return out
}
