package views

import (
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityFor grades an order by how long ago it was placed.
func PriorityFor(created, now time.Time) Priority {
	age := now.Sub(created)
	switch {
	case age > 30*time.Minute:
		return PriorityHigh
	case age > 15*time.Minute:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ChefFilter selects a tab of the kitchen queue.
type ChefFilter string

const (
	ChefAll       ChefFilter = "all"
	ChefPending   ChefFilter = "pending"
	ChefPreparing ChefFilter = "preparing"
)

func (f ChefFilter) Valid() bool {
	return f == ChefAll || f == ChefPending || f == ChefPreparing
}

type ChefEntry struct {
	Order      orders.Order    `json:"order"`
	AgeMinutes int             `json:"ageMinutes"`
	Priority   Priority        `json:"priority"`
	Actions    []orders.Status `json:"actions"`
}

type ChefQueue struct {
	Filter    ChefFilter  `json:"filter"`
	Pending   int         `json:"pendingCount"`
	Preparing int         `json:"preparingCount"`
	Entries   []ChefEntry `json:"orders"`
}

func inKitchen(s orders.Status) bool {
	return s == orders.StatusPending || s == orders.StatusConfirmed || s == orders.StatusPreparing
}

// BuildChefQueue lists the orders still in the kitchen. Priority is derived
// from now on every call.
func BuildChefQueue(all []orders.Order, filter ChefFilter, now time.Time) ChefQueue {
	if !filter.Valid() {
		filter = ChefAll
	}
	q := ChefQueue{Filter: filter, Entries: []ChefEntry{}}
	for _, o := range all {
		if !inKitchen(o.Status) {
			continue
		}
		switch o.Status {
		case orders.StatusPending:
			q.Pending++
		case orders.StatusPreparing:
			q.Preparing++
		}
		if filter != ChefAll && string(o.Status) != string(filter) {
			continue
		}
		q.Entries = append(q.Entries, ChefEntry{
			Order:      o,
			AgeMinutes: int(now.Sub(o.CreatedAt) / time.Minute),
			Priority:   PriorityFor(o.CreatedAt, now),
			Actions:    orders.ActionsFor(auth.RoleChef, o.Status),
		})
	}
	return q
}
