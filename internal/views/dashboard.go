// Package views derives the read-only, role-specific projections of the order
// collection. Every builder is pure: it reads a snapshot and never mutates it.
package views

import (
	"fmt"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// Snapshot is the state a dashboard is built from. Orders are in collection order.
type Snapshot struct {
	Orders []orders.Order
	Menu   []menu.Item
}

// Dashboard is one of CustomerDashboard, AdminDashboard, ChefDashboard or
// DeliveryDashboard.
type Dashboard interface {
	Role() auth.Role
	dashboard()
}

type CustomerDashboard struct {
	Active     []orders.Order `json:"activeOrders"`
	History    []orders.Order `json:"history"`
	Menu       []menu.Item    `json:"menu"`
	Categories []string       `json:"categories"`
}

type AdminDashboard struct {
	Overview AdminOverview `json:"overview"`
	Today    SalesReport   `json:"today"`
}

type ChefDashboard struct {
	Queue ChefQueue `json:"queue"`
}

type DeliveryDashboard struct {
	Pools DeliveryPools `json:"pools"`
}

func (CustomerDashboard) Role() auth.Role { return auth.RoleCustomer }
func (AdminDashboard) Role() auth.Role    { return auth.RoleAdmin }
func (ChefDashboard) Role() auth.Role     { return auth.RoleChef }
func (DeliveryDashboard) Role() auth.Role { return auth.RoleDelivery }

func (CustomerDashboard) dashboard() {}
func (AdminDashboard) dashboard()    {}
func (ChefDashboard) dashboard()     {}
func (DeliveryDashboard) dashboard() {}

// Build returns the dashboard for actor's role.
func Build(actor auth.Actor, snap Snapshot, now time.Time) (Dashboard, error) {
	switch actor.Role {
	case auth.RoleCustomer:
		history := CustomerHistory(snap.Orders, actor.UserID)
		available := []menu.Item{}
		for _, it := range snap.Menu {
			if it.Available {
				available = append(available, it)
			}
		}
		return CustomerDashboard{
			Active:     ActiveOrders(history),
			History:    history,
			Menu:       available,
			Categories: menu.Categories(available),
		}, nil
	case auth.RoleAdmin:
		return AdminDashboard{
			Overview: BuildAdminOverview(snap.Orders, snap.Menu, now),
			Today:    BuildSalesReport(snap.Orders, WindowToday, now),
		}, nil
	case auth.RoleChef:
		return ChefDashboard{Queue: BuildChefQueue(snap.Orders, ChefAll, now)}, nil
	case auth.RoleDelivery:
		return DeliveryDashboard{Pools: BuildDeliveryPools(snap.Orders, actor.UserID, now)}, nil
	}
	return nil, fmt.Errorf("%w: no dashboard for role %q", apperr.ErrPermissionDenied, actor.Role)
}
