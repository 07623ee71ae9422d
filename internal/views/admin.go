package views

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

const recentLimit = 5

type AdminOverview struct {
	TodayOrders        int             `json:"todayOrders"`
	TodayRevenue       decimal.Decimal `json:"todayRevenue"`
	ActiveOrders       int             `json:"activeOrders"`
	AvailableMenuItems int             `json:"availableMenuItems"`
	RecentOrders       []orders.Order  `json:"recentOrders"`
	MenuPreview        []menu.Item     `json:"menuPreview"`
}

// sameDay compares calendar dates in now's location.
func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// BuildAdminOverview summarizes the collection. Today's revenue counts every
// order placed today whatever its status; the sales report counts delivered only.
func BuildAdminOverview(all []orders.Order, items []menu.Item, now time.Time) AdminOverview {
	ov := AdminOverview{TodayRevenue: decimal.Zero}
	for _, o := range all {
		if sameDay(o.CreatedAt, now) {
			ov.TodayOrders++
			ov.TodayRevenue = ov.TodayRevenue.Add(o.Total)
		}
		if o.IsActive() {
			ov.ActiveOrders++
		}
	}
	for _, it := range items {
		if it.Available {
			ov.AvailableMenuItems++
		}
	}
	ov.RecentOrders = append([]orders.Order{}, all[:min(recentLimit, len(all))]...)
	ov.MenuPreview = append([]menu.Item{}, items[:min(recentLimit, len(items))]...)
	return ov
}
