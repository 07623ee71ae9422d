package views

import (
	"sort"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

// CustomerHistory returns customerID's orders newest first.
func CustomerHistory(all []orders.Order, customerID string) []orders.Order {
	out := []orders.Order{}
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ActiveOrders keeps orders that are neither delivered nor cancelled.
func ActiveOrders(all []orders.Order) []orders.Order {
	out := []orders.Order{}
	for _, o := range all {
		if o.IsActive() {
			out = append(out, o)
		}
	}
	return out
}
