package views

import (
	"net/url"
	"strings"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

type DeliveryEntry struct {
	Order      orders.Order `json:"order"`
	AgeMinutes int          `json:"ageMinutes"`
	MapLink    string       `json:"mapLink,omitempty"`
}

// DeliveryPools partitions orders for one delivery staff member. An order
// appears in at most one pool.
type DeliveryPools struct {
	Available  []DeliveryEntry `json:"available"`
	Assigned   []DeliveryEntry `json:"assigned"`
	Delivering []DeliveryEntry `json:"delivering"`
}

// MapLink returns an external directions URL for address, or "" when blank.
func MapLink(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	q := url.Values{}
	q.Set("api", "1")
	q.Set("destination", address)
	return "https://www.google.com/maps/dir/?" + q.Encode()
}

func BuildDeliveryPools(all []orders.Order, staffID string, now time.Time) DeliveryPools {
	p := DeliveryPools{
		Available:  []DeliveryEntry{},
		Assigned:   []DeliveryEntry{},
		Delivering: []DeliveryEntry{},
	}
	for _, o := range all {
		e := DeliveryEntry{Order: o, AgeMinutes: int(now.Sub(o.CreatedAt) / time.Minute)}
		switch {
		case o.Status == orders.StatusReady && o.AssignedDeliveryStaff == "":
			p.Available = append(p.Available, e)
		case staffID == "" || o.AssignedDeliveryStaff != staffID:
			// held by someone else
		case o.Status == orders.StatusReady:
			e.MapLink = MapLink(o.DeliveryAddress)
			p.Assigned = append(p.Assigned, e)
		case o.Status == orders.StatusDispatched:
			e.MapLink = MapLink(o.DeliveryAddress)
			p.Delivering = append(p.Delivering, e)
		}
	}
	return p
}
