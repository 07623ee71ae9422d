package orders

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
)

// DefaultDeliveryFee is added to delivery orders.
var DefaultDeliveryFee = decimal.NewFromInt(25)

// Customer is the denormalized snapshot copied onto an order.
type Customer struct {
	ID    string
	Name  string
	Phone string
}

// Request holds the checkout choices made by the customer.
type Request struct {
	Type            Type
	DeliveryAddress string
	ScheduledTime   *time.Time
}

// Compose builds a pending order from cart lines. It performs no I/O.
func Compose(id string, c Customer, lines []cart.Line, req Request, deliveryFee decimal.Decimal, now time.Time) (Order, error) {
	if !req.Type.Valid() {
		return Order{}, apperr.Validation("unknown order type %q", req.Type)
	}
	address := strings.TrimSpace(req.DeliveryAddress)
	if req.Type == TypeDelivery && address == "" {
		return Order{}, apperr.Validation("delivery address is required for delivery orders")
	}
	if req.Type != TypeDelivery {
		address = ""
	}
	if req.ScheduledTime != nil && !req.ScheduledTime.After(now) {
		return Order{}, apperr.Validation("scheduled time must be in the future")
	}
	if len(lines) == 0 {
		return Order{}, apperr.ErrEmptyCart
	}

	items := make([]Item, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return Order{}, apperr.Validation("quantity for %s must be at least 1", l.Item.Name)
		}
		it := Item{
			MenuItemID:     l.Item.ID,
			Name:           l.Item.Name,
			Price:          l.Item.Price,
			Quantity:       l.Quantity,
			Customizations: slices.Clone(l.Customizations),
			Image:          l.Item.Image,
		}
		items = append(items, it)
		total = total.Add(it.Total())
	}
	if req.Type == TypeDelivery {
		total = total.Add(deliveryFee)
	}

	return Order{
		ID:              id,
		CustomerID:      c.ID,
		CustomerName:    c.Name,
		CustomerPhone:   c.Phone,
		Items:           items,
		Total:           total,
		Status:          StatusPending,
		Type:            req.Type,
		DeliveryAddress: address,
		ScheduledTime:   req.ScheduledTime,
		CreatedAt:       now,
		UpdatedAt:       now,
		PaymentStatus:   PaymentPending,
	}, nil
}
