package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{
	StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
	StatusDispatched, StatusDelivered, StatusCancelled,
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Type is how the customer receives the order.
type Type string

const (
	TypeDineIn   Type = "dine-in"
	TypeTakeaway Type = "takeaway"
	TypeDelivery Type = "delivery"
)

var Types = []Type{TypeDineIn, TypeTakeaway, TypeDelivery}

func (t Type) Valid() bool {
	switch t {
	case TypeDineIn, TypeTakeaway, TypeDelivery:
		return true
	}
	return false
}

// PaymentStatus is tracked independently of Status.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Item is a snapshot of a menu item taken when the order was placed.
type Item struct {
	MenuItemID     string          `json:"menuItemId"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Customizations []string        `json:"customizations"`
	Image          string          `json:"image,omitempty"`
}

func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is never deleted; Items are fixed at creation.
type Order struct {
	ID                    string          `json:"id"`
	CustomerID            string          `json:"customerId"`
	CustomerName          string          `json:"customerName"`
	CustomerPhone         string          `json:"customerPhone"`
	Items                 []Item          `json:"items"`
	Total                 decimal.Decimal `json:"total"`
	Status                Status          `json:"status"`
	Type                  Type            `json:"type"`
	DeliveryAddress       string          `json:"deliveryAddress,omitempty"`
	ScheduledTime         *time.Time      `json:"scheduledTime,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	AssignedChef          string          `json:"assignedChef,omitempty"`
	AssignedDeliveryStaff string          `json:"assignedDeliveryStaff,omitempty"`
	PaymentStatus         PaymentStatus   `json:"paymentStatus"`
}

// IsActive reports whether the order is still moving through the kitchen or delivery.
func (o Order) IsActive() bool {
	return o.Status != StatusDelivered && o.Status != StatusCancelled
}
