package orders

import (
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Table is the logical table orders are stored in.
const Table = "orders"

// Record field names used in conditional updates.
const (
	fieldStatus        = "status"
	fieldUpdatedAt     = "updated_at"
	fieldDeliveryStaff = "assigned_delivery_staff"
	fieldChef          = "assigned_chef"
	fieldPaymentStatus = "payment_status"
)

type itemRecord struct {
	MenuItemID     string   `json:"menu_item_id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Quantity       int      `json:"quantity"`
	Customizations []string `json:"customizations"`
	Image          string   `json:"image,omitempty"`
}

type orderRecord struct {
	ID                    string       `json:"id"`
	CustomerID            string       `json:"customer_id"`
	CustomerName          string       `json:"customer_name"`
	CustomerPhone         string       `json:"customer_phone"`
	Items                 []itemRecord `json:"items"`
	Total                 float64      `json:"total"`
	Status                string       `json:"status"`
	Type                  string       `json:"type"`
	DeliveryAddress       string       `json:"delivery_address,omitempty"`
	ScheduledTime         *time.Time   `json:"scheduled_time,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
	AssignedChef          string       `json:"assigned_chef,omitempty"`
	AssignedDeliveryStaff string       `json:"assigned_delivery_staff,omitempty"`
	PaymentStatus         string       `json:"payment_status"`
}

func toRecord(o Order) (records.Record, error) {
	items := make([]itemRecord, 0, len(o.Items))
	for _, it := range o.Items {
		custom := it.Customizations
		if custom == nil {
			custom = []string{}
		}
		items = append(items, itemRecord{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Price:          it.Price.InexactFloat64(),
			Quantity:       it.Quantity,
			Customizations: custom,
			Image:          it.Image,
		})
	}
	var scheduled *time.Time
	if o.ScheduledTime != nil {
		t := o.ScheduledTime.UTC()
		scheduled = &t
	}
	return records.Encode(orderRecord{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		CustomerName:          o.CustomerName,
		CustomerPhone:         o.CustomerPhone,
		Items:                 items,
		Total:                 o.Total.InexactFloat64(),
		Status:                string(o.Status),
		Type:                  string(o.Type),
		DeliveryAddress:       o.DeliveryAddress,
		ScheduledTime:         scheduled,
		CreatedAt:             o.CreatedAt.UTC(),
		UpdatedAt:             o.UpdatedAt.UTC(),
		AssignedChef:          o.AssignedChef,
		AssignedDeliveryStaff: o.AssignedDeliveryStaff,
		PaymentStatus:         string(o.PaymentStatus),
	})
}

func fromRecord(rec records.Record) (Order, error) {
	var r orderRecord
	if err := records.Decode(rec, &r); err != nil {
		return Order{}, err
	}
	items := make([]Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, Item{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Price:          records.Money(it.Price),
			Quantity:       it.Quantity,
			Customizations: it.Customizations,
			Image:          it.Image,
		})
	}
	return Order{
		ID:                    r.ID,
		CustomerID:            r.CustomerID,
		CustomerName:          r.CustomerName,
		CustomerPhone:         r.CustomerPhone,
		Items:                 items,
		Total:                 records.Money(r.Total),
		Status:                Status(r.Status),
		Type:                  Type(r.Type),
		DeliveryAddress:       r.DeliveryAddress,
		ScheduledTime:         r.ScheduledTime,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
		AssignedChef:          r.AssignedChef,
		AssignedDeliveryStaff: r.AssignedDeliveryStaff,
		PaymentStatus:         PaymentStatus(r.PaymentStatus),
	}, nil
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }
