// Package checkout turns a customer's cart into a stored, paid order.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/idempotency"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/payments"
)

// Deps groups the collaborators of a Service. Idempotency may be nil.
type Deps struct {
	Orders      *orders.Store
	Payments    *payments.Ledger
	Carts       *cart.Registry
	Idempotency *idempotency.Store
	Events      events.Publisher
	Metrics     metrics.Recorder
	Logger      *slog.Logger
	DeliveryFee decimal.Decimal
}

type Service struct {
	Deps
	nowFunc func() time.Time
	newID   func() (string, error)
}

func NewService(d Deps) *Service {
	if d.Events == nil {
		d.Events = events.Nop{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	return &Service{Deps: d, nowFunc: time.Now, newID: newOrderID}
}

func newOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Request is everything the customer chose at checkout.
type Request struct {
	Order          orders.Request
	Payment        payments.Details
	IdempotencyKey string
}

// Receipt is returned for a placed order. Replayed is set when an earlier
// request with the same idempotency key already placed it.
type Receipt struct {
	Order    orders.Order     `json:"order"`
	Payment  payments.Payment `json:"payment"`
	Replayed bool             `json:"replayed"`
}

// PlaceOrder composes the caller's cart into an order, stores it, records the
// payment and marks the order paid. A failed write is not rolled back; a retry
// with the same idempotency key continues the stored order instead.
func (s *Service) PlaceOrder(ctx context.Context, p auth.Principal, req Request) (Receipt, error) {
	actor := p.Actor()
	if actor.Role != auth.RoleCustomer {
		return Receipt{}, fmt.Errorf("%w: only customers place orders", apperr.ErrPermissionDenied)
	}
	if !req.Payment.Method.Valid() {
		return Receipt{}, apperr.Validation("unknown payment method %q", req.Payment.Method)
	}
	orderID, err := s.newID()
	if err != nil {
		return Receipt{}, fmt.Errorf("generate order id: %w", err)
	}

	key, resume := "", false
	if k := strings.TrimSpace(req.IdempotencyKey); k != "" && s.Idempotency != nil {
		key = actor.UserID + ":" + k
		var replay *Receipt
		replay, orderID, resume, err = s.claim(ctx, key, orderID)
		if err != nil {
			return Receipt{}, err
		}
		if replay != nil {
			return *replay, nil
		}
	}

	rcpt, err := s.place(ctx, p, orderID, resume, req)
	if err != nil {
		if key != "" {
			if mErr := s.Idempotency.MarkFailed(ctx, key, err.Error()); mErr != nil {
				s.Logger.Warn("mark idempotency failed", slog.String("action", "place_order"), slog.Any("error", mErr))
			}
		}
		return Receipt{}, err
	}

	if key != "" {
		body, _ := json.Marshal(rcpt)
		if err := s.Idempotency.MarkDone(ctx, key, string(body), http.StatusCreated); err != nil {
			s.Logger.Warn("mark idempotency done", slog.String("action", "place_order"), slog.Any("error", err))
		}
	}
	return rcpt, nil
}

// claim reserves key for orderID. It returns the stored receipt when the key
// already completed, or ErrInProgress while another attempt holds it. A key
// whose earlier attempt failed is restarted under that attempt's order id, and
// resume is set so the caller continues that order.
func (s *Service) claim(ctx context.Context, key, orderID string) (replay *Receipt, id string, resume bool, err error) {
	created, err := s.Idempotency.CreateIfNotExists(ctx, key, orderID)
	if err != nil {
		return nil, "", false, apperr.ExternalWrite("create idempotency record", err)
	}
	if created {
		return nil, orderID, false, nil
	}

	rec, err := s.Idempotency.Get(ctx, key)
	if err != nil {
		return nil, "", false, apperr.ExternalWrite("read idempotency record", err)
	}
	if rec == nil {
		return nil, "", false, fmt.Errorf("%w: idempotency record vanished", apperr.ErrInProgress)
	}
	if rec.Status == idempotency.StatusDone && !rec.Expired(s.nowFunc()) {
		var rcpt Receipt
		if err := json.Unmarshal([]byte(rec.ResponseBody), &rcpt); err != nil {
			return nil, "", false, fmt.Errorf("decode stored receipt: %w", err)
		}
		rcpt.Replayed = true
		s.Logger.Info("idempotent replay",
			slog.String("action", "place_order"),
			slog.String("order_id", rcpt.Order.ID))
		return &rcpt, rcpt.Order.ID, false, nil
	}

	restarted, err := s.Idempotency.Restart(ctx, *rec)
	if err != nil {
		return nil, "", false, apperr.ExternalWrite("restart idempotency record", err)
	}
	if !restarted {
		return nil, "", false, fmt.Errorf("%w: order %s is still being placed", apperr.ErrInProgress, rec.OrderID)
	}
	if rec.OrderID == "" {
		return nil, orderID, false, nil
	}
	return nil, rec.OrderID, true, nil
}

func (s *Service) place(ctx context.Context, p auth.Principal, orderID string, resume bool, req Request) (Receipt, error) {
	now := s.nowFunc()

	var (
		o     orders.Order
		lines []cart.Line
		err   error
	)
	if resume {
		o, lines, err = s.resumeOrder(ctx, p, orderID)
		if err != nil {
			return Receipt{}, err
		}
	}
	if o.ID == "" {
		lines = s.Carts.Snapshot(p.User.ID)
		customer := orders.Customer{ID: p.User.ID, Name: p.User.Name, Phone: p.User.Phone}
		o, err = orders.Compose(orderID, customer, lines, req.Order, s.DeliveryFee, now)
		if err != nil {
			return Receipt{}, err
		}
		if err := s.Orders.Create(ctx, o); err != nil {
			return Receipt{}, apperr.ExternalWrite("insert order", err)
		}
	}

	pay, err := s.recordPayment(ctx, p, o, resume, req.Payment)
	if err != nil {
		s.Logger.Error("payment not recorded, order left pending",
			slog.String("action", "place_order"),
			slog.String("order_id", o.ID),
			slog.Any("error", err))
		return Receipt{}, err
	}
	if o.PaymentStatus != orders.PaymentPaid {
		if err := s.Orders.SetPaymentStatus(ctx, o.ID, o.PaymentStatus, orders.PaymentPaid, now); err != nil {
			return Receipt{}, apperr.ExternalWrite("mark order paid", err)
		}
		o.PaymentStatus = orders.PaymentPaid
	}

	_ = s.Carts.With(p.User.ID, func(c *cart.Cart) error {
		c.Subtract(lines)
		return nil
	})

	s.Logger.Info("order placed",
		slog.String("action", "place_order"),
		slog.String("order_id", o.ID),
		slog.String("customer_id", o.CustomerID),
		slog.String("type", string(o.Type)),
		slog.String("total", o.Total.StringFixed(2)))

	ev := events.New(events.OrderPlaced, o.ID, now)
	ev.NewStatus = string(o.Status)
	ev.ActorID, ev.ActorRole = p.User.ID, string(p.User.Role)
	ev.Detail = string(o.Type)
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Logger.Warn("event publish failed", slog.String("action", "place_order"), slog.Any("error", err))
	}
	if err := s.Metrics.OrderPlaced(ctx, string(o.Type), o.Total.InexactFloat64()); err != nil {
		s.Logger.Warn("metric failed", slog.String("action", "place_order"), slog.Any("error", err))
	}
	return Receipt{Order: o, Payment: pay}, nil
}

// resumeOrder loads the order an earlier attempt under the same key stored.
// A zero order means that attempt never got as far as the order write.
func (s *Service) resumeOrder(ctx context.Context, p auth.Principal, orderID string) (orders.Order, []cart.Line, error) {
	o, err := s.Orders.Get(ctx, orderID)
	if errors.Is(err, apperr.ErrNotFound) {
		return orders.Order{}, nil, nil
	}
	if err != nil {
		return orders.Order{}, nil, apperr.ExternalWrite("read order", err)
	}
	if o.CustomerID != p.User.ID {
		return orders.Order{}, nil, fmt.Errorf("%w: order %s belongs to another customer", apperr.ErrPermissionDenied, orderID)
	}
	s.Logger.Info("resuming order",
		slog.String("action", "place_order"),
		slog.String("order_id", o.ID),
		slog.String("payment_status", string(o.PaymentStatus)))

	lines := make([]cart.Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, cart.Line{
			Item:           menu.Item{ID: it.MenuItemID, Name: it.Name, Price: it.Price},
			Quantity:       it.Quantity,
			Customizations: it.Customizations,
		})
	}
	return o, lines, nil
}

// recordPayment writes the payment, or returns the one a resumed attempt
// already wrote.
func (s *Service) recordPayment(ctx context.Context, p auth.Principal, o orders.Order, resume bool, d payments.Details) (payments.Payment, error) {
	if resume {
		prior, err := s.Payments.ForOrder(ctx, o.ID)
		if err != nil {
			return payments.Payment{}, apperr.ExternalWrite("read payments", err)
		}
		if len(prior) > 0 {
			return prior[0], nil
		}
	}
	return s.Payments.Record(ctx, o.ID, p.User.ID, o.Total, d)
}
