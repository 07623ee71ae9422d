package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/metrics"
)

// Engine applies lifecycle transitions and assignments on behalf of an actor.
type Engine struct {
	store   *Store
	events  events.Publisher
	metrics metrics.Recorder
	log     *slog.Logger
	nowFunc func() time.Time
}

func NewEngine(store *Store, pub events.Publisher, rec metrics.Recorder, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		events:  pub,
		metrics: rec,
		log:     log,
		nowFunc: time.Now,
	}
}

// CanView reports whether actor may see o. Customers only see their own orders.
func CanView(actor auth.Actor, o Order) bool {
	if actor.Role == auth.RoleCustomer {
		return o.CustomerID == actor.UserID
	}
	return actor.Role.Valid()
}

// Get returns an order visible to actor. Orders of other customers look missing.
func (e *Engine) Get(ctx context.Context, actor auth.Actor, id string) (Order, error) {
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanView(actor, o) {
		return Order{}, apperr.NotFound("order", id)
	}
	return o, nil
}

// List returns the orders actor may see, filtered by status when given.
func (e *Engine) List(ctx context.Context, actor auth.Actor, status Status) ([]Order, error) {
	q := Query{Status: status}
	if actor.Role == auth.RoleCustomer {
		q.CustomerID = actor.UserID
	}
	return e.store.List(ctx, q)
}

func writeErr(op string, err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	return apperr.ExternalWrite(op, err)
}

func authorize(actor auth.Actor, o Order, target Status) error {
	if !RolePermits(actor.Role, o.Status, target) {
		return fmt.Errorf("%w: role %s may not move an order from %s to %s",
			apperr.ErrPermissionDenied, actor.Role, o.Status, target)
	}
	if actor.Role == auth.RoleDelivery && o.AssignedDeliveryStaff != actor.UserID {
		return fmt.Errorf("%w: order %s is not assigned to you", apperr.ErrPermissionDenied, o.ID)
	}
	return nil
}

// ApplyTransition moves an order to target. Only status and updatedAt change;
// assignments survive cancellation.
func (e *Engine) ApplyTransition(ctx context.Context, actor auth.Actor, id string, target Status) (Order, error) {
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, target) {
		return Order{}, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, o.Status, target)
	}
	if err := authorize(actor, o, target); err != nil {
		return Order{}, err
	}

	now := e.nowFunc()
	if err := e.store.UpdateStatus(ctx, id, o.Status, target, now); err != nil {
		if errors.Is(err, ErrStatusMismatch) {
			return Order{}, fmt.Errorf("%w: order %s changed while updating to %s", apperr.ErrInvalidTransition, id, target)
		}
		return Order{}, writeErr("update order status", err)
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = now

	e.log.Info("order status changed",
		slog.String("action", "apply_transition"),
		slog.String("order_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(target)),
		slog.String("actor_id", actor.UserID),
		slog.String("actor_role", string(actor.Role)))

	ev := events.New(events.StatusChanged, id, now)
	ev.OldStatus, ev.NewStatus = string(from), string(target)
	e.emit(ctx, actor, ev)
	if err := e.metrics.StatusChanged(ctx, string(from), string(target)); err != nil {
		e.log.Warn("metric failed", slog.String("action", "apply_transition"), slog.Any("error", err))
	}
	return o, nil
}

// Assign claims a ready order for the acting delivery staff member.
// Claiming an order already held by the same member succeeds without a write.
func (e *Engine) Assign(ctx context.Context, actor auth.Actor, id string) (Order, error) {
	if actor.Role != auth.RoleDelivery {
		return Order{}, fmt.Errorf("%w: only delivery staff can claim orders", apperr.ErrPermissionDenied)
	}
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if err := checkClaim(actor, o); err != nil || o.AssignedDeliveryStaff == actor.UserID {
		return o, err
	}

	now := e.nowFunc()
	if err := e.store.AssignDelivery(ctx, id, actor.UserID, now); err != nil {
		if !errors.Is(err, ErrStatusMismatch) {
			return Order{}, writeErr("assign delivery staff", err)
		}
		// someone else changed the order first; report what they did
		latest, getErr := e.store.Get(ctx, id)
		if getErr != nil {
			return Order{}, getErr
		}
		if err := checkClaim(actor, latest); err != nil || latest.AssignedDeliveryStaff == actor.UserID {
			return latest, err
		}
		return Order{}, fmt.Errorf("%w: order %s changed while claiming", apperr.ErrAssignmentConflict, id)
	}

	o.AssignedDeliveryStaff = actor.UserID
	o.UpdatedAt = now
	e.log.Info("order claimed for delivery",
		slog.String("action", "assign_delivery"),
		slog.String("order_id", id),
		slog.String("staff_id", actor.UserID))

	ev := events.New(events.OrderAssigned, id, now)
	ev.Detail = "delivery:" + actor.UserID
	e.emit(ctx, actor, ev)
	return o, nil
}

func checkClaim(actor auth.Actor, o Order) error {
	if o.AssignedDeliveryStaff != "" && o.AssignedDeliveryStaff != actor.UserID {
		return fmt.Errorf("%w: order %s is already assigned", apperr.ErrAssignmentConflict, o.ID)
	}
	if o.AssignedDeliveryStaff == "" && o.Status != StatusReady {
		return fmt.Errorf("%w: only ready orders can be claimed, order %s is %s",
			apperr.ErrInvalidTransition, o.ID, o.Status)
	}
	return nil
}

// AssignChef records which chef handles an order. Admin only.
func (e *Engine) AssignChef(ctx context.Context, actor auth.Actor, id, chefID string) (Order, error) {
	if actor.Role != auth.RoleAdmin {
		return Order{}, fmt.Errorf("%w: only admins assign chefs", apperr.ErrPermissionDenied)
	}
	chefID = strings.TrimSpace(chefID)
	if chefID == "" {
		return Order{}, apperr.Validation("chef id is required")
	}
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	now := e.nowFunc()
	if err := e.store.SetChef(ctx, id, chefID, now); err != nil {
		return Order{}, writeErr("assign chef", err)
	}
	o.AssignedChef = chefID
	o.UpdatedAt = now

	ev := events.New(events.OrderAssigned, id, now)
	ev.Detail = "chef:" + chefID
	e.emit(ctx, actor, ev)
	return o, nil
}

// SetPaymentStatus overrides the payment status. Admin only.
func (e *Engine) SetPaymentStatus(ctx context.Context, actor auth.Actor, id string, ps PaymentStatus) (Order, error) {
	if actor.Role != auth.RoleAdmin {
		return Order{}, fmt.Errorf("%w: only admins change payment status", apperr.ErrPermissionDenied)
	}
	if !ps.Valid() {
		return Order{}, apperr.Validation("unknown payment status %q", ps)
	}
	o, err := e.store.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	now := e.nowFunc()
	if err := e.store.SetPaymentStatus(ctx, id, "", ps, now); err != nil {
		return Order{}, writeErr("update payment status", err)
	}
	o.PaymentStatus = ps
	o.UpdatedAt = now

	ev := events.New(events.PaymentUpdated, id, now)
	ev.Detail = string(ps)
	e.emit(ctx, actor, ev)
	return o, nil
}

// emit publishes after the change is stored; a failed publish is logged only.
func (e *Engine) emit(ctx context.Context, actor auth.Actor, ev events.Event) {
	ev.ActorID, ev.ActorRole = actor.UserID, string(actor.Role)
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.Warn("event publish failed",
			slog.String("action", "publish_event"),
			slog.String("event_type", string(ev.Type)),
			slog.String("order_id", ev.OrderID),
			slog.Any("error", err))
	}
}
