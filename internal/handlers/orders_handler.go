package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/payments"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

// placeOrder checks out the caller's cart. An Idempotency-Key header makes
// retries return the first result instead of placing a second order.
func (h *handler) placeOrder(c *gin.Context) {
	var req validation.PlaceOrderRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		// BindAndValidate already wrote a 400
		return
	}

	rcpt, err := h.Checkout.PlaceOrder(c.Request.Context(), principal(c), checkout.Request{
		Order: orders.Request{
			Type:            orders.Type(req.Type),
			DeliveryAddress: req.DeliveryAddress,
			ScheduledTime:   req.ScheduledTime,
		},
		Payment: payments.Details{
			Method:         payments.Method(req.Payment.Method),
			CardNumber:     req.Payment.CardNumber,
			CardHolderName: req.Payment.CardHolderName,
			Expiry:         req.Payment.Expiry,
			CVV:            req.Payment.CVV,
			WalletNumber:   req.Payment.WalletNumber,
		},
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/orders/%s", rcpt.Order.ID))
	status := http.StatusCreated
	if rcpt.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, rcpt)
}

func (h *handler) listOrders(c *gin.Context) {
	status := orders.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		writeError(c, h.Logger, apperr.Validation("unknown status %q", status))
		return
	}
	list, err := h.Engine.List(c.Request.Context(), actor(c), status)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *handler) getOrder(c *gin.Context) {
	o, err := h.Engine.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":       o,
		"allowedNext": orders.ActionsFor(actor(c).Role, o.Status),
	})
}

func (h *handler) orderTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	o, err := h.Engine.Get(ctx, actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	evs, err := h.Timeline.For(ctx, o.ID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": o.ID, "events": evs})
}

func (h *handler) transition(c *gin.Context) {
	var req validation.TransitionRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.Engine.ApplyTransition(c.Request.Context(), actor(c), c.Param("id"), orders.Status(req.Status))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handler) assign(c *gin.Context) {
	o, err := h.Engine.Assign(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handler) assignChef(c *gin.Context) {
	var req validation.ChefAssignmentRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.Engine.AssignChef(c.Request.Context(), actor(c), c.Param("id"), req.ChefID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handler) setPaymentStatus(c *gin.Context) {
	var req validation.PaymentStatusRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	o, err := h.Engine.SetPaymentStatus(c.Request.Context(), actor(c), c.Param("id"), orders.PaymentStatus(req.PaymentStatus))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
