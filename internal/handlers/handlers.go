// Package handlers exposes the ordering core over HTTP with gin.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/checkout"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/events"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Sessions *auth.Manager
	Catalog  *menu.Catalog
	Carts    *cart.Registry
	Engine   *orders.Engine
	Checkout *checkout.Service
	Timeline *events.Timeline
	Logger   *slog.Logger
	// Location is the restaurant's time zone for calendar-day views.
	Location *time.Location
}

type handler struct {
	HandlerConfig
	v       *validatorv10.Validate
	nowFunc func() time.Time
}

const principalKey = "principal"

// RegisterRoutes registers every API route on r.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	registerRoutes(r, newHandler(cfg))
}

func newHandler(cfg HandlerConfig) *handler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &handler{HandlerConfig: cfg, v: validation.New(), nowFunc: time.Now}
}

func registerRoutes(r *gin.Engine, h *handler) {
	r.Use(requestLogger(h.Logger))

	r.POST("/auth/signup", h.signUp)
	r.POST("/auth/signin", h.signIn)

	authed := r.Group("/", h.authenticate)
	authed.POST("/auth/signout", h.signOut)
	authed.GET("/auth/me", h.me)

	authed.GET("/menu", h.listMenu)
	authed.GET("/menu/:id", h.getMenuItem)
	authed.POST("/menu", requireRole(auth.RoleAdmin), h.createMenuItem)
	authed.PATCH("/menu/:id", requireRole(auth.RoleAdmin), h.updateMenuItem)
	authed.DELETE("/menu/:id", requireRole(auth.RoleAdmin), h.deleteMenuItem)

	shopper := authed.Group("/cart", requireRole(auth.RoleCustomer))
	shopper.GET("", h.getCart)
	shopper.POST("/items", h.addCartItem)
	shopper.PATCH("/items/:index", h.updateCartItem)
	shopper.DELETE("", h.clearCart)

	authed.POST("/orders", requireRole(auth.RoleCustomer), h.placeOrder)
	authed.GET("/orders", h.listOrders)
	authed.GET("/orders/:id", h.getOrder)
	authed.GET("/orders/:id/timeline", h.orderTimeline)
	authed.POST("/orders/:id/transitions", h.transition)
	authed.POST("/orders/:id/assignment", h.assign)
	authed.POST("/orders/:id/chef", h.assignChef)
	authed.POST("/orders/:id/payment-status", h.setPaymentStatus)

	authed.GET("/dashboard", h.dashboard)
	authed.GET("/reports/sales", requireRole(auth.RoleAdmin), h.salesReport)
}

func (h *handler) now() time.Time { return h.nowFunc().In(h.Location) }

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			slog.String("action", "http_request"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}

// authenticate resolves the bearer token into a principal.
func (h *handler) authenticate(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		writeError(c, h.Logger, apperr.ErrUnauthenticated)
		c.Abort()
		return
	}
	p, err := h.Sessions.Resolve(strings.TrimSpace(token))
	if err != nil {
		writeError(c, h.Logger, err)
		c.Abort()
		return
	}
	c.Set(principalKey, p)
	c.Next()
}

func requireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := principal(c).User.Role
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":  apperr.Code(apperr.ErrPermissionDenied),
			"detail": "role " + string(role) + " cannot use this endpoint",
		})
	}
}

func principal(c *gin.Context) auth.Principal {
	p, _ := c.MustGet(principalKey).(auth.Principal)
	return p
}

func actor(c *gin.Context) auth.Actor { return principal(c).Actor() }

func statusFor(err error) int {
	switch apperr.Code(err) {
	case "validation_error", "empty_cart":
		return http.StatusBadRequest
	case "unauthenticated":
		return http.StatusUnauthorized
	case "permission_denied":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "invalid_transition", "assignment_conflict", "in_progress":
		return http.StatusConflict
	case "external_write_failure":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an error kind to its HTTP status and writes the error body.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("action", "http_request"),
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
	}
	c.JSON(status, gin.H{"error": apperr.Code(err), "detail": err.Error()})
}
