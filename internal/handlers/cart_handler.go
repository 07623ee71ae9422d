package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

type cartLine struct {
	Index          int             `json:"index"`
	Item           menu.Item       `json:"menuItem"`
	Quantity       int             `json:"quantity"`
	Customizations []string        `json:"customizations"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	Lines     []cartLine      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func cartView(lines []cart.Line) cartResponse {
	resp := cartResponse{Lines: make([]cartLine, 0, len(lines)), Subtotal: cart.Subtotal(lines)}
	for i, l := range lines {
		resp.ItemCount += l.Quantity
		resp.Lines = append(resp.Lines, cartLine{
			Index:          i,
			Item:           l.Item,
			Quantity:       l.Quantity,
			Customizations: l.Customizations,
			LineTotal:      l.Total(),
		})
	}
	return resp
}

func (h *handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartView(h.Carts.Snapshot(actor(c).UserID)))
}

func (h *handler) addCartItem(c *gin.Context) {
	var req validation.CartAddRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	it, err := h.Catalog.Get(c.Request.Context(), req.MenuItemID)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.mutateCart(c, func(ct *cart.Cart) error {
		return ct.Add(it, req.Quantity, req.Customizations)
	})
}

func (h *handler) updateCartItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		writeError(c, h.Logger, apperr.Validation("cart index must be a number"))
		return
	}
	var req validation.CartUpdateRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	h.mutateCart(c, func(ct *cart.Cart) error {
		return ct.Update(index, req.Quantity)
	})
}

func (h *handler) clearCart(c *gin.Context) {
	h.mutateCart(c, func(ct *cart.Cart) error {
		ct.Clear()
		return nil
	})
}

func (h *handler) mutateCart(c *gin.Context, fn func(*cart.Cart) error) {
	var lines []cart.Line
	err := h.Carts.With(actor(c).UserID, func(ct *cart.Cart) error {
		if err := fn(ct); err != nil {
			return err
		}
		lines = ct.Lines()
		return nil
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, cartView(lines))
}
