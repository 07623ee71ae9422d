package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/validation"
)

// listMenu supports ?category=, ?q= and ?available=true. Customers only see
// available items.
func (h *handler) listMenu(c *gin.Context) {
	q := menu.Query{Category: c.Query("category"), Search: c.Query("q")}
	if s := c.Query("available"); s != "" {
		only, err := strconv.ParseBool(s)
		if err != nil {
			writeError(c, h.Logger, apperr.Validation("available must be a boolean"))
			return
		}
		q.AvailableOnly = only
	}
	if actor(c).Role == auth.RoleCustomer {
		q.AvailableOnly = true
	}
	items, err := h.Catalog.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "categories": menu.Categories(items)})
}

func (h *handler) getMenuItem(c *gin.Context) {
	it, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handler) createMenuItem(c *gin.Context) {
	var req validation.MenuItemRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	it, err := h.Catalog.Create(c.Request.Context(), actor(c), menu.Draft{
		Name:           req.Name,
		Description:    req.Description,
		Price:          decimal.NewFromFloat(req.Price),
		Category:       req.Category,
		Image:          req.Image,
		Customizations: req.Customizations,
		PrepTime:       req.PrepTime,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Header("Location", "/menu/"+it.ID)
	c.JSON(http.StatusCreated, it)
}

func (h *handler) updateMenuItem(c *gin.Context) {
	var req validation.MenuPatchRequest
	if err := validation.BindAndValidate(c, &req, h.v); err != nil {
		return
	}
	p := menu.Patch{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Image:          req.Image,
		Available:      req.Available,
		Customizations: req.Customizations,
		PrepTime:       req.PrepTime,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		p.Price = &price
	}
	it, err := h.Catalog.Update(c.Request.Context(), actor(c), c.Param("id"), p)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *handler) deleteMenuItem(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
