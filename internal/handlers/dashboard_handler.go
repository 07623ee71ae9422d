package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/views"
)

func (h *handler) snapshot(c *gin.Context) (views.Snapshot, error) {
	ctx := c.Request.Context()
	list, err := h.Engine.List(ctx, actor(c), "")
	if err != nil {
		return views.Snapshot{}, err
	}
	items, err := h.Catalog.List(ctx, menu.Query{})
	if err != nil {
		return views.Snapshot{}, err
	}
	return views.Snapshot{Orders: list, Menu: items}, nil
}

// dashboard renders the caller's role dashboard. Chefs may pick a queue tab
// with ?tab=all|pending|preparing.
func (h *handler) dashboard(c *gin.Context) {
	snap, err := h.snapshot(c)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	now := h.now()
	d, err := views.Build(actor(c), snap, now)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}

	switch v := d.(type) {
	case views.CustomerDashboard:
		h.renderCustomer(c, v)
	case views.AdminDashboard:
		h.renderAdmin(c, v)
	case views.ChefDashboard:
		if tab := views.ChefFilter(c.Query("tab")); tab != "" {
			if !tab.Valid() {
				writeError(c, h.Logger, apperr.Validation("unknown tab %q", tab))
				return
			}
			v.Queue = views.BuildChefQueue(snap.Orders, tab, now)
		}
		h.renderChef(c, v)
	case views.DeliveryDashboard:
		h.renderDelivery(c, v)
	}
}

func (h *handler) renderCustomer(c *gin.Context, d views.CustomerDashboard) {
	c.JSON(http.StatusOK, gin.H{"role": d.Role(), "dashboard": d, "cart": cartView(h.Carts.Snapshot(actor(c).UserID))})
}

func (h *handler) renderAdmin(c *gin.Context, d views.AdminDashboard) {
	c.JSON(http.StatusOK, gin.H{"role": d.Role(), "dashboard": d})
}

func (h *handler) renderChef(c *gin.Context, d views.ChefDashboard) {
	c.JSON(http.StatusOK, gin.H{"role": d.Role(), "dashboard": d})
}

func (h *handler) renderDelivery(c *gin.Context, d views.DeliveryDashboard) {
	c.JSON(http.StatusOK, gin.H{"role": d.Role(), "dashboard": d})
}

func (h *handler) salesReport(c *gin.Context) {
	w, err := views.ParseWindow(c.Query("window"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	list, err := h.Engine.List(c.Request.Context(), actor(c), "")
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, views.BuildSalesReport(list, w, h.now()))
}
