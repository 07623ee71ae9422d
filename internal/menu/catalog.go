package menu

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/auth"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Catalog manages menu items in the record store.
type Catalog struct {
	store   records.Store
	log     *slog.Logger
	nowFunc func() time.Time
	newID   func() string
}

// NewCatalog creates a Catalog.
func NewCatalog(store records.Store, log *slog.Logger) *Catalog {
	return &Catalog{
		store:   store,
		log:     log,
		nowFunc: time.Now,
		newID:   uuid.NewString,
	}
}

func requireAdmin(actor auth.Actor) error {
	if actor.Role != auth.RoleAdmin {
		return fmt.Errorf("%w: menu changes require the admin role", apperr.ErrPermissionDenied)
	}
	return nil
}

func validate(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return apperr.Validation("menu item name is required")
	}
	if it.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	if it.PrepTime <= 0 {
		return apperr.Validation("prep time must be positive")
	}
	return nil
}

// Create adds an available item, applying the default prep time and image.
func (c *Catalog) Create(ctx context.Context, actor auth.Actor, d Draft) (Item, error) {
	if err := requireAdmin(actor); err != nil {
		return Item{}, err
	}
	now := c.nowFunc()
	it := Item{
		ID:             c.newID(),
		Name:           strings.TrimSpace(d.Name),
		Description:    d.Description,
		Price:          d.Price,
		Category:       d.Category,
		Image:          d.Image,
		Available:      true,
		Customizations: d.Customizations,
		PrepTime:       d.PrepTime,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if it.PrepTime == 0 {
		it.PrepTime = DefaultPrepTime
	}
	if it.Image == "" {
		it.Image = DefaultImage
	}
	if it.Customizations == nil {
		it.Customizations = []string{}
	}
	if err := validate(it); err != nil {
		return Item{}, err
	}
	if err := c.insert(ctx, it); err != nil {
		return Item{}, err
	}
	c.log.Info("menu item created", slog.String("action", "menu_create"), slog.String("item_id", it.ID))
	return it, nil
}

func (c *Catalog) insert(ctx context.Context, it Item) error {
	rec, err := toRecord(it)
	if err != nil {
		return err
	}
	if _, err := c.store.Insert(ctx, Table, rec); err != nil {
		return apperr.ExternalWrite("insert menu item", err)
	}
	return nil
}

// Get returns a live (not deleted) item.
func (c *Catalog) Get(ctx context.Context, id string) (Item, error) {
	rec, err := c.store.Get(ctx, Table, id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return Item{}, apperr.NotFound("menu item", id)
		}
		return Item{}, fmt.Errorf("get menu item: %w", err)
	}
	it, deleted, err := fromRecord(rec)
	if err != nil {
		return Item{}, err
	}
	if deleted {
		return Item{}, apperr.NotFound("menu item", id)
	}
	return it, nil
}

// Update overwrites the patched fields in place.
func (c *Catalog) Update(ctx context.Context, actor auth.Actor, id string, p Patch) (Item, error) {
	if err := requireAdmin(actor); err != nil {
		return Item{}, err
	}
	it, err := c.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.Available != nil {
		it.Available = *p.Available
	}
	if p.Customizations != nil {
		it.Customizations = *p.Customizations
	}
	if p.PrepTime != nil {
		it.PrepTime = *p.PrepTime
	}
	if err := validate(it); err != nil {
		return Item{}, err
	}
	it.UpdatedAt = c.nowFunc()

	rec, err := toRecord(it)
	if err != nil {
		return Item{}, err
	}
	delete(rec, "id")
	delete(rec, "created_at")
	if err := c.store.Update(ctx, Table, id, rec); err != nil {
		if errors.Is(err, records.ErrNotFound) {
			return Item{}, apperr.NotFound("menu item", id)
		}
		return Item{}, apperr.ExternalWrite("update menu item", err)
	}
	return it, nil
}

// Delete hides an item from the menu. The row is kept because placed orders
// reference it by id.
func (c *Catalog) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := c.Get(ctx, id); err != nil {
		return err
	}
	now := c.nowFunc().UTC()
	patch := records.Record{"deleted_at": now, "available": false, "updated_at": now}
	if err := c.store.Update(ctx, Table, id, patch); err != nil {
		return apperr.ExternalWrite("delete menu item", err)
	}
	c.log.Info("menu item deleted", slog.String("action", "menu_delete"), slog.String("item_id", id))
	return nil
}

// List returns live items matching q in store order.
func (c *Catalog) List(ctx context.Context, q Query) ([]Item, error) {
	filter := records.Filter{}
	if q.Category != "" && q.Category != "all" {
		filter["category"] = q.Category
	}
	if q.AvailableOnly {
		filter["available"] = true
	}
	recs, err := c.store.Select(ctx, Table, filter)
	if err != nil {
		return nil, fmt.Errorf("select menu items: %w", err)
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Item, 0, len(recs))
	for _, rec := range recs {
		it, deleted, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Description), search) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// Categories returns the distinct categories of items, first occurrence first.
func Categories(items []Item) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, it.Category)
		}
	}
	return out
}

// Seed inserts items that are not present yet. Used for local runs.
func (c *Catalog) Seed(ctx context.Context, items []Item) error {
	for _, it := range items {
		rec, err := toRecord(it)
		if err != nil {
			return err
		}
		if _, err := c.store.Insert(ctx, Table, rec); err != nil && !errors.Is(err, records.ErrConflict) {
			return apperr.ExternalWrite("seed menu item", err)
		}
	}
	return nil
}

func mustPrice(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
