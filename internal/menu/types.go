package menu

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPrepTime = 15
	DefaultImage    = "https://images.pexels.com/photos/376464/pexels-photo-376464.jpeg?auto=compress&cs=tinysrgb&w=400"
)

// Item is a menu entry. Orders snapshot its fields at placement time.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Category       string          `json:"category"`
	Image          string          `json:"image"`
	Available      bool            `json:"available"`
	Customizations []string        `json:"customizations"`
	PrepTime       int             `json:"prepTime"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Draft is the admin input for a new item. Zero PrepTime and empty Image take defaults.
type Draft struct {
	Name           string
	Description    string
	Price          decimal.Decimal
	Category       string
	Image          string
	Customizations []string
	PrepTime       int
}

// Patch overwrites the non-nil fields of an item.
type Patch struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Category       *string
	Image          *string
	Available      *bool
	Customizations *[]string
	PrepTime       *int
}

// Query filters List. Search matches name or description, case-insensitively.
type Query struct {
	Category      string
	Search        string
	AvailableOnly bool
}
