package menu

import (
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

const Table = "menu_items"

type itemRecord struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Price          float64    `json:"price"`
	Category       string     `json:"category"`
	Image          string     `json:"image"`
	Available      bool       `json:"available"`
	Customizations []string   `json:"customizations"`
	PrepTime       int        `json:"prep_time"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}

func toRecord(it Item) (records.Record, error) {
	customizations := it.Customizations
	if customizations == nil {
		customizations = []string{}
	}
	return records.Encode(itemRecord{
		ID:             it.ID,
		Name:           it.Name,
		Description:    it.Description,
		Price:          it.Price.InexactFloat64(),
		Category:       it.Category,
		Image:          it.Image,
		Available:      it.Available,
		Customizations: customizations,
		PrepTime:       it.PrepTime,
		CreatedAt:      it.CreatedAt.UTC(),
		UpdatedAt:      it.UpdatedAt.UTC(),
	})
}

func fromRecord(rec records.Record) (Item, bool, error) {
	var r itemRecord
	if err := records.Decode(rec, &r); err != nil {
		return Item{}, false, err
	}
	return Item{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		Price:          records.Money(r.Price),
		Category:       r.Category,
		Image:          r.Image,
		Available:      r.Available,
		Customizations: r.Customizations,
		PrepTime:       r.PrepTime,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}, r.DeletedAt != nil, nil
}
