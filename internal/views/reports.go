package views

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/orders"
)

type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

const (
	topItemsLimit = 5
	dailyLimit    = 7
)

// ParseWindow defaults an empty value to today.
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case "":
		return WindowToday, nil
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
		return w, nil
	}
	return "", apperr.Validation("unknown report window %q", s)
}

// Start returns the earliest createdAt included in w, anchored at local
// midnight of now. The zero time means no lower bound.
func (w Window) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch w {
	case WindowToday:
		return midnight
	case WindowWeek:
		return midnight.Add(-7 * 24 * time.Hour)
	case WindowMonth:
		return midnight.Add(-30 * 24 * time.Hour)
	}
	return time.Time{}
}

type ItemSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type DaySales struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

type SalesReport struct {
	Window            Window              `json:"window"`
	Revenue           decimal.Decimal     `json:"revenue"`
	TotalOrders       int                 `json:"totalOrders"`
	CompletedOrders   int                 `json:"completedOrders"`
	AverageOrderValue decimal.Decimal     `json:"averageOrderValue"`
	TypeBreakdown     map[orders.Type]int `json:"typeBreakdown"`
	TopItems          []ItemSales         `json:"topItems"`
	Daily             []DaySales          `json:"daily"`
}

// BuildSalesReport aggregates the orders created inside w. Revenue only counts
// delivered orders.
func BuildSalesReport(all []orders.Order, w Window, now time.Time) SalesReport {
	start := w.Start(now)
	r := SalesReport{
		Window:            w,
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TypeBreakdown:     map[orders.Type]int{},
		TopItems:          []ItemSales{},
		Daily:             []DaySales{},
	}

	itemIdx := map[string]int{}
	dayIdx := map[string]int{}
	for _, o := range all {
		if !start.IsZero() && o.CreatedAt.Before(start) {
			continue
		}
		delivered := o.Status == orders.StatusDelivered
		r.TotalOrders++
		r.TypeBreakdown[o.Type]++
		if delivered {
			r.CompletedOrders++
			r.Revenue = r.Revenue.Add(o.Total)
		}

		for _, it := range o.Items {
			i, ok := itemIdx[it.Name]
			if !ok {
				i = len(r.TopItems)
				itemIdx[it.Name] = i
				r.TopItems = append(r.TopItems, ItemSales{Name: it.Name})
			}
			r.TopItems[i].Quantity += it.Quantity
		}

		day := o.CreatedAt.In(now.Location()).Format(time.DateOnly)
		i, ok := dayIdx[day]
		if !ok {
			i = len(r.Daily)
			dayIdx[day] = i
			r.Daily = append(r.Daily, DaySales{Date: day, Revenue: decimal.Zero})
		}
		r.Daily[i].Orders++
		if delivered {
			r.Daily[i].Revenue = r.Daily[i].Revenue.Add(o.Total)
		}
	}

	if r.CompletedOrders > 0 {
		r.AverageOrderValue = r.Revenue.Div(decimal.NewFromInt(int64(r.CompletedOrders))).Round(2)
	}

	// stable: equal quantities keep first-seen order
	sort.SliceStable(r.TopItems, func(i, j int) bool {
		return r.TopItems[i].Quantity > r.TopItems[j].Quantity
	})
	r.TopItems = r.TopItems[:min(topItemsLimit, len(r.TopItems))]

	sort.Slice(r.Daily, func(i, j int) bool { return r.Daily[i].Date > r.Daily[j].Date })
	r.Daily = r.Daily[:min(dailyLimit, len(r.Daily))]
	return r
}
