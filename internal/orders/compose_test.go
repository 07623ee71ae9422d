package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/cart"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/menu"
)

var (
	burger = menu.Item{ID: "flame-burger", Name: "Ubuntu Flame Burger", Price: decimal.RequireFromString("89.50"), Available: true, Image: "burger.jpg"}
	braai  = menu.Item{ID: "braai-platter", Name: "Traditional Braai Platter", Price: decimal.RequireFromString("195.00"), Available: true}
	thandi = Customer{ID: "cust-1", Name: "Thandi", Phone: "+27 82 555 0101"}
	noon   = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
)

func sampleLines() []cart.Line {
	return []cart.Line{
		{Item: burger, Quantity: 1, Customizations: []string{"Extra Cheese"}},
		{Item: braai, Quantity: 2},
	}
}

func TestCompose_DeliveryTotal(t *testing.T) {
	o, err := Compose("o1", thandi, sampleLines(), Request{Type: TypeDelivery, DeliveryAddress: "12 Long Street"}, DefaultDeliveryFee, noon)
	require.NoError(t, err)

	assert.True(t, o.Total.Equal(decimal.RequireFromString("504.50")), o.Total.String())
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, "Thandi", o.CustomerName)
	assert.Equal(t, "+27 82 555 0101", o.CustomerPhone)
	assert.Equal(t, noon, o.CreatedAt)
	assert.Equal(t, noon, o.UpdatedAt)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "burger.jpg", o.Items[0].Image)
	assert.Equal(t, []string{"Extra Cheese"}, o.Items[0].Customizations)
	assert.Empty(t, o.AssignedDeliveryStaff)
}

func TestCompose_FeeOnlyForDelivery(t *testing.T) {
	for _, typ := range []Type{TypeDineIn, TypeTakeaway} {
		o, err := Compose("o1", thandi, sampleLines(), Request{Type: typ, DeliveryAddress: "ignored"}, DefaultDeliveryFee, noon)
		require.NoError(t, err)
		assert.True(t, o.Total.Equal(decimal.RequireFromString("479.50")), typ)
		assert.Empty(t, o.DeliveryAddress, typ)
	}
}

func TestCompose_TotalEqualsLineSum(t *testing.T) {
	lines := []cart.Line{
		{Item: menu.Item{ID: "a", Price: decimal.RequireFromString("0.10")}, Quantity: 3},
		{Item: menu.Item{ID: "b", Price: decimal.RequireFromString("33.33")}, Quantity: 7},
		{Item: menu.Item{ID: "c", Price: decimal.Zero}, Quantity: 1},
	}
	fee := decimal.RequireFromString("12.5")
	o, err := Compose("o1", thandi, lines, Request{Type: TypeDelivery, DeliveryAddress: "x"}, fee, noon)
	require.NoError(t, err)

	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.True(t, o.Total.Equal(sum.Add(fee)))
	assert.Equal(t, "246.11", o.Total.StringFixed(2))
}

func TestCompose_Validation(t *testing.T) {
	past := noon.Add(-time.Minute)
	future := noon.Add(2 * time.Hour)

	_, err := Compose("o1", thandi, sampleLines(), Request{Type: TypeDelivery, DeliveryAddress: "   "}, DefaultDeliveryFee, noon)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Compose("o1", thandi, sampleLines(), Request{Type: "drive-thru"}, DefaultDeliveryFee, noon)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Compose("o1", thandi, sampleLines(), Request{Type: TypeTakeaway, ScheduledTime: &past}, DefaultDeliveryFee, noon)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = Compose("o1", thandi, nil, Request{Type: TypeTakeaway}, DefaultDeliveryFee, noon)
	assert.ErrorIs(t, err, apperr.ErrEmptyCart)

	o, err := Compose("o1", thandi, sampleLines(), Request{Type: TypeTakeaway, ScheduledTime: &future}, DefaultDeliveryFee, noon)
	require.NoError(t, err)
	assert.Equal(t, future, *o.ScheduledTime)
}

func TestCompose_SnapshotIsIndependentOfMenu(t *testing.T) {
	lines := sampleLines()
	o, err := Compose("o1", thandi, lines, Request{Type: TypeDineIn}, DefaultDeliveryFee, noon)
	require.NoError(t, err)

	lines[0].Item.Price = decimal.NewFromInt(999)
	lines[0].Customizations[0] = "Changed"

	assert.True(t, o.Items[0].Price.Equal(decimal.RequireFromString("89.50")))
	assert.Equal(t, []string{"Extra Cheese"}, o.Items[0].Customizations)
}
