package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

func seedOrder(t *testing.T, s *Store, id, customer string, status Status, created time.Time) Order {
	t.Helper()
	o := Order{
		ID:            id,
		CustomerID:    customer,
		CustomerName:  "name-" + customer,
		Items:         []Item{{MenuItemID: "flame-burger", Name: "Ubuntu Flame Burger", Price: decimal.RequireFromString("89.50"), Quantity: 1}},
		Total:         decimal.RequireFromString("89.50"),
		Status:        status,
		Type:          TypeTakeaway,
		CreatedAt:     created,
		UpdatedAt:     created,
		PaymentStatus: PaymentPaid,
	}
	require.NoError(t, s.Create(context.Background(), o))
	return o
}

func TestStore_CreateGetRoundTrip(t *testing.T) {
	rs := records.NewMemoryStore()
	s := NewStore(rs)
	ctx := context.Background()
	scheduled := noon.Add(3 * time.Hour)

	o, err := Compose("o1", thandi, sampleLines(), Request{Type: TypeDelivery, DeliveryAddress: "12 Long Street", ScheduledTime: &scheduled}, DefaultDeliveryFee, noon)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, o))

	raw, err := rs.Get(ctx, Table, "o1")
	require.NoError(t, err)
	assert.Equal(t, "Thandi", raw["customer_name"])
	assert.Equal(t, 504.5, raw["total"])
	assert.Equal(t, "pending", raw["payment_status"])
	assert.Equal(t, "2025-03-01T15:00:00Z", raw["scheduled_time"])
	assert.NotContains(t, raw, "assigned_delivery_staff")

	got, err := s.Get(ctx, "o1")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(o.Total))
	assert.True(t, got.CreatedAt.Equal(noon))
	assert.True(t, got.ScheduledTime.Equal(scheduled))
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[1].Price.Equal(decimal.NewFromInt(195)))
	assert.Equal(t, 2, got.Items[1].Quantity)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStore_ListOrdersByCreation(t *testing.T) {
	s := NewStore(records.NewMemoryStore())
	seedOrder(t, s, "b", "c1", StatusReady, noon.Add(time.Minute))
	seedOrder(t, s, "a", "c2", StatusPending, noon)
	seedOrder(t, s, "c", "c1", StatusPending, noon.Add(time.Minute))

	all, err := s.List(context.Background(), Query{})
	require.NoError(t, err)
	var ids []string
	for _, o := range all {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	mine, err := s.List(context.Background(), Query{CustomerID: "c1", Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "c", mine[0].ID)
}

func TestUpdateStatus_Condition_SuccessAndFail(t *testing.T) {
	s := NewStore(records.NewMemoryStore())
	seedOrder(t, s, "order-10", "c10", StatusPending, noon)
	ctx := context.Background()

	// success: pending -> confirmed
	require.NoError(t, s.UpdateStatus(ctx, "order-10", StatusPending, StatusConfirmed, noon.Add(time.Minute)))

	// failure: stored status is confirmed now
	err := s.UpdateStatus(ctx, "order-10", StatusPending, StatusCancelled, noon.Add(2*time.Minute))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatusMismatch))

	got, err := s.Get(ctx, "order-10")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.True(t, got.UpdatedAt.Equal(noon.Add(time.Minute)))

	assert.ErrorIs(t, s.UpdateStatus(ctx, "nope", StatusPending, StatusConfirmed, noon), apperr.ErrNotFound)
}

func TestAssignDelivery_Condition(t *testing.T) {
	s := NewStore(records.NewMemoryStore())
	ctx := context.Background()
	seedOrder(t, s, "r1", "c1", StatusReady, noon)
	seedOrder(t, s, "p1", "c1", StatusPreparing, noon)

	require.NoError(t, s.AssignDelivery(ctx, "r1", "d1", noon))
	assert.ErrorIs(t, s.AssignDelivery(ctx, "r1", "d2", noon), ErrStatusMismatch)
	assert.ErrorIs(t, s.AssignDelivery(ctx, "p1", "d1", noon), ErrStatusMismatch)

	got, err := s.Get(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.AssignedDeliveryStaff)
}

func TestSetPaymentStatus_Expected(t *testing.T) {
	s := NewStore(records.NewMemoryStore())
	ctx := context.Background()
	seedOrder(t, s, "o1", "c1", StatusPending, noon)

	assert.ErrorIs(t, s.SetPaymentStatus(ctx, "o1", PaymentPending, PaymentFailed, noon), ErrStatusMismatch)
	require.NoError(t, s.SetPaymentStatus(ctx, "o1", PaymentPaid, PaymentFailed, noon))
	require.NoError(t, s.SetPaymentStatus(ctx, "o1", "", PaymentPaid, noon))
}

func TestStore_GetRoundsStoredMoney(t *testing.T) {
	rs := records.NewMemoryStore()
	s := NewStore(rs)
	ctx := context.Background()
	seedOrder(t, s, "o1", "cust-1", StatusPending, noon)

	// a float sum that drifted on its way through another writer
	a, b := 0.1, 0.2
	require.NoError(t, rs.Update(ctx, Table, "o1", records.Record{"total": a + b}))

	got, err := s.Get(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "0.30", got.Total.StringFixed(2))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("0.3")))
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("89.50")))
}
