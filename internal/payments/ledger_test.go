package payments

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

type failingStore struct{ records.Store }

func (failingStore) Insert(context.Context, string, records.Record) (records.Record, error) {
	return nil, errors.New("disk full")
}

func TestLedger_RecordCardMasksNumber(t *testing.T) {
	store := records.NewMemoryStore()
	l := NewLedger(store)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.nowFunc = func() time.Time { return at }

	p, err := l.Record(context.Background(), "o1", "c1", decimal.RequireFromString("504.50"), Details{
		Method:         MethodCard,
		CardNumber:     "4111 1111 1111 1234",
		CardHolderName: " Thandi Mokoena ",
		Expiry:         "12/27",
		CVV:            "123",
	})
	require.NoError(t, err)
	assert.Equal(t, "1234", p.CardLast4)
	assert.Equal(t, "Thandi Mokoena", p.CardHolderName)
	assert.Equal(t, StatusCompleted, p.Status)
	assert.Equal(t, "TXN-1740830400000", p.TransactionID)

	rec, err := store.Get(context.Background(), Table, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "1234", rec["card_last4"])
	assert.Equal(t, 504.5, rec["amount"])
	for k, v := range rec {
		if s, ok := v.(string); ok {
			assert.NotContains(t, s, "4111", "field %s leaks the card number", k)
		}
	}
	assert.NotContains(t, rec, "cvv")

	got, err := l.ForOrder(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("504.50")))
	assert.Equal(t, MethodCard, got[0].Method)
}

func TestLedger_RecordWallet(t *testing.T) {
	l := NewLedger(records.NewMemoryStore())
	p, err := l.Record(context.Background(), "o1", "c1", decimal.NewFromInt(90), Details{
		Method:       MethodMobileWallet,
		WalletNumber: "0821234567",
		CardNumber:   "4111111111111234",
	})
	require.NoError(t, err)
	assert.Equal(t, "0821234567", p.MobileWalletNumber)
	assert.Empty(t, p.CardLast4)
}

func TestLedger_RecordErrors(t *testing.T) {
	l := NewLedger(records.NewMemoryStore())
	_, err := l.Record(context.Background(), "o1", "c1", decimal.NewFromInt(1), Details{Method: "cash"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	l = NewLedger(failingStore{})
	_, err = l.Record(context.Background(), "o1", "c1", decimal.NewFromInt(1), Details{Method: MethodCard, CardNumber: "4111111111111234"})
	assert.ErrorIs(t, err, apperr.ErrExternalWrite)
}

func TestLast4(t *testing.T) {
	assert.Equal(t, "1234", Last4("4111-1111-1111-1234"))
	assert.Equal(t, "12", Last4("12"))
	assert.Equal(t, "", Last4(""))
}
