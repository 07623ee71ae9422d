package payments

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/apperr"
	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Ledger writes payment records.
type Ledger struct {
	store   records.Store
	nowFunc func() time.Time
}

func NewLedger(store records.Store) *Ledger {
	return &Ledger{store: store, nowFunc: time.Now}
}

// Record stores a completed payment of amount for an order.
func (l *Ledger) Record(ctx context.Context, orderID, customerID string, amount decimal.Decimal, d Details) (Payment, error) {
	if !d.Method.Valid() {
		return Payment{}, apperr.Validation("unknown payment method %q", d.Method)
	}
	now := l.nowFunc()
	p := Payment{
		ID:            uuid.NewString(),
		OrderID:       orderID,
		CustomerID:    customerID,
		Amount:        amount,
		Method:        d.Method,
		Status:        StatusCompleted,
		TransactionID: fmt.Sprintf("TXN-%d", now.UnixMilli()),
		CreatedAt:     now,
	}
	switch d.Method {
	case MethodCard:
		p.CardLast4 = Last4(d.CardNumber)
		p.CardHolderName = strings.TrimSpace(d.CardHolderName)
	case MethodMobileWallet:
		p.MobileWalletNumber = strings.TrimSpace(d.WalletNumber)
	}

	rec, err := toRecord(p)
	if err != nil {
		return Payment{}, err
	}
	if _, err := l.store.Insert(ctx, Table, rec); err != nil {
		return Payment{}, apperr.ExternalWrite("insert payment", err)
	}
	return p, nil
}

// ForOrder returns the payments recorded against an order.
func (l *Ledger) ForOrder(ctx context.Context, orderID string) ([]Payment, error) {
	recs, err := l.store.Select(ctx, Table, records.Filter{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	out := make([]Payment, 0, len(recs))
	for _, rec := range recs {
		p, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Last4 returns the final four digits of a card number, ignoring separators.
func Last4(number string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
