package payments

import (
	"time"

	"github.com/imrishuroy/go-restaurant-orderflow/internal/records"
)

// Table is the logical table payments are stored in.
const Table = "payments"

type paymentRecord struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	CustomerID         string    `json:"customer_id"`
	Amount             float64   `json:"amount"`
	PaymentMethod      string    `json:"payment_method"`
	CardLast4          string    `json:"card_last4,omitempty"`
	CardHolderName     string    `json:"card_holder_name,omitempty"`
	MobileWalletNumber string    `json:"mobile_wallet_number,omitempty"`
	Status             string    `json:"status"`
	TransactionID      string    `json:"transaction_id"`
	CreatedAt          time.Time `json:"created_at"`
}

func toRecord(p Payment) (records.Record, error) {
	return records.Encode(paymentRecord{
		ID:                 p.ID,
		OrderID:            p.OrderID,
		CustomerID:         p.CustomerID,
		Amount:             p.Amount.InexactFloat64(),
		PaymentMethod:      string(p.Method),
		CardLast4:          p.CardLast4,
		CardHolderName:     p.CardHolderName,
		MobileWalletNumber: p.MobileWalletNumber,
		Status:             p.Status,
		TransactionID:      p.TransactionID,
		CreatedAt:          p.CreatedAt.UTC(),
	})
}

func fromRecord(rec records.Record) (Payment, error) {
	var r paymentRecord
	if err := records.Decode(rec, &r); err != nil {
		return Payment{}, err
	}
	return Payment{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		CustomerID:         r.CustomerID,
		Amount:             records.Money(r.Amount),
		Method:             Method(r.PaymentMethod),
		CardLast4:          r.CardLast4,
		CardHolderName:     r.CardHolderName,
		MobileWalletNumber: r.MobileWalletNumber,
		Status:             r.Status,
		TransactionID:      r.TransactionID,
		CreatedAt:          r.CreatedAt,
	}, nil
}
