// Package payments records the payment shell attached to each placed order.
// No gateway is contacted; only masked card details are kept.
package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCard         Method = "card"
	MethodMobileWallet Method = "mobile_wallet"
)

func (m Method) Valid() bool { return m == MethodCard || m == MethodMobileWallet }

// StatusCompleted is the only status a recorded payment can have.
const StatusCompleted = "completed"

// Details is what the customer typed at checkout. CVV and the full card number
// never leave this struct.
type Details struct {
	Method         Method
	CardNumber     string
	CardHolderName string
	Expiry         string
	CVV            string
	WalletNumber   string
}

type Payment struct {
	ID                 string          `json:"id"`
	OrderID            string          `json:"orderId"`
	CustomerID         string          `json:"customerId"`
	Amount             decimal.Decimal `json:"amount"`
	Method             Method          `json:"paymentMethod"`
	CardLast4          string          `json:"cardLast4,omitempty"`
	CardHolderName     string          `json:"cardHolderName,omitempty"`
	MobileWalletNumber string          `json:"mobileWalletNumber,omitempty"`
	Status             string          `json:"status"`
	TransactionID      string          `json:"transactionId"`
	CreatedAt          time.Time       `json:"createdAt"`
}
