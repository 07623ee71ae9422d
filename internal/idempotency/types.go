package idempotency

import "time"

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// Table is the logical table idempotency entries live in.
const Table = "idempotency"

// Record is the shape persisted per Idempotency-Key. The key is the record id.
type Record struct {
	Key            string    `json:"id"`
	Status         string    `json:"status"`
	OrderID        string    `json:"order_id,omitempty"`
	ResponseBody   string    `json:"response_body,omitempty"`   // small responses only
	ResponseStatus int       `json:"response_status,omitempty"` // e.g., 201
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ExpiresAt      int64     `json:"expires_at"` // TTL epoch seconds
	Note           string    `json:"note,omitempty"`
	Attempt        int       `json:"attempt"`
}

// Expired reports whether the TTL window has passed.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt > 0 && now.Unix() >= r.ExpiresAt
}
