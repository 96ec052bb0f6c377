package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// PaymentRecord is the single entity with a lifecycle: created pending by
// the initiator, moved exactly once to completed or failed by the callback
// reconciler. Never deleted.
type PaymentRecord struct {
	ID                int64           `json:"id"`
	CheckoutRequestID string          `json:"checkout_request_id"`
	AppointmentID     string          `json:"appointment_id"`
	PhoneNumber       string          `json:"phone_number"`
	Amount            decimal.Decimal `json:"amount"`
	Status            PaymentStatus   `json:"status"`
	ReceiptReference  string          `json:"receipt_reference,omitempty"`
	RawCallback       string          `json:"-"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}
