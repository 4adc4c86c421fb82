package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus is the lifecycle state of a payment record. A record is
// created as pending and is advanced to a terminal state by the client
// verification path or the webhook path, whichever lands first.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCanceled  PaymentStatus = "canceled"
	PaymentStatusExpired   PaymentStatus = "expired"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Terminal reports whether no further core-driven transition applies.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusCanceled, PaymentStatusExpired, PaymentStatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCard       PaymentMethod = "card"
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodWallet     PaymentMethod = "wallet"
	PaymentMethodPending    PaymentMethod = "pending"
)

// SessionIDPending is the sentinel stored in SessionID and OrderID until
// the checkout session has been created at the provider.
const SessionIDPending = "pending"

const DefaultCurrency = "INR"

// Payment tracks one checkout attempt for a training program.
// SessionID and OrderID hold the Stripe checkout session identifier once
// known; they are the join key for webhook reconciliation.
type Payment struct {
	ID                uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID     `gorm:"type:uuid;index;not null" json:"userId"`
	TrainingProgramID uuid.UUID     `gorm:"type:uuid;index;not null" json:"trainingProgramId"`
	Price             float64       `gorm:"not null" json:"price"`
	Currency          string        `gorm:"type:varchar(10);not null;default:'INR'" json:"currency"`
	SessionID         string        `gorm:"type:varchar(255);index;not null;default:'pending'" json:"sessionId"`
	OrderID           string        `gorm:"type:varchar(255);index;not null;default:'pending'" json:"orderId"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"paymentStatus"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(20);not null;default:'pending'" json:"paymentMethod"`
	PaymentDate       *time.Time    `json:"paymentDate,omitempty"`
	IdempotencyKey    *string       `gorm:"type:varchar(255)" json:"idempotencyKey,omitempty"`
	CreatedAt         time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}
