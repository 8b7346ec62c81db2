package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentMethod identifies the channel a deposit was initiated through
type PaymentMethod string

const (
	// Auto-trusted channels: credited after the dwell time with no
	// external confirmation signal.
	PaymentMethodUPI        PaymentMethod = "upi"
	PaymentMethodNetbanking PaymentMethod = "netbanking"
	PaymentMethodCard       PaymentMethod = "card"

	// Admin-gated wallet/QR channels: credited only after explicit
	// admin verification.
	PaymentMethodPaytm   PaymentMethod = "paytm"
	PaymentMethodPhonePe PaymentMethod = "phonepe"
	PaymentMethodGPay    PaymentMethod = "gpay"
)

// AdminGated reports whether the channel requires privileged
// confirmation before crediting
func (m PaymentMethod) AdminGated() bool {
	switch m {
	case PaymentMethodPaytm, PaymentMethodPhonePe, PaymentMethodGPay:
		return true
	}
	return false
}

// Known reports whether the method is one of the enumerated channels
func (m PaymentMethod) Known() bool {
	switch m {
	case PaymentMethodUPI, PaymentMethodNetbanking, PaymentMethodCard,
		PaymentMethodPaytm, PaymentMethodPhonePe, PaymentMethodGPay:
		return true
	}
	return false
}

// PaymentStatus represents the state of a pending payment record.
// completed and rejected are terminal.
type PaymentStatus string

const (
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusCompleted           PaymentStatus = "completed"
	PaymentStatusRejected            PaymentStatus = "rejected"
)

// PendingPayment is a deposit awaiting reconciliation into the user's
// balance
type PendingPayment struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Amount            float64            `bson:"amount" json:"amount"`
	Method            PaymentMethod      `bson:"method" json:"method"`
	Status            PaymentStatus      `bson:"status" json:"status"`
	OrderRef          string             `bson:"orderRef" json:"orderRef"` // external gateway order id
	AdminVerified     bool               `bson:"adminVerified" json:"adminVerified"`
	ManuallyConfirmed bool               `bson:"manuallyConfirmed" json:"manuallyConfirmed"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	ProcessedAt       time.Time          `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
}
