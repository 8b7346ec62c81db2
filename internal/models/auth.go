package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUser is a privileged account allowed to verify payments
type AdminUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// LoginRequest is the admin login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// JoinContestRequest is the join-contest payload
type JoinContestRequest struct {
	UID       string `json:"uid" binding:"required"`
	ContestID string `json:"contestId" binding:"required"`
}

// CreateUserRequest is the user bootstrap payload
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

// InitiatePaymentRequest is the payment initiation payload
type InitiatePaymentRequest struct {
	UID    string  `json:"uid" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method" binding:"required"`
}

// AdminVerifyRequest is the admin payment decision payload
type AdminVerifyRequest struct {
	Action string `json:"action" binding:"required"` // "accept" or "reject"
}
