package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType classifies an append-only ledger entry
type TransactionType string

const (
	TransactionTypeContestEntry TransactionType = "contest_entry"
	TransactionTypePrizeWin     TransactionType = "prize_win"
	TransactionTypeDeposit      TransactionType = "deposit"
)

// Transaction is an append-only ledger record for a user. Amounts are
// signed: entry fees are negative, prizes and deposits positive.
type Transaction struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Type        TransactionType    `bson:"type" json:"type"`
	Amount      float64            `bson:"amount" json:"amount"`
	Description string             `bson:"description" json:"description"`
	ContestID   string             `bson:"contestId,omitempty" json:"contestId,omitempty"`
	PaymentID   primitive.ObjectID `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
