package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStatus represents the state of a single contest entry. An entry
// transitions from joined to won or completed exactly once, at settlement.
type EntryStatus string

const (
	EntryStatusJoined    EntryStatus = "joined"
	EntryStatusWon       EntryStatus = "won"
	EntryStatusCompleted EntryStatus = "completed"
)

// ParticipantEntry is a user's entry into one contest cycle, embedded
// in the user document
type ParticipantEntry struct {
	ContestID string      `bson:"contestId" json:"contestId"`
	JoinedAt  time.Time   `bson:"joinedAt" json:"joinedAt"`
	EntryFee  float64     `bson:"entryFee" json:"entryFee"`
	Status    EntryStatus `bson:"status" json:"status"`
	PrizeWon  float64     `bson:"prizeWon" json:"prizeWon"`
	Position  *string     `bson:"position" json:"position"`
}

// User represents a player account. The aggregate fields
// (ContestsJoined, ContestsWon, TotalWinnings, WinRate) are derived
// from JoinedContests by the profile synchronizer whenever ForceRefresh
// is set.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email,omitempty" json:"email,omitempty"`
	Balance         float64            `bson:"balance" json:"balance"`
	JoinedContests  []ParticipantEntry `bson:"joinedContests" json:"joinedContests"`
	ContestsJoined  int                `bson:"contestsJoined" json:"contestsJoined"`
	ContestsWon     int                `bson:"contestsWon" json:"contestsWon"`
	TotalWinnings   float64            `bson:"totalWinnings" json:"totalWinnings"`
	WinRate         int                `bson:"winRate" json:"winRate"`
	ForceRefresh    bool               `bson:"forceRefresh,omitempty" json:"-"`
	LastProfileSync time.Time          `bson:"lastProfileSync,omitempty" json:"lastProfileSync,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileAggregates holds the recomputed derived statistics written
// back by the profile synchronizer
type ProfileAggregates struct {
	ContestsJoined int
	ContestsWon    int
	TotalWinnings  float64
	WinRate        int
}
