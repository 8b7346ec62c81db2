package models

import (
	"time"
)

// ContestStatus represents the lifecycle state of a contest instance
type ContestStatus string

const (
	ContestStatusActive     ContestStatus = "active"
	ContestStatusProcessing ContestStatus = "processing"
	ContestStatusCompleted  ContestStatus = "completed"
)

// PrizeTier defines a single tier in a contest's headline prize structure
type PrizeTier struct {
	Position   string  `bson:"position" json:"position"`
	Amount     float64 `bson:"amount" json:"amount"`
	Percentage string  `bson:"percentage" json:"percentage"`
}

// CompensationPrizes defines the fixed-stipend pool paid to a bounded
// number of real participants when a contest settles
type CompensationPrizes struct {
	Total       int     `bson:"total" json:"total"`
	Amount      float64 `bson:"amount" json:"amount"`
	RealWinners int     `bson:"realWinners" json:"realWinners"`
}

// ContestTemplate is a catalog-defined, immutable contest definition
type ContestTemplate struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	EntryFee           float64            `json:"entryFee"`
	MaxParticipants    int                `json:"maxParticipants"`
	PrizePool          float64            `json:"prizePool"`
	CycleDuration      time.Duration      `json:"cycleDuration"`
	DrawTimes          []string           `json:"drawTimes"` // "HH:MM" anchors
	Description        string             `json:"description"`
	PrizeStructure     []PrizeTier        `json:"prizeStructure"`
	CompensationPrizes CompensationPrizes `json:"compensationPrizes"`
}

// ContestInstance is one timed run of a template. At most one instance
// per template id exists; restarts replace it in place with the cycle
// number incremented.
type ContestInstance struct {
	ID                  string             `bson:"_id" json:"id"`
	Title               string             `bson:"title" json:"title"`
	CycleNumber         int                `bson:"cycleNumber" json:"cycleNumber"`
	Status              ContestStatus      `bson:"status" json:"status"`
	EntryFee            float64            `bson:"entryFee" json:"entryFee"`
	MaxParticipants     int                `bson:"maxParticipants" json:"maxParticipants"`
	PrizePool           float64            `bson:"prizePool" json:"prizePool"`
	CycleDuration       time.Duration      `bson:"cycleDuration" json:"cycleDuration"`
	DrawTimes           []string           `bson:"drawTimes" json:"drawTimes"`
	Description         string             `bson:"description" json:"description"`
	PrizeStructure      []PrizeTier        `bson:"prizeStructure" json:"prizeStructure"`
	CompensationPrizes  CompensationPrizes `bson:"compensationPrizes" json:"compensationPrizes"`
	BaseParticipants    int                `bson:"baseParticipants" json:"baseParticipants"`
	CurrentParticipants int                `bson:"currentParticipants" json:"currentParticipants"`
	EndTime             time.Time          `bson:"endTime" json:"endTime"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	CompletedAt         time.Time          `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}
