// Package catalog holds the static, immutable set of contest templates.
// Templates are pure data: lifecycle state lives on ContestInstance.
package catalog

import (
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
)

var templates = []models.ContestTemplate{
	{
		ID:              "ultimate_crorepati",
		Title:           "Ultimate Crorepati",
		EntryFee:        1000,
		MaxParticipants: 10000,
		PrizePool:       10000000,
		CycleDuration:   8 * 24 * time.Hour,
		DrawTimes:       []string{"18:00"},
		Description:     "The ultimate lottery experience! Win up to ₹1 CRORE",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 5000000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 2500000, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 1000000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 625)", Amount: 2000, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 625, Amount: 2000, RealWinners: 3},
	},
	{
		ID:              "Easy_jackpot",
		Title:           "Mega Jackpot",
		EntryFee:        50,
		MaxParticipants: 2000,
		PrizePool:       100000,
		CycleDuration:   12 * time.Hour,
		DrawTimes:       []string{"18:00"},
		Description:     "Our flagship daily lottery with life-changing prizes",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 50000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 25000, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 10000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 100)", Amount: 100, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 100, Amount: 100, RealWinners: 3},
	},
	{
		ID:              "golden_draw",
		Title:           "Golden Fortune",
		EntryFee:        100,
		MaxParticipants: 1500,
		PrizePool:       150000,
		CycleDuration:   24 * time.Hour,
		DrawTimes:       []string{"18:00"},
		Description:     "Premium lottery with multiple prize tiers",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 75000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 37500, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 15000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 100)", Amount: 200, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 100, Amount: 200, RealWinners: 3},
	},
	{
		ID:              "speed_Earning",
		Title:           "Speed Earning",
		EntryFee:        25,
		MaxParticipants: 800,
		PrizePool:       20000,
		CycleDuration:   6 * time.Hour,
		DrawTimes:       []string{"06:00", "12:00", "18:00"},
		Description:     "Quick-fire lottery with instant results",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 10000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 5000, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 2000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 30)", Amount: 100, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 30, Amount: 100, RealWinners: 3},
	},
	{
		ID:              "festival_special",
		Title:           "Festival Special",
		EntryFee:        200,
		MaxParticipants: 1200,
		PrizePool:       240000,
		CycleDuration:   2 * 24 * time.Hour,
		DrawTimes:       []string{"18:00"},
		Description:     "Festival special with bumper prizes",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 120000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 60000, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 24000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 80)", Amount: 400, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 80, Amount: 400, RealWinners: 3},
	},
	{
		ID:              "crorepati_dream",
		Title:           "Crorepati Dream",
		EntryFee:        500,
		MaxParticipants: 1000,
		PrizePool:       500000,
		CycleDuration:   3 * 24 * time.Hour,
		DrawTimes:       []string{"18:00"},
		Description:     "The ultimate dream lottery",
		PrizeStructure: []models.PrizeTier{
			{Position: "1st Prize", Amount: 250000, Percentage: "50%"},
			{Position: "2nd Prize", Amount: 125000, Percentage: "25%"},
			{Position: "3rd Prize", Amount: 50000, Percentage: "10%"},
			{Position: "4th Prize (Compensation * 70)", Amount: 1000, Percentage: "For Real Winners"},
		},
		CompensationPrizes: models.CompensationPrizes{Total: 70, Amount: 1000, RealWinners: 3},
	},
}

// Templates returns a copy of the full catalog
func Templates() []models.ContestTemplate {
	out := make([]models.ContestTemplate, len(templates))
	copy(out, templates)
	return out
}

// Find looks up a template by id
func Find(id string) (models.ContestTemplate, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return models.ContestTemplate{}, false
}
