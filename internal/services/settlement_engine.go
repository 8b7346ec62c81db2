package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
)

// Compile-time check to ensure SettlementEngineImpl implements SettlementService
var _ SettlementService = (*SettlementEngineImpl)(nil)

const compensationPosition = "4th Prize (Compensation)"

// SettlementEngineImpl settles an expired contest instance: it selects
// compensation winners among the real participants and applies every
// entry and balance mutation as one atomic batch.
type SettlementEngineImpl struct {
	userRepo    repositories.UserRepository
	contestRepo repositories.ContestRepository
	txRepo      repositories.TransactionRepository
	store       repositories.AtomicRunner
	rng         *rand.Rand
}

// NewSettlementEngine creates a new SettlementEngineImpl. The random
// source is injected so winner selection is reproducible under test.
func NewSettlementEngine(
	userRepo repositories.UserRepository,
	contestRepo repositories.ContestRepository,
	txRepo repositories.TransactionRepository,
	store repositories.AtomicRunner,
	rng *rand.Rand,
) *SettlementEngineImpl {
	return &SettlementEngineImpl{
		userRepo:    userRepo,
		contestRepo: contestRepo,
		txRepo:      txRepo,
		store:       store,
		rng:         rng,
	}
}

// DeclareWinnersAndSettle runs settlement for a processing instance.
// Either every entry/balance mutation for the settlement lands or none
// do; the caller retries the whole batch on failure.
func (s *SettlementEngineImpl) DeclareWinnersAndSettle(ctx context.Context, instance *models.ContestInstance) error {
	// Guard against re-entry after a completed settlement.
	if instance.Status != models.ContestStatusProcessing {
		return fmt.Errorf("contest %s is not in processing state (current: %s)", instance.ID, instance.Status)
	}

	participants, err := s.userRepo.FindJoinedParticipants(ctx, instance.ID)
	if err != nil {
		return fmt.Errorf("failed to load real participants: %w", err)
	}
	slog.Info("Settling contest", "contestId", instance.ID, "cycle", instance.CycleNumber, "realParticipants", len(participants))

	winners := s.selectWinners(participants, instance.CompensationPrizes)
	winnerIDs := make(map[string]bool, len(winners))
	for _, w := range winners {
		winnerIDs[w.ID.Hex()] = true
	}

	now := time.Now()
	err = s.store.RunAtomic(ctx, func(ctx context.Context) error {
		for _, winner := range winners {
			prize := instance.CompensationPrizes.Amount
			if err := s.userRepo.ApplyWin(ctx, winner.ID, instance.ID, prize, compensationPosition); err != nil {
				return fmt.Errorf("failed to apply win for user %s: %w", winner.ID.Hex(), err)
			}
			tx := &models.Transaction{
				UserID:      winner.ID,
				Type:        models.TransactionTypePrizeWin,
				Amount:      prize,
				Description: fmt.Sprintf("Won %s in %s", compensationPosition, instance.Title),
				ContestID:   instance.ID,
				Timestamp:   now,
			}
			if err := s.txRepo.Create(ctx, tx); err != nil {
				return fmt.Errorf("failed to record prize transaction: %w", err)
			}
		}

		for _, participant := range participants {
			if winnerIDs[participant.ID.Hex()] {
				continue
			}
			if err := s.userRepo.ApplyLoss(ctx, participant.ID, instance.ID); err != nil {
				return fmt.Errorf("failed to close entry for user %s: %w", participant.ID.Hex(), err)
			}
		}

		return s.contestRepo.Complete(ctx, instance.ID, now)
	})
	if err != nil {
		return fmt.Errorf("settlement batch for contest %s failed: %w", instance.ID, err)
	}

	instance.Status = models.ContestStatusCompleted
	instance.CompletedAt = now
	slog.Info("Contest settled", "contestId", instance.ID, "cycle", instance.CycleNumber,
		"winners", len(winners), "payout", float64(len(winners))*instance.CompensationPrizes.Amount)
	return nil
}

// selectWinners draws min(realWinners, participants) winners via a
// uniform random permutation without replacement
func (s *SettlementEngineImpl) selectWinners(participants []*models.User, pool models.CompensationPrizes) []*models.User {
	if pool.RealWinners <= 0 || len(participants) == 0 {
		return nil
	}

	k := pool.RealWinners
	if k > len(participants) {
		k = len(participants)
	}

	shuffled := make([]*models.User, len(participants))
	copy(shuffled, participants)
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k]
}
