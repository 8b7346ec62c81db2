package services

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
)

// Compile-time check to ensure ProfileSynchronizerImpl implements ProfileSyncService
var _ ProfileSyncService = (*ProfileSynchronizerImpl)(nil)

const profileSyncPageSize = 50

// ProfileSynchronizerImpl recomputes derived user statistics from the
// authoritative entry list whenever the dirty marker is set. The pass
// is purely derivative and idempotent: re-running it against the same
// user only recomputes the same values.
type ProfileSynchronizerImpl struct {
	userRepo repositories.UserRepository
}

// NewProfileSynchronizer creates a new ProfileSynchronizerImpl
func NewProfileSynchronizer(userRepo repositories.UserRepository) *ProfileSynchronizerImpl {
	return &ProfileSynchronizerImpl{userRepo: userRepo}
}

// SyncDirtyProfiles processes a capped page of dirty users per tick
func (p *ProfileSynchronizerImpl) SyncDirtyProfiles(ctx context.Context) {
	users, err := p.userRepo.FindDirty(ctx, profileSyncPageSize)
	if err != nil {
		slog.Error("Profile sync: failed to load dirty users", "error", err)
		return
	}
	if len(users) == 0 {
		return
	}

	synced := 0
	now := time.Now()
	for _, user := range users {
		agg := ComputeAggregates(user.JoinedContests)
		if err := p.userRepo.SyncAggregates(ctx, user.ID, agg, now); err != nil {
			slog.Error("Profile sync: failed to write aggregates", "error", err, "userId", user.ID.Hex())
			continue
		}
		synced++
	}
	slog.Info("Profile sync pass complete", "synced", synced, "dirty", len(users))
}

// ComputeAggregates derives the profile statistics from the entry list
func ComputeAggregates(entries []models.ParticipantEntry) models.ProfileAggregates {
	agg := models.ProfileAggregates{
		ContestsJoined: len(entries),
	}
	for _, entry := range entries {
		if entry.Status == models.EntryStatusWon {
			agg.ContestsWon++
		}
		if entry.PrizeWon > 0 {
			agg.TotalWinnings += entry.PrizeWon
		}
	}
	if agg.ContestsJoined > 0 {
		agg.WinRate = int(math.Round(100 * float64(agg.ContestsWon) / float64(agg.ContestsJoined)))
	}
	return agg
}
