package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Vishall333/Smartlottery/internal/catalog"
	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	"github.com/Vishall333/Smartlottery/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure ContestManagerImpl implements ContestService
var _ ContestService = (*ContestManagerImpl)(nil)

const (
	baseParticipantRatio  = 0.15
	preFinalHourCeiling   = 0.75
	finalHourFloor        = 0.90
	rampSpan              = 0.60 // linear climb from 15% to 75%
	finalHourWindow       = time.Hour
	defaultDrawAnchor     = "18:00"
	participantStepDamper = 10
)

// ContestManagerImpl owns the set of live contest instances and
// advances each through its lifecycle on scheduler ticks. All state
// lives in the store; ticks communicate only through it.
type ContestManagerImpl struct {
	contestRepo  repositories.ContestRepository
	settlement   SettlementService
	deferred     DeferredScheduler
	restartDelay time.Duration
}

// NewContestManager creates a new ContestManagerImpl
func NewContestManager(
	contestRepo repositories.ContestRepository,
	settlement SettlementService,
	deferred DeferredScheduler,
	restartDelay time.Duration,
) *ContestManagerImpl {
	return &ContestManagerImpl{
		contestRepo:  contestRepo,
		settlement:   settlement,
		deferred:     deferred,
		restartDelay: restartDelay,
	}
}

// Initialize constructs a cycle-1 instance for every catalog template
// that has no live instance yet
func (m *ContestManagerImpl) Initialize(ctx context.Context, now time.Time) error {
	for _, template := range catalog.Templates() {
		_, err := m.contestRepo.FindByID(ctx, template.ID)
		if err == nil {
			continue
		}
		if err != mongo.ErrNoDocuments {
			return fmt.Errorf("failed to check for existing contest %s: %w", template.ID, err)
		}

		instance := m.newInstance(template, 1, now)
		if err := m.contestRepo.Upsert(ctx, instance); err != nil {
			return fmt.Errorf("failed to create contest %s: %w", template.ID, err)
		}
		slog.Info("Contest created", "contestId", template.ID, "cycle", 1, "endTime", instance.EndTime)
	}
	return nil
}

// ListContests returns all live contest instances
func (m *ContestManagerImpl) ListContests(ctx context.Context) ([]*models.ContestInstance, error) {
	contests, err := m.contestRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contests: %w", err)
	}
	return contests, nil
}

// CalculateNextDrawTime computes the end time of the next cycle.
// Templates with multiple fixed daily anchors draw at the next anchor
// strictly after now, wrapping to the first anchor tomorrow. Templates
// with a duration draw after one cycle, snapped to the anchor's time of
// day. Templates with no duration fall back to tomorrow at the anchor.
func (m *ContestManagerImpl) CalculateNextDrawTime(template models.ContestTemplate, now time.Time) time.Time {
	anchors := template.DrawTimes
	if len(anchors) > 1 {
		for _, anchor := range anchors {
			at := utils.AnchorOn(now, anchor)
			if at.After(now) {
				return at
			}
		}
		return utils.AnchorOn(now.AddDate(0, 0, 1), anchors[0])
	}

	anchor := defaultDrawAnchor
	if len(anchors) == 1 {
		anchor = anchors[0]
	}

	if template.CycleDuration > 0 {
		return utils.AnchorOn(now.Add(template.CycleDuration), anchor)
	}
	return utils.AnchorOn(now.AddDate(0, 0, 1), anchor)
}

// UpdateParticipantCounts runs the participant-growth ramp over all
// active instances. The counter climbs linearly from 15% of capacity
// at cycle start to 75% as the final hour approaches, then to a 90%
// floor inside the final hour, advancing by a damped step and never
// decreasing.
func (m *ContestManagerImpl) UpdateParticipantCounts(ctx context.Context, now time.Time) {
	contests, err := m.contestRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Participant ramp: failed to load contests", "error", err)
		return
	}

	for _, contest := range contests {
		if contest.Status != models.ContestStatusActive {
			continue
		}

		target := rampTarget(contest, now)
		next := advanceParticipants(contest.CurrentParticipants, target)
		if next == contest.CurrentParticipants {
			continue
		}

		if err := m.contestRepo.SetParticipants(ctx, contest.ID, next); err != nil {
			slog.Error("Participant ramp: failed to update counter", "error", err, "contestId", contest.ID)
			continue
		}
		slog.Debug("Participant ramp advanced", "contestId", contest.ID, "from", contest.CurrentParticipants, "to", next, "target", target)
	}
}

// rampTarget computes the counter's current target for an instance
func rampTarget(contest *models.ContestInstance, now time.Time) int {
	timeLeft := contest.EndTime.Sub(now)
	max := contest.MaxParticipants

	if timeLeft <= finalHourWindow {
		return int(float64(max) * finalHourFloor)
	}

	fraction := baseParticipantRatio
	if contest.CycleDuration > 0 {
		progress := 1 - float64(timeLeft)/float64(contest.CycleDuration)
		if progress > 0 {
			fraction += progress * rampSpan
		}
		if fraction > preFinalHourCeiling {
			fraction = preFinalHourCeiling
		}
	}

	target := int(float64(max) * fraction)
	if target > max {
		target = max
	}
	return target
}

// advanceParticipants moves the counter toward target by a damped
// step: a tenth of the remaining gap, rounded up, never past the
// target and never backwards
func advanceParticipants(current, target int) int {
	if target <= current {
		return current
	}
	gap := target - current
	step := int(math.Ceil(float64(gap) / participantStepDamper))
	if step > gap {
		step = gap
	}
	return current + step
}

// CheckLifecycle transitions expired instances into settlement. The
// active->processing edge is a store-level compare-and-set so a given
// expiry is settled exactly once across ticks; instances found already
// processing are settlement retries from a failed batch.
func (m *ContestManagerImpl) CheckLifecycle(ctx context.Context, now time.Time) {
	contests, err := m.contestRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Lifecycle check: failed to load contests", "error", err)
		return
	}

	for _, contest := range contests {
		switch contest.Status {
		case models.ContestStatusActive:
			if contest.EndTime.After(now) {
				continue
			}
			ok, err := m.contestRepo.TransitionStatus(ctx, contest.ID, models.ContestStatusActive, models.ContestStatusProcessing)
			if err != nil {
				slog.Error("Lifecycle check: failed to mark contest processing", "error", err, "contestId", contest.ID)
				continue
			}
			if !ok {
				// Another tick already took this expiry.
				continue
			}
			contest.Status = models.ContestStatusProcessing
			m.settle(ctx, contest)

		case models.ContestStatusProcessing:
			// A previous settlement batch failed before landing; the whole
			// batch retries. Nothing was committed, so entries are still
			// joined.
			m.settle(ctx, contest)
		}
	}
}

func (m *ContestManagerImpl) settle(ctx context.Context, contest *models.ContestInstance) {
	slog.Info("Contest ended, processing results", "contestId", contest.ID, "cycle", contest.CycleNumber)

	if err := m.settlement.DeclareWinnersAndSettle(ctx, contest); err != nil {
		slog.Error("Settlement failed, will retry next tick", "error", err, "contestId", contest.ID)
		return
	}

	id := contest.ID
	err := m.deferred.Once(m.restartDelay, "restart-"+id, func() {
		m.RestartContest(context.Background(), id, time.Now())
	})
	if err != nil {
		slog.Error("Failed to schedule contest restart", "error", err, "contestId", id)
	}
}

// RestartContest replaces a completed instance with a fresh cycle.
// Unknown contest ids are a logged no-op.
func (m *ContestManagerImpl) RestartContest(ctx context.Context, id string, now time.Time) {
	template, ok := catalog.Find(id)
	if !ok {
		slog.Warn("Restart requested for unknown contest", "contestId", id)
		return
	}

	cycle := 1
	previous, err := m.contestRepo.FindByID(ctx, id)
	if err == nil {
		cycle = previous.CycleNumber + 1
	} else if err != mongo.ErrNoDocuments {
		slog.Error("Restart: failed to load previous cycle", "error", err, "contestId", id)
		return
	}

	instance := m.newInstance(template, cycle, now)
	if err := m.contestRepo.Upsert(ctx, instance); err != nil {
		slog.Error("Restart: failed to persist new cycle", "error", err, "contestId", id)
		return
	}
	slog.Info("Contest restarted", "contestId", id, "cycle", cycle, "endTime", instance.EndTime)
}

func (m *ContestManagerImpl) newInstance(template models.ContestTemplate, cycle int, now time.Time) *models.ContestInstance {
	base := int(float64(template.MaxParticipants) * baseParticipantRatio)
	return &models.ContestInstance{
		ID:                  template.ID,
		Title:               fmt.Sprintf("%s - Cycle %d", template.Title, cycle),
		CycleNumber:         cycle,
		Status:              models.ContestStatusActive,
		EntryFee:            template.EntryFee,
		MaxParticipants:     template.MaxParticipants,
		PrizePool:           template.PrizePool,
		CycleDuration:       template.CycleDuration,
		DrawTimes:           template.DrawTimes,
		Description:         template.Description,
		PrizeStructure:      template.PrizeStructure,
		CompensationPrizes:  template.CompensationPrizes,
		BaseParticipants:    base,
		CurrentParticipants: base,
		EndTime:             m.CalculateNextDrawTime(template, now),
		CreatedAt:           now,
	}
}
