// Package repositories defines the storage interfaces the services
// depend on. MongoDB implementations live in the mongodb subpackage.
package repositories

import (
	"context"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AtomicRunner executes fn as one atomic multi-record batch: either
// every write issued through the supplied context lands, or none do.
type AtomicRunner interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContestRepository handles persistence of contest instances
type ContestRepository interface {
	FindAll(ctx context.Context) ([]*models.ContestInstance, error)
	FindByID(ctx context.Context, id string) (*models.ContestInstance, error)
	Upsert(ctx context.Context, instance *models.ContestInstance) error
	// TransitionStatus performs a compare-and-set on the status field and
	// reports whether the guard matched. Callers use it to ensure a
	// lifecycle edge is taken exactly once across polling ticks.
	TransitionStatus(ctx context.Context, id string, from, to models.ContestStatus) (bool, error)
	SetParticipants(ctx context.Context, id string, count int) error
	// IncrementParticipants bumps the display counter by one, guarded so
	// it never exceeds the instance's capacity.
	IncrementParticipants(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, completedAt time.Time) error
}

// UserRepository handles persistence of user documents and their
// embedded participant entries
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// FindJoinedParticipants returns users holding a joined entry for the
	// given contest id ("real participants").
	FindJoinedParticipants(ctx context.Context, contestID string) ([]*models.User, error)
	// FindDirty returns up to limit users whose dirty marker is set.
	FindDirty(ctx context.Context, limit int64) ([]*models.User, error)
	// ApplyJoin debits the entry fee, appends the entry, and sets the
	// dirty marker in one update.
	ApplyJoin(ctx context.Context, userID primitive.ObjectID, entry models.ParticipantEntry) error
	// ApplyWin credits the prize, bumps the win aggregates, flips the
	// matching joined entry to won, and sets the dirty marker.
	ApplyWin(ctx context.Context, userID primitive.ObjectID, contestID string, prize float64, position string) error
	// ApplyLoss flips the matching joined entry to completed with no
	// prize and sets the dirty marker.
	ApplyLoss(ctx context.Context, userID primitive.ObjectID, contestID string) error
	// CreditBalance increments the balance and sets the dirty marker.
	CreditBalance(ctx context.Context, userID primitive.ObjectID, amount float64) error
	// SyncAggregates writes the recomputed derived statistics and clears
	// the dirty marker in the same update.
	SyncAggregates(ctx context.Context, userID primitive.ObjectID, agg models.ProfileAggregates, syncedAt time.Time) error
}

// PaymentRepository handles persistence of pending payment records
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.PendingPayment) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.PendingPayment, error)
	FindPending(ctx context.Context, limit int64) ([]*models.PendingPayment, error)
	// MarkCompleted transitions pending_verification -> completed and
	// reports whether the transition happened. A false return means the
	// record was already terminal.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error)
	// MarkRejected transitions pending_verification -> rejected under the
	// same guard.
	MarkRejected(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error)
	SetManuallyConfirmed(ctx context.Context, id primitive.ObjectID) error
	SetAdminVerified(ctx context.Context, id primitive.ObjectID) error
}

// TransactionRepository handles the append-only per-user ledger
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	FindRecentByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*models.Transaction, error)
}

// AdminUserRepository handles privileged accounts
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}
