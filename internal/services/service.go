package services

import (
	"context"
	"errors"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
)

// Sentinel errors surfaced to the HTTP layer. Handlers map these to the
// 4xx-equivalent envelope; anything else is internal.
var (
	ErrUserNotFound              = errors.New("user not found")
	ErrContestNotFound           = errors.New("contest not found")
	ErrContestClosed             = errors.New("contest is not open for entries")
	ErrContestFull               = errors.New("contest is full")
	ErrInsufficientBalance       = errors.New("insufficient balance")
	ErrPaymentNotFound           = errors.New("payment not found")
	ErrAlreadyProcessed          = errors.New("payment already processed")
	ErrRequiresAdminVerification = errors.New("requires admin verification")
	ErrAmountBelowMinimum        = errors.New("amount below minimum deposit")
	ErrUnknownPaymentMethod      = errors.New("unknown payment method")
	ErrNotPaymentOwner           = errors.New("payment does not belong to this user")
	ErrInvalidCredentials        = errors.New("invalid credentials")
)

// DeferredScheduler schedules a named one-shot task. The contest
// manager uses it for the restart delay after settlement.
type DeferredScheduler interface {
	Once(delay time.Duration, name string, task func()) error
}

// ContestService defines contest lifecycle operations
type ContestService interface {
	Initialize(ctx context.Context, now time.Time) error
	ListContests(ctx context.Context) ([]*models.ContestInstance, error)
	UpdateParticipantCounts(ctx context.Context, now time.Time)
	CheckLifecycle(ctx context.Context, now time.Time)
	RestartContest(ctx context.Context, id string, now time.Time)
}

// SettlementService settles an expired contest instance
type SettlementService interface {
	DeclareWinnersAndSettle(ctx context.Context, instance *models.ContestInstance) error
}

// PaymentService defines the payment reconciliation ledger operations
type PaymentService interface {
	RecordPayment(ctx context.Context, uid string, amount float64, method models.PaymentMethod) (*models.PendingPayment, string, error)
	ConfirmPayment(ctx context.Context, paymentID, uid string) (*models.PendingPayment, error)
	AdminDecide(ctx context.Context, paymentID string, accept bool) (*models.PendingPayment, error)
	GetPayment(ctx context.Context, paymentID, uid string) (*models.PendingPayment, error)
	ReconcilePending(ctx context.Context, now time.Time)
}

// ProfileSyncService recomputes derived user statistics
type ProfileSyncService interface {
	SyncDirtyProfiles(ctx context.Context)
}

// UserService defines user-facing operations
type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, uid string) (*models.User, []*models.Transaction, error)
	JoinContest(ctx context.Context, uid, contestID string) error
}

// AuthService authenticates privileged accounts
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}
