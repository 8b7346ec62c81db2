package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure PaymentLedgerImpl implements PaymentService
var _ PaymentService = (*PaymentLedgerImpl)(nil)

const reconcilePageSize = 50

// PaymentLedgerImpl reconciles pending deposits into user balances.
// Auto-trusted channels credit after a dwell time with no external
// signal; admin-gated wallet/QR channels credit only on explicit
// privileged verification. Every credit lands exactly once per payment
// id: the pending->completed compare-and-set rides in the same atomic
// batch as the balance increment.
type PaymentLedgerImpl struct {
	paymentRepo    repositories.PaymentRepository
	userRepo       repositories.UserRepository
	txRepo         repositories.TransactionRepository
	store          repositories.AtomicRunner
	minimumDeposit float64
	autoTrustDwell time.Duration
	adminGateDwell time.Duration
}

// NewPaymentLedger creates a new PaymentLedgerImpl
func NewPaymentLedger(
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	store repositories.AtomicRunner,
	minimumDeposit float64,
	autoTrustDwell, adminGateDwell time.Duration,
) *PaymentLedgerImpl {
	return &PaymentLedgerImpl{
		paymentRepo:    paymentRepo,
		userRepo:       userRepo,
		txRepo:         txRepo,
		store:          store,
		minimumDeposit: minimumDeposit,
		autoTrustDwell: autoTrustDwell,
		adminGateDwell: adminGateDwell,
	}
}

// RecordPayment creates a pending_verification record and returns it
// with a channel-specific user message. The order ref stands in for the
// external gateway's order id.
func (l *PaymentLedgerImpl) RecordPayment(ctx context.Context, uid string, amount float64, method models.PaymentMethod) (*models.PendingPayment, string, error) {
	if !method.Known() {
		return nil, "", ErrUnknownPaymentMethod
	}
	if amount < l.minimumDeposit {
		return nil, "", ErrAmountBelowMinimum
	}

	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, "", ErrUserNotFound
	}
	if _, err := l.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	payment := &models.PendingPayment{
		UserID:   userID,
		Amount:   amount,
		Method:   method,
		OrderRef: uuid.NewString(),
	}
	if err := l.paymentRepo.Create(ctx, payment); err != nil {
		return nil, "", fmt.Errorf("failed to create payment record: %w", err)
	}

	message := fmt.Sprintf("Payment of %.2f initiated. It will be credited after verification.", amount)
	if method.AdminGated() {
		message = fmt.Sprintf("Payment of %.2f recorded. This payment method requires admin verification before crediting.", amount)
	}

	slog.Info("Payment initiated", "paymentId", payment.ID.Hex(), "userId", uid,
		"amount", amount, "method", method, "adminGated", method.AdminGated())
	return payment, message, nil
}

// ConfirmPayment is the self-service confirmation path. Admin-gated
// channels are always refused: the user's claim is recorded but
// crediting waits for the admin. Auto-trusted channels credit
// immediately if the record is still pending.
func (l *PaymentLedgerImpl) ConfirmPayment(ctx context.Context, paymentID, uid string) (*models.PendingPayment, error) {
	payment, err := l.loadOwnedPayment(ctx, paymentID, uid)
	if err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusPendingVerification {
		return payment, ErrAlreadyProcessed
	}

	if payment.Method.AdminGated() {
		if err := l.paymentRepo.SetManuallyConfirmed(ctx, payment.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to record confirmation claim: %w", err)
		}
		payment.ManuallyConfirmed = true
		return payment, ErrRequiresAdminVerification
	}

	if err := l.creditUserBalance(ctx, payment); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted
	return payment, nil
}

// AdminDecide is the privileged accept/reject decision. It is
// idempotent against repeated calls on an already-terminal record.
func (l *PaymentLedgerImpl) AdminDecide(ctx context.Context, paymentID string, accept bool) (*models.PendingPayment, error) {
	id, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	payment, err := l.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.Status != models.PaymentStatusPendingVerification {
		return payment, ErrAlreadyProcessed
	}

	if !accept {
		ok, err := l.paymentRepo.MarkRejected(ctx, payment.ID, time.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to reject payment: %w", err)
		}
		if !ok {
			return payment, ErrAlreadyProcessed
		}
		payment.Status = models.PaymentStatusRejected
		slog.Info("Payment rejected by admin", "paymentId", paymentID)
		return payment, nil
	}

	if err := l.paymentRepo.SetAdminVerified(ctx, payment.ID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to set admin verification: %w", err)
	}
	payment.AdminVerified = true
	if err := l.creditUserBalance(ctx, payment); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentStatusCompleted
	slog.Info("Payment accepted by admin", "paymentId", paymentID, "amount", payment.Amount)
	return payment, nil
}

// GetPayment returns a payment's current state to its owning user only
func (l *PaymentLedgerImpl) GetPayment(ctx context.Context, paymentID, uid string) (*models.PendingPayment, error) {
	return l.loadOwnedPayment(ctx, paymentID, uid)
}

// ReconcilePending is the periodic reconciliation tick. It drains a
// capped page of pending records and credits the ones whose channel
// trust policy is satisfied. Re-observing the same record across ticks
// is harmless: the credit batch is guarded per payment id.
func (l *PaymentLedgerImpl) ReconcilePending(ctx context.Context, now time.Time) {
	pending, err := l.paymentRepo.FindPending(ctx, reconcilePageSize)
	if err != nil {
		slog.Error("Payment reconciliation: failed to load pending records", "error", err)
		return
	}

	for _, payment := range pending {
		if !l.eligibleForCredit(payment, now) {
			continue
		}
		if err := l.creditUserBalance(ctx, payment); err != nil {
			if errors.Is(err, ErrAlreadyProcessed) {
				continue
			}
			slog.Error("Payment reconciliation: credit failed", "error", err, "paymentId", payment.ID.Hex())
		}
	}
}

// eligibleForCredit applies the per-channel trust policy
func (l *PaymentLedgerImpl) eligibleForCredit(payment *models.PendingPayment, now time.Time) bool {
	age := now.Sub(payment.CreatedAt)
	if payment.Method.AdminGated() {
		return payment.AdminVerified && payment.ManuallyConfirmed && age >= l.adminGateDwell
	}
	return age >= l.autoTrustDwell
}

// creditUserBalance credits the payment amount exactly once: the
// guarded status flip, the balance increment, and the deposit
// transaction land in one atomic batch or not at all.
func (l *PaymentLedgerImpl) creditUserBalance(ctx context.Context, payment *models.PendingPayment) error {
	err := l.store.RunAtomic(ctx, func(ctx context.Context) error {
		ok, err := l.paymentRepo.MarkCompleted(ctx, payment.ID, time.Now())
		if err != nil {
			return fmt.Errorf("failed to complete payment: %w", err)
		}
		if !ok {
			return ErrAlreadyProcessed
		}

		if err := l.userRepo.CreditBalance(ctx, payment.UserID, payment.Amount); err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}

		tx := &models.Transaction{
			UserID:      payment.UserID,
			Type:        models.TransactionTypeDeposit,
			Amount:      payment.Amount,
			Description: fmt.Sprintf("Deposit via %s", payment.Method),
			PaymentID:   payment.ID,
			Timestamp:   time.Now(),
		}
		return l.txRepo.Create(ctx, tx)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return ErrAlreadyProcessed
		}
		return fmt.Errorf("credit batch for payment %s failed: %w", payment.ID.Hex(), err)
	}

	slog.Info("Deposit credited", "paymentId", payment.ID.Hex(), "userId", payment.UserID.Hex(),
		"amount", payment.Amount, "method", payment.Method)
	return nil
}

func (l *PaymentLedgerImpl) loadOwnedPayment(ctx context.Context, paymentID, uid string) (*models.PendingPayment, error) {
	id, err := primitive.ObjectIDFromHex(paymentID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}
	payment, err := l.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment.UserID.Hex() != uid {
		return nil, ErrNotPaymentOwner
	}
	return payment, nil
}
