package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
)

func newLedgerFixture() (*PaymentLedgerImpl, *mockPaymentRepo, *mockUserRepo, *mockTransactionRepo) {
	paymentRepo := newMockPaymentRepo()
	userRepo := newMockUserRepo()
	txRepo := newMockTransactionRepo()
	ledger := NewPaymentLedger(paymentRepo, userRepo, txRepo, &mockStore{},
		10.0, 3*time.Minute, 5*time.Minute)
	return ledger, paymentRepo, userRepo, txRepo
}

func seedPayment(paymentRepo *mockPaymentRepo, user *models.User, amount float64, method models.PaymentMethod, age time.Duration) *models.PendingPayment {
	payment := &models.PendingPayment{
		UserID:    user.ID,
		Amount:    amount,
		Method:    method,
		CreatedAt: time.Now().Add(-age),
	}
	_ = paymentRepo.Create(context.Background(), payment)
	return payment
}

func TestRecordPayment(t *testing.T) {
	t.Run("Given a valid deposit request When recorded Then a pending record with an order ref is created", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(0)

		payment, message, err := ledger.RecordPayment(context.Background(), user.ID.Hex(), 500, models.PaymentMethodUPI)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if payment.Status != models.PaymentStatusPendingVerification {
			t.Errorf("status = %s, want pending_verification", payment.Status)
		}
		if payment.OrderRef == "" {
			t.Error("expected a generated order ref")
		}
		if message == "" {
			t.Error("expected a user-facing message")
		}
		if len(paymentRepo.Payments) != 1 {
			t.Errorf("got %d stored payments, want 1", len(paymentRepo.Payments))
		}
		if user.Balance != 0 {
			t.Errorf("balance credited at initiation: %v", user.Balance)
		}
	})

	t.Run("Given an admin-gated channel When recorded Then the message warns about admin verification", func(t *testing.T) {
		ledger, _, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(0)

		payment, message, err := ledger.RecordPayment(context.Background(), user.ID.Hex(), 500, models.PaymentMethodPaytm)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !payment.Method.AdminGated() {
			t.Error("expected an admin-gated method")
		}
		if message == "" || message == "Payment of 500.00 initiated. It will be credited after verification." {
			t.Errorf("expected gated message, got %q", message)
		}
	})

	t.Run("Given an unknown channel When recorded Then it is refused", func(t *testing.T) {
		ledger, _, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(0)

		if _, _, err := ledger.RecordPayment(context.Background(), user.ID.Hex(), 500, "bitcoin"); !errors.Is(err, ErrUnknownPaymentMethod) {
			t.Errorf("expected ErrUnknownPaymentMethod, got %v", err)
		}
	})

	t.Run("Given an amount below the minimum When recorded Then it is refused", func(t *testing.T) {
		ledger, _, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(0)

		if _, _, err := ledger.RecordPayment(context.Background(), user.ID.Hex(), 5, models.PaymentMethodUPI); !errors.Is(err, ErrAmountBelowMinimum) {
			t.Errorf("expected ErrAmountBelowMinimum, got %v", err)
		}
	})

	t.Run("Given an unknown user When recorded Then it is refused", func(t *testing.T) {
		ledger, _, _, _ := newLedgerFixture()

		if _, _, err := ledger.RecordPayment(context.Background(), "no-such-user", 500, models.PaymentMethodUPI); !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestReconcilePending(t *testing.T) {
	t.Run("Given an auto-trusted deposit past its dwell When reconciliation ticks repeatedly Then it is credited exactly once", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodUPI, 5*time.Minute)

		now := time.Now()
		ledger.ReconcilePending(context.Background(), now)
		ledger.ReconcilePending(context.Background(), now.Add(15*time.Second))
		ledger.ReconcilePending(context.Background(), now.Add(30*time.Second))

		if user.Balance != 600 {
			t.Errorf("balance = %v, want 600 after a single credit", user.Balance)
		}
		if deposits := txRepo.byType(models.TransactionTypeDeposit); len(deposits) != 1 {
			t.Errorf("got %d deposit transactions, want exactly 1", len(deposits))
		}
		if got := paymentRepo.Payments[payment.ID.Hex()].Status; got != models.PaymentStatusCompleted {
			t.Errorf("payment status = %s, want completed", got)
		}
	})

	t.Run("Given an auto-trusted deposit inside its dwell When reconciliation ticks Then it stays pending", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodUPI, time.Minute)

		ledger.ReconcilePending(context.Background(), time.Now())

		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}
		if got := paymentRepo.Payments[payment.ID.Hex()].Status; got != models.PaymentStatusPendingVerification {
			t.Errorf("payment status = %s, want pending", got)
		}
	})

	t.Run("Given a gated deposit confirmed only by its user When reconciliation ticks Then it is never credited", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodPaytm, time.Hour)
		paymentRepo.Payments[payment.ID.Hex()].ManuallyConfirmed = true

		ledger.ReconcilePending(context.Background(), time.Now())

		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}
		if len(txRepo.Transactions) != 0 {
			t.Errorf("got %d transactions, want none", len(txRepo.Transactions))
		}
	})

	t.Run("Given a gated deposit with both confirmations past its dwell When reconciliation ticks Then it is credited", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodPhonePe, 10*time.Minute)
		paymentRepo.Payments[payment.ID.Hex()].ManuallyConfirmed = true
		paymentRepo.Payments[payment.ID.Hex()].AdminVerified = true

		ledger.ReconcilePending(context.Background(), time.Now())

		if user.Balance != 600 {
			t.Errorf("balance = %v, want 600", user.Balance)
		}
		if got := paymentRepo.Payments[payment.ID.Hex()].Status; got != models.PaymentStatusCompleted {
			t.Errorf("payment status = %s, want completed", got)
		}
	})

	t.Run("Given a gated deposit with both confirmations inside its dwell When reconciliation ticks Then it waits", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodGPay, 2*time.Minute)
		paymentRepo.Payments[payment.ID.Hex()].ManuallyConfirmed = true
		paymentRepo.Payments[payment.ID.Hex()].AdminVerified = true

		ledger.ReconcilePending(context.Background(), time.Now())

		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}
	})
}

func TestConfirmPayment(t *testing.T) {
	t.Run("Given an auto-trusted deposit When its owner confirms Then it is credited immediately", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodCard, time.Second)

		confirmed, err := ledger.ConfirmPayment(context.Background(), payment.ID.Hex(), user.ID.Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if confirmed.Status != models.PaymentStatusCompleted {
			t.Errorf("status = %s, want completed", confirmed.Status)
		}
		if user.Balance != 600 {
			t.Errorf("balance = %v, want 600", user.Balance)
		}
		if deposits := txRepo.byType(models.TransactionTypeDeposit); len(deposits) != 1 {
			t.Errorf("got %d deposit transactions, want 1", len(deposits))
		}
	})

	t.Run("Given a gated deposit When its owner confirms Then the claim is recorded but crediting is refused", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodPaytm, time.Second)

		_, err := ledger.ConfirmPayment(context.Background(), payment.ID.Hex(), user.ID.Hex())
		if !errors.Is(err, ErrRequiresAdminVerification) {
			t.Fatalf("expected ErrRequiresAdminVerification, got %v", err)
		}
		stored := paymentRepo.Payments[payment.ID.Hex()]
		if !stored.ManuallyConfirmed {
			t.Error("expected the confirmation claim to be recorded")
		}
		if stored.Status != models.PaymentStatusPendingVerification {
			t.Errorf("status = %s, want still pending", stored.Status)
		}
		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}
	})

	t.Run("Given a completed deposit When its owner confirms again Then it reports already processed", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodCard, time.Second)

		if _, err := ledger.ConfirmPayment(context.Background(), payment.ID.Hex(), user.ID.Hex()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := ledger.ConfirmPayment(context.Background(), payment.ID.Hex(), user.ID.Hex()); !errors.Is(err, ErrAlreadyProcessed) {
			t.Errorf("expected ErrAlreadyProcessed, got %v", err)
		}
		if user.Balance != 600 {
			t.Errorf("balance = %v, want 600 after a single credit", user.Balance)
		}
		if deposits := txRepo.byType(models.TransactionTypeDeposit); len(deposits) != 1 {
			t.Errorf("got %d deposit transactions, want 1", len(deposits))
		}
	})

	t.Run("Given a deposit owned by someone else When confirming Then it is refused", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		owner := userRepo.addUser(100)
		other := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, owner, 500, models.PaymentMethodCard, time.Second)

		if _, err := ledger.ConfirmPayment(context.Background(), payment.ID.Hex(), other.ID.Hex()); !errors.Is(err, ErrNotPaymentOwner) {
			t.Errorf("expected ErrNotPaymentOwner, got %v", err)
		}
	})
}

func TestAdminDecide(t *testing.T) {
	t.Run("Given a confirmed gated deposit When the admin accepts Then it is credited exactly once", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodPaytm, 10*time.Minute)
		paymentRepo.Payments[payment.ID.Hex()].ManuallyConfirmed = true

		decided, err := ledger.AdminDecide(context.Background(), payment.ID.Hex(), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decided.Status != models.PaymentStatusCompleted {
			t.Errorf("status = %s, want completed", decided.Status)
		}
		if user.Balance != 600 {
			t.Errorf("balance = %v, want 600", user.Balance)
		}

		// A later reconciliation tick must not credit again.
		ledger.ReconcilePending(context.Background(), time.Now())
		if user.Balance != 600 {
			t.Errorf("balance = %v after reconcile, want still 600", user.Balance)
		}
		if deposits := txRepo.byType(models.TransactionTypeDeposit); len(deposits) != 1 {
			t.Errorf("got %d deposit transactions, want 1", len(deposits))
		}
	})

	t.Run("Given a gated deposit When the admin rejects Then it is terminal and never credited", func(t *testing.T) {
		ledger, paymentRepo, userRepo, txRepo := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodGPay, 10*time.Minute)

		decided, err := ledger.AdminDecide(context.Background(), payment.ID.Hex(), false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if decided.Status != models.PaymentStatusRejected {
			t.Errorf("status = %s, want rejected", decided.Status)
		}
		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}

		ledger.ReconcilePending(context.Background(), time.Now())
		if len(txRepo.Transactions) != 0 {
			t.Errorf("rejected payment produced %d transactions", len(txRepo.Transactions))
		}
	})

	t.Run("Given a terminal deposit When the admin decides again Then it reports already processed", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodPaytm, 10*time.Minute)

		if _, err := ledger.AdminDecide(context.Background(), payment.ID.Hex(), false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := ledger.AdminDecide(context.Background(), payment.ID.Hex(), true); !errors.Is(err, ErrAlreadyProcessed) {
			t.Errorf("expected ErrAlreadyProcessed, got %v", err)
		}
		if user.Balance != 100 {
			t.Errorf("balance = %v, want untouched 100", user.Balance)
		}
	})

	t.Run("Given an unknown payment id When the admin decides Then it reports not found", func(t *testing.T) {
		ledger, _, _, _ := newLedgerFixture()

		if _, err := ledger.AdminDecide(context.Background(), "not-a-hex-id", true); !errors.Is(err, ErrPaymentNotFound) {
			t.Errorf("expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestGetPayment(t *testing.T) {
	t.Run("Given a deposit When its owner asks for status Then the current record is returned", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		user := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, user, 500, models.PaymentMethodUPI, time.Second)

		got, err := ledger.GetPayment(context.Background(), payment.ID.Hex(), user.ID.Hex())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.PaymentStatusPendingVerification {
			t.Errorf("status = %s, want pending", got.Status)
		}
	})

	t.Run("Given a deposit When another user asks for status Then it is refused", func(t *testing.T) {
		ledger, paymentRepo, userRepo, _ := newLedgerFixture()
		owner := userRepo.addUser(100)
		other := userRepo.addUser(100)
		payment := seedPayment(paymentRepo, owner, 500, models.PaymentMethodUPI, time.Second)

		if _, err := ledger.GetPayment(context.Background(), payment.ID.Hex(), other.ID.Hex()); !errors.Is(err, ErrNotPaymentOwner) {
			t.Errorf("expected ErrNotPaymentOwner, got %v", err)
		}
	})
}
