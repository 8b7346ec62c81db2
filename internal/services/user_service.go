package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure UserServiceImpl implements UserService
var _ UserService = (*UserServiceImpl)(nil)

const recentTransactionLimit = 50

// UserServiceImpl handles user-facing operations: profile reads and
// the contest join path
type UserServiceImpl struct {
	userRepo    repositories.UserRepository
	contestRepo repositories.ContestRepository
	txRepo      repositories.TransactionRepository
	store       repositories.AtomicRunner
}

// NewUserService creates a new UserServiceImpl
func NewUserService(
	userRepo repositories.UserRepository,
	contestRepo repositories.ContestRepository,
	txRepo repositories.TransactionRepository,
	store repositories.AtomicRunner,
) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:    userRepo,
		contestRepo: contestRepo,
		txRepo:      txRepo,
		store:       store,
	}
}

// CreateUser bootstraps a player account with zero balance
func (s *UserServiceImpl) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		JoinedContests: []models.ParticipantEntry{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("User created", "userId", user.ID.Hex())
	return user, nil
}

// GetUser returns the profile and the most recent transactions,
// newest first
func (s *UserServiceImpl) GetUser(ctx context.Context, uid string) (*models.User, []*models.Transaction, error) {
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("failed to load user: %w", err)
	}

	transactions, err := s.txRepo.FindRecentByUser(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return user, transactions, nil
}

// JoinContest validates the entry and applies the join as one atomic
// batch: balance debit, entry append, ledger record, dirty marker, and
// the instance's participant counter bump.
func (s *UserServiceImpl) JoinContest(ctx context.Context, uid, contestID string) error {
	userID, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	contest, err := s.contestRepo.FindByID(ctx, contestID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrContestNotFound
		}
		return fmt.Errorf("failed to load contest: %w", err)
	}
	if contest.Status != models.ContestStatusActive {
		return ErrContestClosed
	}
	if contest.CurrentParticipants >= contest.MaxParticipants {
		return ErrContestFull
	}
	if user.Balance < contest.EntryFee {
		return ErrInsufficientBalance
	}

	now := time.Now()
	entry := models.ParticipantEntry{
		ContestID: contestID,
		JoinedAt:  now,
		EntryFee:  contest.EntryFee,
		Status:    models.EntryStatusJoined,
		PrizeWon:  0,
		Position:  nil,
	}

	err = s.store.RunAtomic(ctx, func(ctx context.Context) error {
		if err := s.userRepo.ApplyJoin(ctx, userID, entry); err != nil {
			return fmt.Errorf("failed to apply join: %w", err)
		}
		tx := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionTypeContestEntry,
			Amount:      -contest.EntryFee,
			Description: fmt.Sprintf("Joined contest: %s", contest.Title),
			ContestID:   contestID,
			Timestamp:   now,
		}
		if err := s.txRepo.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to record entry transaction: %w", err)
		}
		return s.contestRepo.IncrementParticipants(ctx, contestID)
	})
	if err != nil {
		return fmt.Errorf("join batch for contest %s failed: %w", contestID, err)
	}

	slog.Info("Contest joined", "userId", uid, "contestId", contestID, "entryFee", contest.EntryFee)
	return nil
}
