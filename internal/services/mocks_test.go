package services

import (
	"context"
	"sync"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Hand-rolled in-memory fakes for the repository interfaces. They
// mirror the guarded-update semantics of the MongoDB implementations
// so the services' exactly-once behavior is observable in tests.

// --- AtomicRunner ---

type mockStore struct {
	RunCalls int
}

func (s *mockStore) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	s.RunCalls++
	return fn(ctx)
}

// --- DeferredScheduler ---

type mockDeferred struct {
	mu    sync.Mutex
	Names []string
	Tasks []func()
}

func (d *mockDeferred) Once(delay time.Duration, name string, task func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Names = append(d.Names, name)
	d.Tasks = append(d.Tasks, task)
	return nil
}

// --- ContestRepository ---

type mockContestRepo struct {
	Contests map[string]*models.ContestInstance
}

func newMockContestRepo() *mockContestRepo {
	return &mockContestRepo{Contests: make(map[string]*models.ContestInstance)}
}

func (r *mockContestRepo) FindAll(ctx context.Context) ([]*models.ContestInstance, error) {
	out := make([]*models.ContestInstance, 0, len(r.Contests))
	for _, c := range r.Contests {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func (r *mockContestRepo) FindByID(ctx context.Context, id string) (*models.ContestInstance, error) {
	c, ok := r.Contests[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *c
	return &copied, nil
}

func (r *mockContestRepo) Upsert(ctx context.Context, instance *models.ContestInstance) error {
	copied := *instance
	r.Contests[instance.ID] = &copied
	return nil
}

func (r *mockContestRepo) TransitionStatus(ctx context.Context, id string, from, to models.ContestStatus) (bool, error) {
	c, ok := r.Contests[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (r *mockContestRepo) SetParticipants(ctx context.Context, id string, count int) error {
	if c, ok := r.Contests[id]; ok {
		c.CurrentParticipants = count
	}
	return nil
}

func (r *mockContestRepo) IncrementParticipants(ctx context.Context, id string) error {
	c, ok := r.Contests[id]
	if !ok {
		return nil
	}
	if c.Status == models.ContestStatusActive && c.CurrentParticipants < c.MaxParticipants {
		c.CurrentParticipants++
	}
	return nil
}

func (r *mockContestRepo) Complete(ctx context.Context, id string, completedAt time.Time) error {
	if c, ok := r.Contests[id]; ok {
		c.Status = models.ContestStatusCompleted
		c.CompletedAt = completedAt
	}
	return nil
}

// --- UserRepository ---

type mockUserRepo struct {
	Users map[string]*models.User // keyed by hex id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{Users: make(map[string]*models.User)}
}

func (r *mockUserRepo) addUser(balance float64, entries ...models.ParticipantEntry) *models.User {
	user := &models.User{
		ID:             primitive.NewObjectID(),
		Balance:        balance,
		JoinedContests: append([]models.ParticipantEntry{}, entries...),
	}
	r.Users[user.ID.Hex()] = user
	return user
}

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.Users[user.ID.Hex()] = user
	return nil
}

func (r *mockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.Users[id.Hex()]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return user, nil
}

func (r *mockUserRepo) FindJoinedParticipants(ctx context.Context, contestID string) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.Users {
		for _, entry := range user.JoinedContests {
			if entry.ContestID == contestID && entry.Status == models.EntryStatusJoined {
				out = append(out, user)
				break
			}
		}
	}
	return out, nil
}

func (r *mockUserRepo) FindDirty(ctx context.Context, limit int64) ([]*models.User, error) {
	var out []*models.User
	for _, user := range r.Users {
		if user.ForceRefresh && int64(len(out)) < limit {
			out = append(out, user)
		}
	}
	return out, nil
}

func (r *mockUserRepo) ApplyJoin(ctx context.Context, userID primitive.ObjectID, entry models.ParticipantEntry) error {
	user, ok := r.Users[userID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Balance -= entry.EntryFee
	user.ContestsJoined++
	user.JoinedContests = append(user.JoinedContests, entry)
	user.ForceRefresh = true
	return nil
}

func (r *mockUserRepo) ApplyWin(ctx context.Context, userID primitive.ObjectID, contestID string, prize float64, position string) error {
	user, ok := r.Users[userID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range user.JoinedContests {
		e := &user.JoinedContests[i]
		if e.ContestID == contestID && e.Status == models.EntryStatusJoined {
			e.Status = models.EntryStatusWon
			e.PrizeWon = prize
			pos := position
			e.Position = &pos
		}
	}
	user.Balance += prize
	user.ContestsWon++
	user.TotalWinnings += prize
	user.ForceRefresh = true
	return nil
}

func (r *mockUserRepo) ApplyLoss(ctx context.Context, userID primitive.ObjectID, contestID string) error {
	user, ok := r.Users[userID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range user.JoinedContests {
		e := &user.JoinedContests[i]
		if e.ContestID == contestID && e.Status == models.EntryStatusJoined {
			e.Status = models.EntryStatusCompleted
			e.PrizeWon = 0
			e.Position = nil
		}
	}
	user.ForceRefresh = true
	return nil
}

func (r *mockUserRepo) CreditBalance(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	user, ok := r.Users[userID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.Balance += amount
	user.ForceRefresh = true
	return nil
}

func (r *mockUserRepo) SyncAggregates(ctx context.Context, userID primitive.ObjectID, agg models.ProfileAggregates, syncedAt time.Time) error {
	user, ok := r.Users[userID.Hex()]
	if !ok {
		return mongo.ErrNoDocuments
	}
	user.ContestsJoined = agg.ContestsJoined
	user.ContestsWon = agg.ContestsWon
	user.TotalWinnings = agg.TotalWinnings
	user.WinRate = agg.WinRate
	user.ForceRefresh = false
	user.LastProfileSync = syncedAt
	return nil
}

// --- PaymentRepository ---

type mockPaymentRepo struct {
	Payments map[string]*models.PendingPayment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{Payments: make(map[string]*models.PendingPayment)}
}

func (r *mockPaymentRepo) Create(ctx context.Context, payment *models.PendingPayment) error {
	payment.ID = primitive.NewObjectID()
	payment.Status = models.PaymentStatusPendingVerification
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	r.Payments[payment.ID.Hex()] = payment
	return nil
}

func (r *mockPaymentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PendingPayment, error) {
	payment, ok := r.Payments[id.Hex()]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *payment
	return &copied, nil
}

func (r *mockPaymentRepo) FindPending(ctx context.Context, limit int64) ([]*models.PendingPayment, error) {
	var out []*models.PendingPayment
	for _, payment := range r.Payments {
		if payment.Status == models.PaymentStatusPendingVerification && int64(len(out)) < limit {
			copied := *payment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *mockPaymentRepo) MarkCompleted(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error) {
	return r.transition(id, models.PaymentStatusCompleted, processedAt), nil
}

func (r *mockPaymentRepo) MarkRejected(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error) {
	return r.transition(id, models.PaymentStatusRejected, processedAt), nil
}

func (r *mockPaymentRepo) transition(id primitive.ObjectID, to models.PaymentStatus, processedAt time.Time) bool {
	payment, ok := r.Payments[id.Hex()]
	if !ok || payment.Status != models.PaymentStatusPendingVerification {
		return false
	}
	payment.Status = to
	payment.ProcessedAt = processedAt
	return true
}

func (r *mockPaymentRepo) SetManuallyConfirmed(ctx context.Context, id primitive.ObjectID) error {
	payment, ok := r.Payments[id.Hex()]
	if !ok || payment.Status != models.PaymentStatusPendingVerification {
		return mongo.ErrNoDocuments
	}
	payment.ManuallyConfirmed = true
	return nil
}

func (r *mockPaymentRepo) SetAdminVerified(ctx context.Context, id primitive.ObjectID) error {
	payment, ok := r.Payments[id.Hex()]
	if !ok || payment.Status != models.PaymentStatusPendingVerification {
		return mongo.ErrNoDocuments
	}
	payment.AdminVerified = true
	return nil
}

// --- TransactionRepository ---

type mockTransactionRepo struct {
	Transactions []*models.Transaction
	CreateErr    error
}

func newMockTransactionRepo() *mockTransactionRepo {
	return &mockTransactionRepo{}
}

func (r *mockTransactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	tx.ID = primitive.NewObjectID()
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now()
	}
	copied := *tx
	r.Transactions = append(r.Transactions, &copied)
	return nil
}

func (r *mockTransactionRepo) FindRecentByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for i := len(r.Transactions) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if r.Transactions[i].UserID == userID {
			out = append(out, r.Transactions[i])
		}
	}
	return out, nil
}

func (r *mockTransactionRepo) byType(t models.TransactionType) []*models.Transaction {
	var out []*models.Transaction
	for _, tx := range r.Transactions {
		if tx.Type == t {
			out = append(out, tx)
		}
	}
	return out
}
