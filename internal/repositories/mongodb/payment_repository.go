package mongodb

import (
	"context"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure PaymentRepository implements the interface
var _ repositories.PaymentRepository = (*PaymentRepository)(nil)

// PaymentRepository handles MongoDB operations for PendingPayment
type PaymentRepository struct {
	collection *mongo.Collection
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
	}
}

// Create inserts a new pending payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.PendingPayment) error {
	payment.ID = primitive.NewObjectID()
	payment.Status = models.PaymentStatusPendingVerification
	payment.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, payment)
	return err
}

// FindByID finds a payment by ID
func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.PendingPayment, error) {
	var payment models.PendingPayment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &payment, nil
}

// FindPending finds up to limit payments still awaiting verification,
// oldest first
func (r *PaymentRepository) FindPending(ctx context.Context, limit int64) ([]*models.PendingPayment, error) {
	var payments []*models.PendingPayment
	filter := bson.M{"status": models.PaymentStatusPendingVerification}
	opts := options.Find().SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []*models.PendingPayment{}
	}
	return payments, nil
}

// MarkCompleted transitions pending_verification -> completed. The
// status filter makes the transition happen at most once even when the
// same pending record is observed across multiple ticks.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error) {
	return r.transition(ctx, id, models.PaymentStatusCompleted, processedAt)
}

// MarkRejected transitions pending_verification -> rejected under the same guard
func (r *PaymentRepository) MarkRejected(ctx context.Context, id primitive.ObjectID, processedAt time.Time) (bool, error) {
	return r.transition(ctx, id, models.PaymentStatusRejected, processedAt)
}

func (r *PaymentRepository) transition(ctx context.Context, id primitive.ObjectID, to models.PaymentStatus, processedAt time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": models.PaymentStatusPendingVerification}
	update := bson.M{"$set": bson.M{
		"status":      to,
		"processedAt": processedAt,
	}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// SetManuallyConfirmed records the user's own confirmation claim
func (r *PaymentRepository) SetManuallyConfirmed(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "status": models.PaymentStatusPendingVerification}
	update := bson.M{"$set": bson.M{"manuallyConfirmed": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetAdminVerified records the privileged verification flag
func (r *PaymentRepository) SetAdminVerified(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "status": models.PaymentStatusPendingVerification}
	update := bson.M{"$set": bson.M{"adminVerified": true}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
