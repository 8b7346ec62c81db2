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

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.JoinedContests == nil {
		user.JoinedContests = []models.ParticipantEntry{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindJoinedParticipants finds users holding a joined entry for the contest
func (r *UserRepository) FindJoinedParticipants(ctx context.Context, contestID string) ([]*models.User, error) {
	var users []*models.User
	filter := bson.M{
		"joinedContests": bson.M{"$elemMatch": bson.M{
			"contestId": contestID,
			"status":    models.EntryStatusJoined,
		}},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// FindDirty finds up to limit users whose dirty marker is set
func (r *UserRepository) FindDirty(ctx context.Context, limit int64) ([]*models.User, error) {
	var users []*models.User
	filter := bson.M{"forceRefresh": true}
	opts := options.Find().SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// ApplyJoin debits the entry fee, appends the entry, and sets the dirty marker
func (r *UserRepository) ApplyJoin(ctx context.Context, userID primitive.ObjectID, entry models.ParticipantEntry) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{
			"balance":        -entry.EntryFee,
			"contestsJoined": 1,
		},
		"$push": bson.M{"joinedContests": entry},
		"$set": bson.M{
			"forceRefresh": true,
			"updatedAt":    time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyWin credits the prize and flips the matching joined entry to won
func (r *UserRepository) ApplyWin(ctx context.Context, userID primitive.ObjectID, contestID string, prize float64, position string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{
			"balance":       prize,
			"contestsWon":   1,
			"totalWinnings": prize,
		},
		"$set": bson.M{
			"joinedContests.$[e].status":   models.EntryStatusWon,
			"joinedContests.$[e].prizeWon": prize,
			"joinedContests.$[e].position": position,
			"forceRefresh":                 true,
			"updatedAt":                    time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"e.contestId": contestID,
			"e.status":    models.EntryStatusJoined,
		}},
	})
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ApplyLoss flips the matching joined entry to completed with no prize
func (r *UserRepository) ApplyLoss(ctx context.Context, userID primitive.ObjectID, contestID string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"joinedContests.$[e].status":   models.EntryStatusCompleted,
			"joinedContests.$[e].prizeWon": 0.0,
			"joinedContests.$[e].position": nil,
			"forceRefresh":                 true,
			"updatedAt":                    time.Now(),
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{
			"e.contestId": contestID,
			"e.status":    models.EntryStatusJoined,
		}},
	})
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CreditBalance atomically increments the balance and sets the dirty marker
func (r *UserRepository) CreditBalance(ctx context.Context, userID primitive.ObjectID, amount float64) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{
			"forceRefresh": true,
			"updatedAt":    time.Now(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SyncAggregates writes the recomputed statistics and clears the dirty
// marker in the same update
func (r *UserRepository) SyncAggregates(ctx context.Context, userID primitive.ObjectID, agg models.ProfileAggregates, syncedAt time.Time) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"contestsJoined":  agg.ContestsJoined,
			"contestsWon":     agg.ContestsWon,
			"totalWinnings":   agg.TotalWinnings,
			"winRate":         agg.WinRate,
			"lastProfileSync": syncedAt,
			"updatedAt":       syncedAt,
		},
		"$unset": bson.M{"forceRefresh": ""},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
