package mongodb

import (
	"context"
	"time"

	"github.com/Vishall333/Smartlottery/internal/models"
	"github.com/Vishall333/Smartlottery/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ContestRepository implements the interface
var _ repositories.ContestRepository = (*ContestRepository)(nil)

// ContestRepository handles MongoDB operations for ContestInstance
type ContestRepository struct {
	collection *mongo.Collection
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(db *mongo.Database) *ContestRepository {
	return &ContestRepository{
		collection: db.Collection("contests"),
	}
}

// FindAll retrieves all contest instances
func (r *ContestRepository) FindAll(ctx context.Context) ([]*models.ContestInstance, error) {
	var contests []*models.ContestInstance
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &contests); err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []*models.ContestInstance{}
	}
	return contests, nil
}

// FindByID finds a contest instance by its template id
func (r *ContestRepository) FindByID(ctx context.Context, id string) (*models.ContestInstance, error) {
	var contest models.ContestInstance
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contest)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &contest, nil
}

// Upsert writes a contest instance, replacing any previous cycle in place
func (r *ContestRepository) Upsert(ctx context.Context, instance *models.ContestInstance) error {
	filter := bson.M{"_id": instance.ID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, filter, instance, opts)
	return err
}

// TransitionStatus performs a guarded status compare-and-set
func (r *ContestRepository) TransitionStatus(ctx context.Context, id string, from, to models.ContestStatus) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// SetParticipants writes the simulated participant counter
func (r *ContestRepository) SetParticipants(ctx context.Context, id string, count int) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"currentParticipants": count}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// IncrementParticipants bumps the counter by one while the instance is
// active and below capacity
func (r *ContestRepository) IncrementParticipants(ctx context.Context, id string) error {
	filter := bson.M{
		"_id":    id,
		"status": models.ContestStatusActive,
		"$expr":  bson.M{"$lt": bson.A{"$currentParticipants", "$maxParticipants"}},
	}
	update := bson.M{"$inc": bson.M{"currentParticipants": 1}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// Complete marks the instance completed
func (r *ContestRepository) Complete(ctx context.Context, id string, completedAt time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{
		"status":      models.ContestStatusCompleted,
		"completedAt": completedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
