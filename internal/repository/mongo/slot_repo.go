package mongo

import (
	"context"
	"errors"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const slotCollectionName = "slots"

// duplicateKeyCode is MongoDB's error code for a unique index violation.
const duplicateKeyCode = 11000

// mongoSlotRepository implements repository.SlotRepository
type mongoSlotRepository struct {
	collection *mongo.Collection
}

// NewMongoSlotRepository creates a new Slot repository backed by MongoDB.
func NewMongoSlotRepository(db *mongo.Database) repository.SlotRepository {
	return &mongoSlotRepository{
		collection: db.Collection(slotCollectionName),
	}
}

// InsertNew bulk-inserts candidate slots with insert-or-skip semantics.
// The insert is unordered so one duplicate does not abort the batch; a
// duplicate {pt, startTime} pair simply means the slot was already
// materialized by an earlier or concurrent generate call. Any write error
// other than a duplicate key is surfaced.
func (r *mongoSlotRepository) InsertNew(ctx context.Context, slots []domain.Slot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(slots))
	for i := range slots {
		if slots[i].ID == primitive.NilObjectID {
			slots[i].ID = primitive.NewObjectID()
		}
		slots[i].CreatedAt = now
		slots[i].UpdatedAt = now
		docs[i] = slots[i]
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return len(docs), nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return 0, err
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return 0, err
		}
	}
	return len(docs) - len(bwe.WriteErrors), nil
}

// GetByTrainerInRange retrieves a trainer's slots with startTime in [from, to),
// optionally filtered by status, sorted ascending by start time.
func (r *mongoSlotRepository) GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time, status domain.SlotStatus) ([]domain.Slot, error) {
	filter := bson.M{
		"pt":        trainerID,
		"startTime": bson.M{"$gte": from, "$lt": to},
	}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []domain.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// FindByStartTimes retrieves the trainer's slots whose startTime is in the
// given set. Used to mark availability blocks already taken by existing slots.
func (r *mongoSlotRepository) FindByStartTimes(ctx context.Context, trainerID primitive.ObjectID, startTimes []time.Time) ([]domain.Slot, error) {
	if len(startTimes) == 0 {
		return []domain.Slot{}, nil
	}

	filter := bson.M{
		"pt":        trainerID,
		"startTime": bson.M{"$in": startTimes},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []domain.Slot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// EnsureSlotIndexes creates necessary indexes for the slots collection.
func EnsureSlotIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// No double booking: a trainer never has two slots at the same start.
			Keys:    bson.D{{Key: "pt", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Fast listing by trainer + status over a time range.
			Keys:    bson.D{{Key: "pt", Value: 1}, {Key: "status", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "seriesId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			// TTL: the store removes the slot once expiresAt passes.
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
