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

const trainerProfileCollectionName = "trainer_profiles"

// mongoTrainerProfileRepository implements repository.TrainerProfileRepository
type mongoTrainerProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainerProfileRepository creates a new TrainerProfile repository
// backed by MongoDB.
func NewMongoTrainerProfileRepository(db *mongo.Database) repository.TrainerProfileRepository {
	return &mongoTrainerProfileRepository{
		collection: db.Collection(trainerProfileCollectionName),
	}
}

// GetByUserID retrieves the profile for a trainer user. One profile per user.
func (r *mongoTrainerProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainerProfile, error) {
	var profile domain.TrainerProfile
	filter := bson.M{"user": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates or replaces the trainer's profile fields. The user link is
// the natural key.
func (r *mongoTrainerProfileRepository) Upsert(ctx context.Context, profile *domain.TrainerProfile) error {
	if profile.UserID == primitive.NilObjectID {
		return errors.New("profile user ID is required")
	}

	now := time.Now().UTC()
	filter := bson.M{"user": profile.UserID}
	update := bson.M{
		"$set": bson.M{
			"bio":                    profile.Bio,
			"specialties":            profile.Specialties,
			"yearsExperience":        profile.YearsExperience,
			"gymLocation":            profile.GymLocation,
			"workingHours":           profile.WorkingHours,
			"defaultBreakMin":        profile.DefaultBreakMin,
			"deliveryModes":          profile.DeliveryModes,
			"availableForNewClients": profile.AvailableForNewClients,
			"updatedAt":              now,
		},
		"$setOnInsert": bson.M{
			"user":      profile.UserID,
			"createdAt": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// EnsureTrainerProfileIndexes creates necessary indexes for the
// trainer_profiles collection.
func EnsureTrainerProfileIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "verified", Value: 1}, {Key: "availableForNewClients", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
