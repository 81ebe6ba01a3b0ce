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

const packageCollectionName = "packages"

// mongoPackageRepository implements repository.PackageRepository
type mongoPackageRepository struct {
	collection *mongo.Collection
}

// NewMongoPackageRepository creates a new Package repository backed by MongoDB.
func NewMongoPackageRepository(db *mongo.Database) repository.PackageRepository {
	return &mongoPackageRepository{
		collection: db.Collection(packageCollectionName),
	}
}

// Create inserts a new package into the database.
func (r *mongoPackageRepository) Create(ctx context.Context, pkg *domain.Package) (primitive.ObjectID, error) {
	if pkg.Name == "" || pkg.TrainerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("package name and trainer ID are required")
	}

	pkg.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, pkg)
	if err != nil {
		// Name is unique per trainer.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves a package by its ID.
func (r *mongoPackageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Package, error) {
	var pkg domain.Package
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&pkg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// GetByTrainerID retrieves all packages owned by a specific trainer.
func (r *mongoPackageRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Package, error) {
	filter := bson.M{"pt": trainerID}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}) // Newest first

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var packages []domain.Package
	if err = cursor.All(ctx, &packages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return packages, nil
}

// Update modifies an existing package. The owner (TrainerID) is never changed
// by an update.
func (r *mongoPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	if pkg.ID == primitive.NilObjectID {
		return errors.New("package ID is required for update")
	}
	if pkg.Name == "" {
		return errors.New("package name cannot be empty")
	}

	filter := bson.M{"_id": pkg.ID}
	update := bson.M{
		"$set": bson.M{
			"name":               pkg.Name,
			"description":        pkg.Description,
			"price":              pkg.Price,
			"totalSessions":      pkg.TotalSessions,
			"sessionDurationMin": pkg.SessionDurationMin,
			"durationDays":       pkg.DurationDays,
			"recurrence":         pkg.Recurrence,
			"visibility":         pkg.Visibility,
			"supports":           pkg.Supports,
			"tags":               pkg.Tags,
			"updatedAt":          time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetActive toggles a package's active flag, ensuring it belongs to the
// specified trainer.
func (r *mongoPackageRepository) SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error {
	filter := bson.M{"_id": id, "pt": trainerID}
	update := bson.M{
		"$set": bson.M{
			"isActive":  active,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePackageIndexes creates necessary indexes for the packages collection.
func EnsurePackageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Unique package name per trainer.
			Keys:    bson.D{{Key: "pt", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "pt", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}},
			Options: options.Index().SetName("package_text_search"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
