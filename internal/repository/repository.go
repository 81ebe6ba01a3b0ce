package repository

import (
	"context"
	"time"

	"fitlink/pt-marketplace/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PackageRepository defines the interface for interacting with package data.
type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Package, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Package, error)
	Update(ctx context.Context, pkg *domain.Package) error
	SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error
}

// TrainerProfileRepository defines the interface for trainer availability data.
// The scheduling core only ever reads profiles; writes come from the trainer
// profile endpoints.
type TrainerProfileRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainerProfile, error)
	Upsert(ctx context.Context, profile *domain.TrainerProfile) error
}

// SlotRepository defines the interface for interacting with slot data.
//
// InsertNew has insert-or-skip semantics: candidates colliding with an
// existing {trainer, startTime} pair are skipped, not errors, and the
// returned count covers genuinely-new slots only. This is what makes
// schedule regeneration safe to re-run.
type SlotRepository interface {
	InsertNew(ctx context.Context, slots []domain.Slot) (int, error)
	GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time, status domain.SlotStatus) ([]domain.Slot, error)
	FindByStartTimes(ctx context.Context, trainerID primitive.ObjectID, startTimes []time.Time) ([]domain.Slot, error)
}

// SessionRepository defines the interface for interacting with training
// session records.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
	UpdateStatus(ctx context.Context, id, trainerID primitive.ObjectID, status domain.SessionStatus, notes string) error
}
