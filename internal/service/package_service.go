package service

import (
	"context"
	"errors"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/repository"
	"fitlink/pt-marketplace/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPackageAccessDenied = errors.New("access denied to modify this package")
	ErrPackageNameTaken    = errors.New("a package with this name already exists for this trainer")
)

// PackageInput carries the trainer-editable fields of a package.
type PackageInput struct {
	Name               string
	Description        string
	Price              int64
	TotalSessions      int
	SessionDurationMin int
	DurationDays       int
	DaysOfWeek         [][]int
	Visibility         domain.PackageVisibility
	Supports           domain.DeliveryModes
	Tags               []string
}

// --- Service Interface ---
type PackageService interface {
	CreatePackage(ctx context.Context, trainerID primitive.ObjectID, input PackageInput) (*domain.Package, error)
	GetPackageByID(ctx context.Context, packageID primitive.ObjectID) (*domain.Package, error)
	GetPackagesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Package, error)
	UpdatePackage(ctx context.Context, trainerID, packageID primitive.ObjectID, input PackageInput) (*domain.Package, error)
	SetPackageActive(ctx context.Context, trainerID, packageID primitive.ObjectID, active bool) error
}

// --- Service Implementation ---

// packageService implements the PackageService interface.
type packageService struct {
	packageRepo repository.PackageRepository
}

// NewPackageService creates a new instance of packageService.
func NewPackageService(packageRepo repository.PackageRepository) PackageService {
	return &packageService{packageRepo: packageRepo}
}

func validatePackageInput(input PackageInput) error {
	if input.Name == "" {
		return ErrValidationFailed
	}
	if input.TotalSessions <= 0 || input.SessionDurationMin <= 0 || input.DurationDays <= 0 {
		return ErrValidationFailed
	}
	// A package with no usable recurrence pattern can never be expanded into
	// a schedule; reject it up front rather than failing at generate time.
	if len(schedule.NormalizePatterns(input.DaysOfWeek)) == 0 {
		return ErrValidationFailed
	}
	return nil
}

// CreatePackage handles the creation of a new package by a trainer.
func (s *packageService) CreatePackage(ctx context.Context, trainerID primitive.ObjectID, input PackageInput) (*domain.Package, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required to create a package")
	}
	if err := validatePackageInput(input); err != nil {
		return nil, err
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	supports := input.Supports
	if supports.IsZero() {
		supports = domain.DeliveryModes{AtTrainerGym: true}
	}

	pkg := &domain.Package{
		TrainerID:          trainerID,
		Name:               input.Name,
		Description:        input.Description,
		Price:              input.Price,
		TotalSessions:      input.TotalSessions,
		SessionDurationMin: input.SessionDurationMin,
		DurationDays:       input.DurationDays,
		Recurrence:         domain.Recurrence{DaysOfWeek: input.DaysOfWeek},
		IsActive:           true,
		Visibility:         visibility,
		Supports:           supports,
		Tags:               input.Tags,
	}

	packageID, err := s.packageRepo.Create(ctx, pkg)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPackageNameTaken
		}
		return nil, err
	}
	return s.packageRepo.GetByID(ctx, packageID) // Fetch again to get all fields
}

// GetPackageByID retrieves a single package.
func (s *packageService) GetPackageByID(ctx context.Context, packageID primitive.ObjectID) (*domain.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return pkg, nil
}

// GetPackagesByTrainer retrieves all packages for a specific trainer.
func (s *packageService) GetPackagesByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Package, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	return s.packageRepo.GetByTrainerID(ctx, trainerID)
}

// UpdatePackage handles updating an existing package, ensuring ownership.
func (s *packageService) UpdatePackage(ctx context.Context, trainerID, packageID primitive.ObjectID, input PackageInput) (*domain.Package, error) {
	if trainerID == primitive.NilObjectID || packageID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and package ID are required")
	}
	if err := validatePackageInput(input); err != nil {
		return nil, err
	}

	existing, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	if existing.TrainerID != trainerID {
		return nil, ErrPackageAccessDenied
	}

	existing.Name = input.Name
	existing.Description = input.Description
	existing.Price = input.Price
	existing.TotalSessions = input.TotalSessions
	existing.SessionDurationMin = input.SessionDurationMin
	existing.DurationDays = input.DurationDays
	existing.Recurrence = domain.Recurrence{DaysOfWeek: input.DaysOfWeek}
	if input.Visibility != "" {
		existing.Visibility = input.Visibility
	}
	if !input.Supports.IsZero() {
		existing.Supports = input.Supports
	}
	existing.Tags = input.Tags

	if err := s.packageRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrPackageNameTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return existing, nil
}

// SetPackageActive toggles a package's availability for sale. The repository
// filter enforces ownership at the DB level.
func (s *packageService) SetPackageActive(ctx context.Context, trainerID, packageID primitive.ObjectID, active bool) error {
	if trainerID == primitive.NilObjectID || packageID == primitive.NilObjectID {
		return errors.New("trainer ID and package ID are required")
	}

	err := s.packageRepo.SetActive(ctx, packageID, trainerID, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPackageNotFound
		}
		return err
	}
	return nil
}
