package service

import (
	"context"
	"errors"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/repository"
	"fitlink/pt-marketplace/internal/schedule"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSlotTimeConflict        = errors.New("a slot already exists at this start time")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionAccessDenied     = errors.New("access denied to modify this session")
	ErrInvalidStatusTransition = errors.New("invalid session status transition")
)

// AvailabilityBlock is one candidate session block for a package+pattern,
// with a marker when an existing claimed slot already occupies its time.
type AvailabilityBlock struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// --- Service Interface ---
type TrainerService interface {
	GetProfile(ctx context.Context, trainerID primitive.ObjectID) (*domain.TrainerProfile, error)
	UpsertProfile(ctx context.Context, profile *domain.TrainerProfile) (*domain.TrainerProfile, error)
	GetSlots(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time, status domain.SlotStatus) ([]domain.Slot, error)
	CreateSingleSlot(ctx context.Context, trainerID primitive.ObjectID, start, end time.Time, modes domain.DeliveryModes, notes string) (*domain.Slot, error)
	AvailabilityBlocks(ctx context.Context, trainerID, packageID primitive.ObjectID, pattern []int) ([]AvailabilityBlock, error)
	GetSessions(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error)
	UpdateSessionStatus(ctx context.Context, trainerID, sessionID primitive.ObjectID, status domain.SessionStatus, notes string) (*domain.Session, error)
}

// --- Service Implementation ---

// trainerService implements the TrainerService interface.
type trainerService struct {
	profileRepo  repository.TrainerProfileRepository
	packageRepo  repository.PackageRepository
	slotRepo     repository.SlotRepository
	sessionRepo  repository.SessionRepository
	slotTTLGrace time.Duration
	now          func() time.Time // Injected for tests
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	profileRepo repository.TrainerProfileRepository,
	packageRepo repository.PackageRepository,
	slotRepo repository.SlotRepository,
	sessionRepo repository.SessionRepository,
	slotTTLGrace time.Duration,
) TrainerService {
	if slotTTLGrace <= 0 {
		slotTTLGrace = time.Hour
	}
	return &trainerService{
		profileRepo:  profileRepo,
		packageRepo:  packageRepo,
		slotRepo:     slotRepo,
		sessionRepo:  sessionRepo,
		slotTTLGrace: slotTTLGrace,
		now:          time.Now,
	}
}

// GetProfile retrieves the trainer's availability profile.
func (s *trainerService) GetProfile(ctx context.Context, trainerID primitive.ObjectID) (*domain.TrainerProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpsertProfile creates or updates the trainer's profile. Working-hour
// intervals with malformed or inverted clock values are dropped rather than
// rejected, matching the tolerance the scheduling core has for messy input.
func (s *trainerService) UpsertProfile(ctx context.Context, profile *domain.TrainerProfile) (*domain.TrainerProfile, error) {
	if profile == nil || profile.UserID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}
	if profile.DefaultBreakMin < 0 {
		profile.DefaultBreakMin = 0
	}

	cleaned := make([]domain.WorkingDay, 0, len(profile.WorkingHours))
	for _, wd := range profile.WorkingHours {
		if wd.DayOfWeek < 0 || wd.DayOfWeek > 6 {
			continue
		}
		var intervals []domain.ClockInterval
		for _, iv := range wd.Intervals {
			startMin, okStart := schedule.MinutesOfDay(iv.Start)
			endMin, okEnd := schedule.MinutesOfDay(iv.End)
			if !okStart || !okEnd || startMin >= endMin {
				continue
			}
			intervals = append(intervals, iv)
		}
		if len(intervals) > 0 {
			cleaned = append(cleaned, domain.WorkingDay{DayOfWeek: wd.DayOfWeek, Intervals: intervals})
		}
	}
	profile.WorkingHours = cleaned

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, profile.UserID)
}

// GetSlots lists a trainer's slots in [from, to), optionally filtered by status.
func (s *trainerService) GetSlots(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time, status domain.SlotStatus) ([]domain.Slot, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	if from.IsZero() {
		from = schedule.StartOfDay(s.now())
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 30)
	}
	return s.slotRepo.GetByTrainerInRange(ctx, trainerID, from, to, status)
}

// CreateSingleSlot opens one ad-hoc bookable slot outside any package series.
// The unique {trainer, startTime} index is the final arbiter on conflicts.
func (s *trainerService) CreateSingleSlot(ctx context.Context, trainerID primitive.ObjectID, start, end time.Time, modes domain.DeliveryModes, notes string) (*domain.Slot, error) {
	if trainerID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, ErrValidationFailed
	}
	if modes.IsZero() {
		modes = domain.DeliveryModes{AtTrainerGym: true}
	}

	expiresAt := end.Add(s.slotTTLGrace)
	slot := domain.Slot{
		TrainerID: trainerID,
		SeriesID:  uuid.NewString(),
		Kind:      domain.SlotKindSingle,
		Status:    domain.SlotStatusOpen,
		StartTime: start,
		EndTime:   end,
		Modes:     modes,
		Capacity:  1,
		Notes:     notes,
		ExpiresAt: &expiresAt,
	}

	inserted, err := s.slotRepo.InsertNew(ctx, []domain.Slot{slot})
	if err != nil {
		return nil, err
	}
	if inserted == 0 {
		return nil, ErrSlotTimeConflict
	}
	return &slot, nil
}

// AvailabilityBlocks slices the trainer's working hours on the pattern's
// first weekday into candidate session blocks for a package and marks blocks
// whose next concrete occurrence collides with an already-claimed slot.
// Assumes working hours are uniform across the pattern's weekdays, which is
// how packages are set up in practice.
func (s *trainerService) AvailabilityBlocks(ctx context.Context, trainerID, packageID primitive.ObjectID, pattern []int) ([]AvailabilityBlock, error) {
	normalized := schedule.NormalizePattern(pattern)
	if trainerID == primitive.NilObjectID || packageID == primitive.NilObjectID || len(normalized) == 0 {
		return nil, ErrValidationFailed
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileNotFound
		}
		return nil, err
	}

	sessionMin := pkg.SessionDurationMin
	if sessionMin <= 0 {
		sessionMin = 60
	}

	weekday := normalized[0]
	var blocks []schedule.Block
	for _, iv := range profile.IntervalsOn(weekday) {
		startMin, okStart := schedule.MinutesOfDay(iv.Start)
		endMin, okEnd := schedule.MinutesOfDay(iv.End)
		if !okStart || !okEnd {
			continue
		}
		blocks = append(blocks, schedule.SliceInterval(startMin, endMin, sessionMin, profile.DefaultBreakMin)...)
	}
	if len(blocks) == 0 {
		return []AvailabilityBlock{}, nil
	}

	// Anchor each block on the next concrete occurrence of the weekday to
	// compare against persisted slots.
	dates := schedule.OccurrenceDates(s.now(), schedule.Pattern{weekday}, 1)
	startTimes := make([]time.Time, len(blocks))
	for i, b := range blocks {
		startTimes[i] = schedule.AtClock(dates[0], b.StartMin)
	}

	existing, err := s.slotRepo.FindByStartTimes(ctx, trainerID, startTimes)
	if err != nil {
		return nil, err
	}
	claimed := make(map[int64]bool, len(existing))
	for i := range existing {
		if !existing[i].IsUnclaimed() {
			claimed[existing[i].StartTime.Unix()] = true
		}
	}

	out := make([]AvailabilityBlock, len(blocks))
	for i, b := range blocks {
		block := AvailabilityBlock{
			Start:     schedule.Clock(b.StartMin),
			End:       schedule.Clock(b.EndMin),
			Available: true,
		}
		if claimed[startTimes[i].Unix()] {
			block.Available = false
			block.Reason = "slot_taken"
		}
		out[i] = block
	}
	return out, nil
}

// GetSessions lists a trainer's training sessions in [from, to).
func (s *trainerService) GetSessions(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time) ([]domain.Session, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID cannot be nil")
	}
	if from.IsZero() {
		from = schedule.StartOfDay(s.now()).AddDate(0, 0, -30)
	}
	if to.IsZero() {
		to = from.AddDate(0, 0, 60)
	}
	return s.sessionRepo.GetByTrainerID(ctx, trainerID, from, to)
}

// UpdateSessionStatus applies a lifecycle transition to a session, ensuring
// ownership and transition legality.
func (s *trainerService) UpdateSessionStatus(ctx context.Context, trainerID, sessionID primitive.ObjectID, status domain.SessionStatus, notes string) (*domain.Session, error) {
	if trainerID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, ErrValidationFailed
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.TrainerID != trainerID {
		return nil, ErrSessionAccessDenied
	}
	if !session.Status.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, trainerID, status, notes); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}
