package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/repository"
	"fitlink/pt-marketplace/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPackageNotFound        = errors.New("package not found")
	ErrTrainerProfileNotFound = errors.New("trainer profile not found")
	ErrNoSlotsGenerated       = errors.New("no slots could be generated")
	ErrValidationFailed       = errors.New("validation failed")
)

// ScheduleDraft is an inline package descriptor for previewing a schedule
// before the package itself exists.
type ScheduleDraft struct {
	TotalSessions      int
	SessionDurationMin int
	DaysOfWeek         [][]int
}

// ScheduleOptions are the knobs shared by Preview and Generate.
// CarryForward defaults to true at the API layer; a zero BaseDate means "today".
type ScheduleOptions struct {
	BaseDate     time.Time
	CarryForward bool
	SpreadWeekly bool
}

// --- Service Interface ---
type ScheduleService interface {
	Preview(ctx context.Context, packageID primitive.ObjectID, opts ScheduleOptions) ([]schedule.PreviewSlot, error)
	PreviewDraft(ctx context.Context, trainerID primitive.ObjectID, draft ScheduleDraft, opts ScheduleOptions) ([]schedule.PreviewSlot, error)
	Generate(ctx context.Context, packageID primitive.ObjectID, opts ScheduleOptions) (int, error)
}

// --- Service Implementation ---

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	packageRepo  repository.PackageRepository
	profileRepo  repository.TrainerProfileRepository
	slotRepo     repository.SlotRepository
	slotTTLGrace time.Duration
	now          func() time.Time // Injected for tests
}

// NewScheduleService creates a new instance of scheduleService.
// slotTTLGrace is how long after its end time a generated slot survives
// before the store's TTL removes it; non-positive values fall back to 1h.
func NewScheduleService(
	packageRepo repository.PackageRepository,
	profileRepo repository.TrainerProfileRepository,
	slotRepo repository.SlotRepository,
	slotTTLGrace time.Duration,
) ScheduleService {
	if slotTTLGrace <= 0 {
		slotTTLGrace = time.Hour
	}
	return &scheduleService{
		packageRepo:  packageRepo,
		profileRepo:  profileRepo,
		slotRepo:     slotRepo,
		slotTTLGrace: slotTTLGrace,
		now:          time.Now,
	}
}

// dayHoursOf converts a profile's working hours into the scheduler's input
// shape.
func dayHoursOf(profile *domain.TrainerProfile) schedule.DayHours {
	hours := make(schedule.DayHours, len(profile.WorkingHours))
	for _, wd := range profile.WorkingHours {
		for _, iv := range wd.Intervals {
			hours[wd.DayOfWeek] = append(hours[wd.DayOfWeek], schedule.Interval{Start: iv.Start, End: iv.End})
		}
	}
	return hours
}

// buildPreview runs the pure scheduling core for one package + profile.
func (s *scheduleService) buildPreview(pkg *domain.Package, profile *domain.TrainerProfile, opts ScheduleOptions) []schedule.PreviewSlot {
	plan := schedule.PackagePlan{
		TotalSessions:      pkg.TotalSessions,
		SessionDurationMin: pkg.SessionDurationMin,
		Patterns:           schedule.NormalizePatterns(pkg.Recurrence.DaysOfWeek),
	}

	base := opts.BaseDate
	if base.IsZero() {
		base = s.now()
	}
	base = schedule.StartOfDay(base)

	slots := schedule.BuildPreview(plan, dayHoursOf(profile), profile.DefaultBreakMin, base)
	if opts.CarryForward {
		slots = schedule.CarryForward(slots, s.now(), opts.SpreadWeekly)
	}
	return slots
}

// loadPackageAndProfile fetches the package and its owner's availability.
func (s *scheduleService) loadPackageAndProfile(ctx context.Context, packageID primitive.ObjectID) (*domain.Package, *domain.TrainerProfile, error) {
	if packageID == primitive.NilObjectID {
		return nil, nil, ErrValidationFailed
	}
	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrPackageNotFound
		}
		return nil, nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, pkg.TrainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrTrainerProfileNotFound
		}
		return nil, nil, err
	}
	return pkg, profile, nil
}

// Preview computes the candidate slot list for a package without persisting
// anything.
func (s *scheduleService) Preview(ctx context.Context, packageID primitive.ObjectID, opts ScheduleOptions) ([]schedule.PreviewSlot, error) {
	pkg, profile, err := s.loadPackageAndProfile(ctx, packageID)
	if err != nil {
		return nil, err
	}
	return s.buildPreview(pkg, profile, opts), nil
}

// PreviewDraft previews a schedule for a package that only exists as a draft
// in the trainer's editor. The trainer comes from the caller's identity, not
// from the draft.
func (s *scheduleService) PreviewDraft(ctx context.Context, trainerID primitive.ObjectID, draft ScheduleDraft, opts ScheduleOptions) ([]schedule.PreviewSlot, error) {
	if draft.TotalSessions <= 0 || draft.SessionDurationMin <= 0 {
		return nil, ErrValidationFailed
	}
	profile, err := s.profileRepo.GetByUserID(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerProfileNotFound
		}
		return nil, err
	}

	pkgLike := &domain.Package{
		TrainerID:          trainerID,
		TotalSessions:      draft.TotalSessions,
		SessionDurationMin: draft.SessionDurationMin,
		Recurrence:         domain.Recurrence{DaysOfWeek: draft.DaysOfWeek},
	}
	return s.buildPreview(pkgLike, profile, opts), nil
}

// Generate computes the slot list for a package and persists it as OPEN
// slots. Returns the number of genuinely-new slots; candidates already
// materialized by an earlier or concurrent call are skipped silently, so
// re-running Generate is safe.
func (s *scheduleService) Generate(ctx context.Context, packageID primitive.ObjectID, opts ScheduleOptions) (int, error) {
	pkg, profile, err := s.loadPackageAndProfile(ctx, packageID)
	if err != nil {
		return 0, err
	}

	slots := s.buildPreview(pkg, profile, opts)
	if len(slots) == 0 {
		return 0, ErrNoSlotsGenerated
	}

	modes := profile.DeliveryModes
	if modes.IsZero() {
		modes = domain.DeliveryModes{AtTrainerGym: true}
	}

	pkgID := pkg.ID
	records := make([]domain.Slot, len(slots))
	for i, ps := range slots {
		expiresAt := ps.EndTime.Add(s.slotTTLGrace)
		records[i] = domain.Slot{
			TrainerID: pkg.TrainerID,
			PackageID: &pkgID,
			SeriesID:  fmt.Sprintf("%s:%s", pkg.ID.Hex(), ps.Pattern.Key()),
			Kind:      domain.SlotKindRecurring,
			Status:    domain.SlotStatusOpen,
			StartTime: ps.StartTime,
			EndTime:   ps.EndTime,
			Modes:     modes,
			Capacity:  1,
			ExpiresAt: &expiresAt,
		}
	}

	return s.slotRepo.InsertNew(ctx, records)
}
