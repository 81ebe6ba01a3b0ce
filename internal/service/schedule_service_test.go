package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitlink/pt-marketplace/internal/domain"
	"fitlink/pt-marketplace/internal/repository"
	"fitlink/pt-marketplace/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Fakes ---

type fakePackageRepo struct {
	packages  map[primitive.ObjectID]*domain.Package
	createErr error
	updateErr error
}

func (f *fakePackageRepo) Create(ctx context.Context, pkg *domain.Package) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	id := primitive.NewObjectID()
	pkg.ID = id
	if f.packages == nil {
		f.packages = map[primitive.ObjectID]*domain.Package{}
	}
	f.packages[id] = pkg
	return id, nil
}

func (f *fakePackageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Package, error) {
	pkg, ok := f.packages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *pkg
	return &cp, nil
}

func (f *fakePackageRepo) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Package, error) {
	var out []domain.Package
	for _, pkg := range f.packages {
		if pkg.TrainerID == trainerID {
			out = append(out, *pkg)
		}
	}
	return out, nil
}

func (f *fakePackageRepo) Update(ctx context.Context, pkg *domain.Package) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.packages[pkg.ID]; !ok {
		return repository.ErrNotFound
	}
	f.packages[pkg.ID] = pkg
	return nil
}

func (f *fakePackageRepo) SetActive(ctx context.Context, id, trainerID primitive.ObjectID, active bool) error {
	pkg, ok := f.packages[id]
	if !ok || pkg.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	pkg.IsActive = active
	return nil
}

type fakeProfileRepo struct {
	profiles map[primitive.ObjectID]*domain.TrainerProfile
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainerProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.TrainerProfile) error {
	if f.profiles == nil {
		f.profiles = map[primitive.ObjectID]*domain.TrainerProfile{}
	}
	f.profiles[profile.UserID] = profile
	return nil
}

// fakeSlotRepo mimics the insert-or-skip contract of the Mongo implementation:
// a candidate whose {trainer, startTime} pair already exists is skipped and
// not counted.
type fakeSlotRepo struct {
	slots    []domain.Slot
	inserted []domain.Slot // records passed to the last InsertNew call that were new
	failWith error
}

func (f *fakeSlotRepo) key(s domain.Slot) string {
	return s.TrainerID.Hex() + "|" + s.StartTime.UTC().Format(time.RFC3339)
}

func (f *fakeSlotRepo) InsertNew(ctx context.Context, slots []domain.Slot) (int, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	existing := make(map[string]bool, len(f.slots))
	for _, s := range f.slots {
		existing[f.key(s)] = true
	}
	f.inserted = nil
	count := 0
	for _, s := range slots {
		if existing[f.key(s)] {
			continue
		}
		existing[f.key(s)] = true
		s.ID = primitive.NewObjectID()
		f.slots = append(f.slots, s)
		f.inserted = append(f.inserted, s)
		count++
	}
	return count, nil
}

func (f *fakeSlotRepo) GetByTrainerInRange(ctx context.Context, trainerID primitive.ObjectID, from, to time.Time, status domain.SlotStatus) ([]domain.Slot, error) {
	var out []domain.Slot
	for _, s := range f.slots {
		if s.TrainerID != trainerID || s.StartTime.Before(from) || !s.StartTime.Before(to) {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSlotRepo) FindByStartTimes(ctx context.Context, trainerID primitive.ObjectID, startTimes []time.Time) ([]domain.Slot, error) {
	want := make(map[int64]bool, len(startTimes))
	for _, t := range startTimes {
		want[t.Unix()] = true
	}
	var out []domain.Slot
	for _, s := range f.slots {
		if s.TrainerID == trainerID && want[s.StartTime.Unix()] {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- Fixtures ---

// 2025-03-03 is a Monday.
var testMonday = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

func testProfile(trainerID primitive.ObjectID) *domain.TrainerProfile {
	return &domain.TrainerProfile{
		UserID: trainerID,
		WorkingHours: []domain.WorkingDay{
			{DayOfWeek: 1, Intervals: []domain.ClockInterval{{Start: "07:00", End: "08:00"}}},
			{DayOfWeek: 3, Intervals: []domain.ClockInterval{{Start: "07:00", End: "08:00"}}},
			{DayOfWeek: 5, Intervals: []domain.ClockInterval{{Start: "07:00", End: "08:00"}}},
		},
		DeliveryModes: domain.DeliveryModes{AtTrainerGym: true},
	}
}

func testPackage(trainerID primitive.ObjectID) *domain.Package {
	return &domain.Package{
		TrainerID:          trainerID,
		Name:               "Strength Basics",
		TotalSessions:      6,
		SessionDurationMin: 60,
		DurationDays:       30,
		Recurrence:         domain.Recurrence{DaysOfWeek: [][]int{{1, 3, 5}}},
		IsActive:           true,
	}
}

func newTestScheduleService(t *testing.T, now time.Time) (*scheduleService, *fakePackageRepo, *fakeProfileRepo, *fakeSlotRepo, primitive.ObjectID) {
	t.Helper()
	trainerID := primitive.NewObjectID()
	pkgRepo := &fakePackageRepo{}
	profileRepo := &fakeProfileRepo{profiles: map[primitive.ObjectID]*domain.TrainerProfile{
		trainerID: testProfile(trainerID),
	}}
	slotRepo := &fakeSlotRepo{}

	svc := NewScheduleService(pkgRepo, profileRepo, slotRepo, time.Hour).(*scheduleService)
	svc.now = func() time.Time { return now }
	return svc, pkgRepo, profileRepo, slotRepo, trainerID
}

// --- Tests ---

func TestPreviewGeneratesExpectedSlots(t *testing.T) {
	svc, pkgRepo, _, _, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))

	slots, err := svc.Preview(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6", len(slots))
	}
	for i, s := range slots {
		if s.Start != "07:00" || s.End != "08:00" {
			t.Errorf("slot %d is %s-%s, want 07:00-08:00", i, s.Start, s.End)
		}
	}
	if slots[0].Date != "2025-03-03" {
		t.Errorf("first slot on %s, want 2025-03-03", slots[0].Date)
	}
}

func TestPreviewPackageNotFound(t *testing.T) {
	svc, _, _, _, _ := newTestScheduleService(t, testMonday)

	_, err := svc.Preview(context.Background(), primitive.NewObjectID(), ScheduleOptions{})
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("got %v, want ErrPackageNotFound", err)
	}
}

func TestPreviewProfileNotFound(t *testing.T) {
	svc, pkgRepo, profileRepo, _, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))
	delete(profileRepo.profiles, trainerID)

	_, err := svc.Preview(context.Background(), pkgID, ScheduleOptions{})
	if !errors.Is(err, ErrTrainerProfileNotFound) {
		t.Errorf("got %v, want ErrTrainerProfileNotFound", err)
	}
}

func TestPreviewCarryForwardRelocatesExpired(t *testing.T) {
	// Clock sits mid-package: Wednesday noon of the second week. The three
	// slots of week one have expired unclaimed and must reappear in the
	// future, count conserved.
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	svc, pkgRepo, _, _, trainerID := newTestScheduleService(t, now)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))

	slots, err := svc.Preview(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday, CarryForward: true})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("got %d slots, want 6 (carry-forward conserves count)", len(slots))
	}
	carried := 0
	for _, s := range slots {
		if s.Origin == schedule.OriginCarried {
			carried++
			if !s.EndTime.After(now) {
				t.Errorf("carried slot at %v still in the past", s.StartTime)
			}
		}
	}
	// Everything through the Wed 3/12 morning slot has expired; only the
	// Fri 3/14 slot is still ahead.
	if carried != 5 {
		t.Errorf("got %d carried slots, want 5", carried)
	}
}

func TestPreviewWithoutCarryForwardKeepsPastSlots(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)
	svc, pkgRepo, _, _, trainerID := newTestScheduleService(t, now)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))

	slots, err := svc.Preview(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday, CarryForward: false})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	for _, s := range slots {
		if s.Origin != schedule.OriginOriginal {
			t.Errorf("slot moved with carry-forward disabled: %+v", s)
		}
	}
}

func TestPreviewDraft(t *testing.T) {
	svc, _, _, _, trainerID := newTestScheduleService(t, testMonday)

	draft := ScheduleDraft{TotalSessions: 3, SessionDurationMin: 60, DaysOfWeek: [][]int{{1}}}
	slots, err := svc.PreviewDraft(context.Background(), trainerID, draft, ScheduleOptions{BaseDate: testMonday})
	if err != nil {
		t.Fatalf("PreviewDraft: %v", err)
	}
	if len(slots) != 3 {
		t.Fatalf("got %d slots, want 3", len(slots))
	}
	for _, s := range slots {
		if s.StartTime.Weekday() != time.Monday {
			t.Errorf("draft slot on %v, want Monday", s.StartTime.Weekday())
		}
	}
}

func TestPreviewDraftValidation(t *testing.T) {
	svc, _, _, _, trainerID := newTestScheduleService(t, testMonday)

	_, err := svc.PreviewDraft(context.Background(), trainerID, ScheduleDraft{TotalSessions: 0, SessionDurationMin: 60}, ScheduleOptions{})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("zero sessions: got %v, want ErrValidationFailed", err)
	}
	_, err = svc.PreviewDraft(context.Background(), trainerID, ScheduleDraft{TotalSessions: 3, SessionDurationMin: -10}, ScheduleOptions{})
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("negative duration: got %v, want ErrValidationFailed", err)
	}
}

func TestGenerateMaterializesSlots(t *testing.T) {
	svc, pkgRepo, _, slotRepo, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))

	inserted, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if inserted != 6 {
		t.Fatalf("inserted %d, want 6", inserted)
	}

	wantSeries := pkgID.Hex() + ":1-3-5"
	for i, s := range slotRepo.inserted {
		if s.SeriesID != wantSeries {
			t.Errorf("slot %d seriesId %q, want %q", i, s.SeriesID, wantSeries)
		}
		if s.Status != domain.SlotStatusOpen {
			t.Errorf("slot %d status %q, want OPEN", i, s.Status)
		}
		if s.Kind != domain.SlotKindRecurring {
			t.Errorf("slot %d kind %q, want recurring", i, s.Kind)
		}
		if s.PackageID == nil || *s.PackageID != pkgID {
			t.Errorf("slot %d not linked to package", i)
		}
		if s.ExpiresAt == nil || !s.ExpiresAt.Equal(s.EndTime.Add(time.Hour)) {
			t.Errorf("slot %d expiresAt = %v, want endTime+1h", i, s.ExpiresAt)
		}
		if !s.Modes.AtTrainerGym {
			t.Errorf("slot %d lost the trainer's delivery modes", i)
		}
	}
}

func TestGenerateIsRerunSafe(t *testing.T) {
	svc, pkgRepo, _, _, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))

	first, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if err != nil || first != 6 {
		t.Fatalf("first run: inserted=%d err=%v, want 6, nil", first, err)
	}
	second, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != 0 {
		t.Errorf("second run inserted %d, want 0 (all duplicates skipped)", second)
	}
}

func TestGenerateNoWorkingHours(t *testing.T) {
	svc, pkgRepo, profileRepo, _, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))
	profileRepo.profiles[trainerID].WorkingHours = nil

	_, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if !errors.Is(err, ErrNoSlotsGenerated) {
		t.Errorf("got %v, want ErrNoSlotsGenerated", err)
	}
}

func TestGeneratePropagatesRepoError(t *testing.T) {
	svc, pkgRepo, _, slotRepo, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))
	slotRepo.failWith = errors.New("write concern timeout")

	_, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday})
	if err == nil || !strings.Contains(err.Error(), "write concern") {
		t.Errorf("got %v, want the repository error passed through", err)
	}
}

func TestGenerateDefaultsModesWhenProfileHasNone(t *testing.T) {
	svc, pkgRepo, profileRepo, slotRepo, trainerID := newTestScheduleService(t, testMonday)
	pkgID, _ := pkgRepo.Create(context.Background(), testPackage(trainerID))
	profileRepo.profiles[trainerID].DeliveryModes = domain.DeliveryModes{}

	if _, err := svc.Generate(context.Background(), pkgID, ScheduleOptions{BaseDate: testMonday}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, s := range slotRepo.inserted {
		if !s.Modes.AtTrainerGym {
			t.Errorf("slot %d: empty profile modes must default to the trainer's gym", i)
		}
	}
}
