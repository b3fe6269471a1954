package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"arena-booking-api/core/errors"
	"arena-booking-api/modules/booking/dto"
	"arena-booking-api/modules/booking/entity"
	"arena-booking-api/modules/booking/repository"
	"arena-booking-api/modules/notification/composer"
	notifdto "arena-booking-api/modules/notification/dto"
	notifworker "arena-booking-api/modules/notification/worker"

	"github.com/google/uuid"
)

// fakeBookingRepo is an in-memory BookingRepositoryInterface. It enforces the
// same unique (court_id, date, time) rule the database index does, unless
// enforceUnique is cleared.
type fakeBookingRepo struct {
	mu            sync.Mutex
	bookings      map[string]entity.Booking
	enforceUnique bool

	// conflictGate, when set, is called during FindConflict before the lookup.
	// Tests use it to line up two writers past the read check.
	conflictGate func()
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]entity.Booking), enforceUnique: true}
}

func (f *fakeBookingRepo) occupied(courtID, date, slotTime, excludeID string) bool {
	for _, b := range f.bookings {
		if b.ID != excludeID && b.CourtID == courtID && b.Date == date && b.Time == slotTime {
			return true
		}
	}
	return false
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enforceUnique && f.occupied(booking.CourtID, booking.Date, booking.Time, "") {
		return repository.ErrDuplicateSlot
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindConflict(_ context.Context, courtID, date, slotTime string) (*entity.Booking, error) {
	if f.conflictGate != nil {
		f.conflictGate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.Date == date && b.Time == slotTime {
			found := b
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) ListAll(_ context.Context) ([]entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, userID string) ([]entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) ListByCourtAndDate(_ context.Context, courtID, date string) ([]entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateSchedule(_ context.Context, id, date, slotTime string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrBookingGone
	}
	if f.enforceUnique && f.occupied(b.CourtID, date, slotTime, id) {
		return repository.ErrDuplicateSlot
	}
	b.Date = date
	b.Time = slotTime
	b.UpdatedAt = time.Now()
	f.bookings[id] = b
	return nil
}

func (f *fakeBookingRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.bookings, id)
	return nil
}

// fakeComposer returns a canned message, or an error when failing is set.
type fakeComposer struct {
	failing bool
	calls   int
}

func (f *fakeComposer) Compose(_ context.Context, input composer.ComposeInput) (*composer.Message, error) {
	f.calls++
	if f.failing {
		return nil, context.DeadlineExceeded
	}
	return &composer.Message{
		ShortMessage: "See you on the court, " + input.UserName + "!",
		Subject:      "Booking " + input.BookingID,
		Body:         "Composed body",
	}, nil
}

type recordingNotifier struct {
	created []notifdto.CreateNotificationRequest
}

func (r *recordingNotifier) Create(_ context.Context, req *notifdto.CreateNotificationRequest) error {
	r.created = append(r.created, *req)
	return nil
}

type recordingMailQueue struct {
	enqueued []notifworker.BookingConfirmationPayload
}

func (r *recordingMailQueue) EnqueueBookingConfirmation(_ context.Context, payload notifworker.BookingConfirmationPayload) error {
	r.enqueued = append(r.enqueued, payload)
	return nil
}

func createReq(courtID, date, slotTime string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{CourtID: courtID, Date: date, Time: slotTime}
}

func TestBookingCreateAndConflict(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)
	ana, ben := uuid.New(), uuid.New()

	// 2025-01-10 is a Friday; 10:00 is an ordinary bookable slot.
	conf, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-10", "10:00"), ana, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	if conf.Booking.CourtName != "Covered Court" {
		t.Errorf("court name not resolved: %q", conf.Booking.CourtName)
	}
	if conf.ConfirmationMessage == "" {
		t.Error("expected a confirmation message")
	}

	// Same slot on the other court is fine.
	if _, appErr := svc.Create(context.Background(), createReq("uncovered-court", "2025-01-10", "10:00"), ben, "Ben", "ben@example.com"); appErr != nil {
		t.Fatalf("create on second court failed: %v", appErr)
	}

	// Same court, same slot: taken.
	_, appErr = svc.Create(context.Background(), createReq("covered-court", "2025-01-10", "10:00"), ben, "Ben", "ben@example.com")
	if appErr == nil {
		t.Fatal("expected a conflict")
	}
	if appErr.Code != errors.ErrSlotUnavailable {
		t.Errorf("expected %s, got %s", errors.ErrSlotUnavailable, appErr.Code)
	}
}

func TestBookingCreateValidation(t *testing.T) {
	svc := NewBookingService(newFakeBookingRepo(), &fakeComposer{}, nil, nil, nil)
	userID := uuid.New()

	tests := []struct {
		name string
		req  dto.CreateBookingRequest
		code errors.ErrorCode
	}{
		{"unknown court", createReq("center-court", "2025-01-10", "10:00"), errors.ErrInvalidInput},
		{"malformed date", createReq("covered-court", "10/01/2025", "10:00"), errors.ErrInvalidInput},
		{"impossible date", createReq("covered-court", "2025-02-30", "10:00"), errors.ErrInvalidInput},
		{"malformed time", createReq("covered-court", "2025-01-10", "10am"), errors.ErrInvalidInput},
		{"off-grid time", createReq("covered-court", "2025-01-10", "10:30"), errors.ErrInvalidInput},
		{"before opening", createReq("covered-court", "2025-01-10", "08:00"), errors.ErrInvalidInput},
		{"friday play window", createReq("covered-court", "2025-01-10", "17:00"), errors.ErrSlotUnavailable},
		{"sunday play window", createReq("uncovered-court", "2025-01-12", "16:00"), errors.ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := svc.Create(context.Background(), tt.req, userID, "Ana", "ana@example.com")
			if appErr == nil {
				t.Fatal("expected an error")
			}
			if appErr.Code != tt.code {
				t.Errorf("expected %s, got %s", tt.code, appErr.Code)
			}
		})
	}
}

func TestBookingCancelThenRebook(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)
	ana, ben := uuid.New(), uuid.New()

	conf, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "11:00"), ana, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	if appErr := svc.Cancel(context.Background(), conf.Booking.ID, ana, false); appErr != nil {
		t.Fatalf("cancel failed: %v", appErr)
	}

	if _, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "11:00"), ben, "Ben", "ben@example.com"); appErr != nil {
		t.Errorf("rebooking a cancelled slot should succeed, got %v", appErr)
	}
}

func TestBookingCancelPermissions(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)
	owner := uuid.New()

	conf, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "12:00"), owner, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	if appErr := svc.Cancel(context.Background(), conf.Booking.ID, uuid.New(), false); appErr == nil {
		t.Fatal("expected a stranger's cancel to be rejected")
	} else if appErr.Code != errors.ErrForbidden {
		t.Errorf("expected %s, got %s", errors.ErrForbidden, appErr.Code)
	}

	if appErr := svc.Cancel(context.Background(), conf.Booking.ID, uuid.New(), true); appErr != nil {
		t.Errorf("admin cancel failed: %v", appErr)
	}

	if appErr := svc.Cancel(context.Background(), "missing-id", owner, false); appErr == nil {
		t.Fatal("expected not found")
	} else if appErr.Code != errors.ErrNotFound {
		t.Errorf("expected %s, got %s", errors.ErrNotFound, appErr.Code)
	}
}

func TestBookingReschedule(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)
	ana, ben := uuid.New(), uuid.New()

	conf, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "09:00"), ana, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}
	other, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "10:00"), ben, "Ben", "ben@example.com")
	if appErr != nil {
		t.Fatalf("second create failed: %v", appErr)
	}

	t.Run("requires admin", func(t *testing.T) {
		appErr := svc.Reschedule(context.Background(), conf.Booking.ID,
			dto.RescheduleBookingRequest{Date: "2025-01-13", Time: "11:00"}, false)
		if appErr == nil || appErr.Code != errors.ErrForbidden {
			t.Errorf("expected %s, got %v", errors.ErrForbidden, appErr)
		}
	})

	t.Run("onto an occupied slot fails", func(t *testing.T) {
		appErr := svc.Reschedule(context.Background(), conf.Booking.ID,
			dto.RescheduleBookingRequest{Date: other.Booking.Date, Time: other.Booking.Time}, true)
		if appErr == nil || appErr.Code != errors.ErrSlotUnavailable {
			t.Errorf("expected %s, got %v", errors.ErrSlotUnavailable, appErr)
		}
	})

	t.Run("onto its own slot is a no-op", func(t *testing.T) {
		if appErr := svc.Reschedule(context.Background(), conf.Booking.ID,
			dto.RescheduleBookingRequest{Date: "2025-01-13", Time: "09:00"}, true); appErr != nil {
			t.Errorf("self-reschedule should succeed, got %v", appErr)
		}
	})

	t.Run("onto a free slot moves the booking", func(t *testing.T) {
		if appErr := svc.Reschedule(context.Background(), conf.Booking.ID,
			dto.RescheduleBookingRequest{Date: "2025-01-14", Time: "13:00"}, true); appErr != nil {
			t.Fatalf("reschedule failed: %v", appErr)
		}
		moved, _ := repo.GetByID(context.Background(), conf.Booking.ID)
		if moved.Date != "2025-01-14" || moved.Time != "13:00" {
			t.Errorf("booking not moved: %s %s", moved.Date, moved.Time)
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		appErr := svc.Reschedule(context.Background(), "missing-id",
			dto.RescheduleBookingRequest{Date: "2025-01-14", Time: "14:00"}, true)
		if appErr == nil || appErr.Code != errors.ErrNotFound {
			t.Errorf("expected %s, got %v", errors.ErrNotFound, appErr)
		}
	})
}

// vanishingBookingRepo cancels the booking between the service's read and its
// update, simulating a concurrent delete.
type vanishingBookingRepo struct {
	*fakeBookingRepo
}

func (v *vanishingBookingRepo) UpdateSchedule(ctx context.Context, id, date, slotTime string) error {
	_ = v.fakeBookingRepo.Delete(ctx, id)
	return v.fakeBookingRepo.UpdateSchedule(ctx, id, date, slotTime)
}

func TestBookingRescheduleOfConcurrentlyCancelledBooking(t *testing.T) {
	repo := &vanishingBookingRepo{fakeBookingRepo: newFakeBookingRepo()}
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)

	conf, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-13", "14:00"), uuid.New(), "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	appErr = svc.Reschedule(context.Background(), conf.Booking.ID,
		dto.RescheduleBookingRequest{Date: "2025-01-14", Time: "09:00"}, true)
	if appErr == nil {
		t.Fatal("expected an error when the booking vanished mid-reschedule")
	}
	if appErr.Code != errors.ErrNotFound {
		t.Errorf("expected %s, got %s", errors.ErrNotFound, appErr.Code)
	}
}

func TestBookingComposerFailureFallsBack(t *testing.T) {
	repo := newFakeBookingRepo()
	comp := &fakeComposer{failing: true}
	notifier := &recordingNotifier{}
	mail := &recordingMailQueue{}
	svc := NewBookingService(repo, comp, notifier, mail, nil)
	userID := uuid.New()

	conf, appErr := svc.Create(context.Background(), createReq("uncovered-court", "2025-01-14", "15:00"), userID, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("composer failure must not fail the booking: %v", appErr)
	}

	want := composer.Fallback(composer.ComposeInput{
		UserName: "Ana", CourtName: "Uncovered Court",
		Date: "2025-01-14", Time: "15:00", BookingID: conf.Booking.ID,
	})
	if conf.ConfirmationMessage != want.ShortMessage {
		t.Errorf("expected the fallback message, got %q", conf.ConfirmationMessage)
	}
	if comp.calls != 1 {
		t.Errorf("composer must not be retried, called %d times", comp.calls)
	}

	// Follow-ups still go out, carrying the fallback content.
	if len(notifier.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.created))
	}
	if notifier.created[0].Message != want.ShortMessage {
		t.Errorf("notification carries %q, want %q", notifier.created[0].Message, want.ShortMessage)
	}
	if len(mail.enqueued) != 1 {
		t.Fatalf("expected 1 mail job, got %d", len(mail.enqueued))
	}
	if mail.enqueued[0].Subject != want.Subject {
		t.Errorf("mail subject %q, want %q", mail.enqueued[0].Subject, want.Subject)
	}

	if stored, _ := repo.GetByID(context.Background(), conf.Booking.ID); stored == nil {
		t.Error("booking must survive composer failure")
	}
}

// Two writers both pass the read check before either inserts. The store-level
// uniqueness rule must let exactly one through.
func TestBookingConcurrentCreateSerializedByStore(t *testing.T) {
	repo := newFakeBookingRepo()

	var ready sync.WaitGroup
	ready.Add(2)
	proceed := make(chan struct{})
	repo.conflictGate = func() {
		ready.Done()
		<-proceed
	}

	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)

	results := make(chan *errors.AppError, 2)
	for _, name := range []string{"Ana", "Ben"} {
		go func(name string) {
			_, appErr := svc.Create(context.Background(),
				createReq("covered-court", "2025-01-15", "10:00"), uuid.New(), name, name+"@example.com")
			results <- appErr
		}(name)
	}

	ready.Wait()
	close(proceed)

	var successes, conflicts int
	for i := 0; i < 2; i++ {
		appErr := <-results
		switch {
		case appErr == nil:
			successes++
		case appErr.Code == errors.ErrSlotUnavailable:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", appErr)
		}
	}

	if successes != 1 || conflicts != 1 {
		t.Errorf("expected exactly one winner, got %d successes and %d conflicts", successes, conflicts)
	}
	all, _ := repo.ListAll(context.Background())
	if len(all) != 1 {
		t.Errorf("expected 1 stored booking, got %d", len(all))
	}
}

func TestBookingListByUser(t *testing.T) {
	repo := newFakeBookingRepo()
	svc := NewBookingService(repo, &fakeComposer{}, nil, nil, nil)
	ana, ben := uuid.New(), uuid.New()

	for _, slot := range []string{"09:00", "10:00"} {
		if _, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-16", slot), ana, "Ana", "ana@example.com"); appErr != nil {
			t.Fatalf("create failed: %v", appErr)
		}
	}
	if _, appErr := svc.Create(context.Background(), createReq("covered-court", "2025-01-16", "11:00"), ben, "Ben", "ben@example.com"); appErr != nil {
		t.Fatalf("create failed: %v", appErr)
	}

	mine, appErr := svc.ListByUser(context.Background(), ana)
	if appErr != nil {
		t.Fatalf("list failed: %v", appErr)
	}
	if len(mine) != 2 {
		t.Errorf("expected 2 bookings for the user, got %d", len(mine))
	}
	all, appErr := svc.ListAll(context.Background())
	if appErr != nil {
		t.Fatalf("list all failed: %v", appErr)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 bookings total, got %d", len(all))
	}
}
