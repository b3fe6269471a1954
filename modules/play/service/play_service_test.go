package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"arena-booking-api/core/errors"
	"arena-booking-api/modules/play/entity"
	"arena-booking-api/modules/play/repository"

	"github.com/google/uuid"
)

// fakeSignUpRepo is an in-memory SignUpRepositoryInterface. Create enforces
// the unique (slot_key, date, user_id) rule and the capacity cap under one
// lock, mirroring the store's locked count-and-insert.
type fakeSignUpRepo struct {
	mu      sync.Mutex
	signUps map[string]entity.PlaySignUp

	// countGate, when set, is called during CountByOccurrence before the
	// lookup. Tests use it to line up two writers past the fast-path count.
	countGate func()
}

func newFakeSignUpRepo() *fakeSignUpRepo {
	return &fakeSignUpRepo{signUps: make(map[string]entity.PlaySignUp)}
}

func (f *fakeSignUpRepo) Create(_ context.Context, signUp *entity.PlaySignUp, maxParticipants int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, su := range f.signUps {
		if su.SlotKey == signUp.SlotKey && su.Date == signUp.Date {
			if su.UserID == signUp.UserID {
				return repository.ErrDuplicateSignUp
			}
			count++
		}
	}
	if count >= maxParticipants {
		return repository.ErrOccurrenceFull
	}
	signUp.SignedUpAt = time.Now()
	f.signUps[signUp.ID] = *signUp
	return nil
}

func (f *fakeSignUpRepo) GetByID(_ context.Context, id string) (*entity.PlaySignUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if su, ok := f.signUps[id]; ok {
		return &su, nil
	}
	return nil, nil
}

func (f *fakeSignUpRepo) FindByOccurrenceAndUser(_ context.Context, slotKey, date, userID string) (*entity.PlaySignUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, su := range f.signUps {
		if su.SlotKey == slotKey && su.Date == date && su.UserID == userID {
			found := su
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeSignUpRepo) CountByOccurrence(_ context.Context, slotKey, date string) (int, error) {
	if f.countGate != nil {
		f.countGate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, su := range f.signUps {
		if su.SlotKey == slotKey && su.Date == date {
			count++
		}
	}
	return count, nil
}

func (f *fakeSignUpRepo) ListAll(_ context.Context) ([]entity.PlaySignUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.PlaySignUp, 0, len(f.signUps))
	for _, su := range f.signUps {
		out = append(out, su)
	}
	return out, nil
}

func (f *fakeSignUpRepo) ListByOccurrence(_ context.Context, slotKey, date string) ([]entity.PlaySignUp, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.PlaySignUp
	for _, su := range f.signUps {
		if su.SlotKey == slotKey && su.Date == date {
			out = append(out, su)
		}
	}
	return out, nil
}

func (f *fakeSignUpRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.signUps, id)
	return nil
}

// Monday 2025-01-06 noon; the first open Friday occurrence is 2025-01-10.
func fixedClock() time.Time {
	return time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)
}

func newTestPlayService(repo repository.SignUpRepositoryInterface) PlayService {
	return NewPlayServiceWithClock(repo, nil, fixedClock)
}

func TestPlaySignUpIsIdempotent(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)
	userID := uuid.New()

	first, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10", userID, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("first sign-up failed: %v", appErr)
	}
	second, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10", userID, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("repeat sign-up failed: %v", appErr)
	}

	if first.ID != second.ID {
		t.Errorf("repeat sign-up returned a new record: %s vs %s", first.ID, second.ID)
	}
	count, _ := repo.CountByOccurrence(context.Background(), "fri-16-20", "2025-01-10")
	if count != 1 {
		t.Errorf("expected 1 stored sign-up, got %d", count)
	}
}

// raceSignUpRepo reports "no existing sign-up" on the first lookup even though
// one is stored, simulating a concurrent request landing between the existence
// check and the insert.
type raceSignUpRepo struct {
	*fakeSignUpRepo
	lookups int
}

func (r *raceSignUpRepo) FindByOccurrenceAndUser(ctx context.Context, slotKey, date, userID string) (*entity.PlaySignUp, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, nil
	}
	return r.fakeSignUpRepo.FindByOccurrenceAndUser(ctx, slotKey, date, userID)
}

func TestPlaySignUpConcurrentDuplicateReturnsWinner(t *testing.T) {
	repo := &raceSignUpRepo{fakeSignUpRepo: newFakeSignUpRepo()}
	svc := newTestPlayService(repo)
	userID := uuid.New()

	winner := &entity.PlaySignUp{
		ID: "winner-id", SlotKey: "fri-16-20", Date: "2025-01-10",
		UserID: userID.String(), UserName: "Ana", UserEmail: "ana@example.com",
	}
	if err := repo.Create(context.Background(), winner, entity.MaxParticipantsPerPlaySlot); err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	// The existence check misses, the insert hits the unique index, and the
	// service resolves to the record that won.
	got, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10", userID, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("expected idempotent resolution, got %v", appErr)
	}
	if got.ID != "winner-id" {
		t.Errorf("expected the winning record, got %s", got.ID)
	}
}

func TestPlaySignUpCapacityCap(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)

	for i := 0; i < entity.MaxParticipantsPerPlaySlot; i++ {
		_, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10",
			uuid.New(), fmt.Sprintf("Player %d", i), fmt.Sprintf("p%d@example.com", i))
		if appErr != nil {
			t.Fatalf("sign-up %d failed: %v", i, appErr)
		}
	}

	_, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10",
		uuid.New(), "Late Player", "late@example.com")
	if appErr == nil {
		t.Fatal("expected the 13th sign-up to be rejected")
	}
	if appErr.Code != errors.ErrSlotFull {
		t.Errorf("expected %s, got %s", errors.ErrSlotFull, appErr.Code)
	}
}

// Two distinct users both pass the fast-path count at one seat below the cap
// before either inserts. The locked count inside the insert must let exactly
// one through.
func TestPlaySignUpConcurrentDistinctUsersCappedByStore(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)

	for i := 0; i < entity.MaxParticipantsPerPlaySlot-1; i++ {
		_, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10",
			uuid.New(), fmt.Sprintf("Player %d", i), fmt.Sprintf("p%d@example.com", i))
		if appErr != nil {
			t.Fatalf("sign-up %d failed: %v", i, appErr)
		}
	}

	var ready sync.WaitGroup
	ready.Add(2)
	proceed := make(chan struct{})
	repo.countGate = func() {
		ready.Done()
		<-proceed
	}

	results := make(chan *errors.AppError, 2)
	for _, name := range []string{"Ana", "Ben"} {
		go func(name string) {
			_, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10",
				uuid.New(), name, name+"@example.com")
			results <- appErr
		}(name)
	}

	ready.Wait()
	close(proceed)

	var successes, rejections int
	for i := 0; i < 2; i++ {
		appErr := <-results
		switch {
		case appErr == nil:
			successes++
		case appErr.Code == errors.ErrSlotFull:
			rejections++
		default:
			t.Fatalf("unexpected error: %v", appErr)
		}
	}

	if successes != 1 || rejections != 1 {
		t.Errorf("expected exactly one winner, got %d successes and %d rejections", successes, rejections)
	}
	repo.countGate = nil
	count, _ := repo.CountByOccurrence(context.Background(), "fri-16-20", "2025-01-10")
	if count != entity.MaxParticipantsPerPlaySlot {
		t.Errorf("expected exactly %d stored sign-ups, got %d", entity.MaxParticipantsPerPlaySlot, count)
	}
}

func TestPlayCancelFreesCapacity(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)

	var firstID string
	var firstUser uuid.UUID
	for i := 0; i < entity.MaxParticipantsPerPlaySlot; i++ {
		userID := uuid.New()
		su, appErr := svc.SignUp(context.Background(), "sat-16-20", "2025-01-11",
			userID, fmt.Sprintf("Player %d", i), fmt.Sprintf("p%d@example.com", i))
		if appErr != nil {
			t.Fatalf("sign-up %d failed: %v", i, appErr)
		}
		if i == 0 {
			firstID, firstUser = su.ID, userID
		}
	}

	if appErr := svc.Cancel(context.Background(), firstID, firstUser, false); appErr != nil {
		t.Fatalf("cancel failed: %v", appErr)
	}

	if _, appErr := svc.SignUp(context.Background(), "sat-16-20", "2025-01-11",
		uuid.New(), "New Player", "new@example.com"); appErr != nil {
		t.Errorf("sign-up after cancel should succeed, got %v", appErr)
	}
}

func TestPlaySignUpValidation(t *testing.T) {
	svc := newTestPlayService(newFakeSignUpRepo())

	tests := []struct {
		name    string
		slotKey string
		date    string
	}{
		{"unknown slot key", "mon-16-20", "2025-01-06"},
		{"malformed date", "fri-16-20", "10-01-2025"},
		{"date on wrong weekday", "fri-16-20", "2025-01-11"},
		{"friday beyond the displayed horizon", "fri-16-20", "2025-03-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, appErr := svc.SignUp(context.Background(), tt.slotKey, tt.date,
				uuid.New(), "Ana", "ana@example.com")
			if appErr == nil {
				t.Fatal("expected an error")
			}
			if appErr.Code != errors.ErrInvalidInput {
				t.Errorf("expected %s, got %s", errors.ErrInvalidInput, appErr.Code)
			}
		})
	}
}

func TestPlayCancelPermissions(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)
	owner := uuid.New()

	su, appErr := svc.SignUp(context.Background(), "sun-16-20", "2025-01-12", owner, "Ana", "ana@example.com")
	if appErr != nil {
		t.Fatalf("sign-up failed: %v", appErr)
	}

	if appErr := svc.Cancel(context.Background(), su.ID, uuid.New(), false); appErr == nil {
		t.Fatal("expected a stranger's cancel to be rejected")
	} else if appErr.Code != errors.ErrForbidden {
		t.Errorf("expected %s, got %s", errors.ErrForbidden, appErr.Code)
	}

	// An admin may cancel anyone's sign-up.
	if appErr := svc.Cancel(context.Background(), su.ID, uuid.New(), true); appErr != nil {
		t.Errorf("admin cancel failed: %v", appErr)
	}

	if appErr := svc.Cancel(context.Background(), "missing-id", owner, false); appErr == nil {
		t.Fatal("expected not found")
	} else if appErr.Code != errors.ErrNotFound {
		t.Errorf("expected %s, got %s", errors.ErrNotFound, appErr.Code)
	}
}

func TestPlayListSlotsShowsRosterAndFullness(t *testing.T) {
	repo := newFakeSignUpRepo()
	svc := newTestPlayService(repo)

	for i := 0; i < entity.MaxParticipantsPerPlaySlot; i++ {
		if _, appErr := svc.SignUp(context.Background(), "fri-16-20", "2025-01-10",
			uuid.New(), fmt.Sprintf("Player %d", i), fmt.Sprintf("p%d@example.com", i)); appErr != nil {
			t.Fatalf("sign-up %d failed: %v", i, appErr)
		}
	}

	views, appErr := svc.ListSlots(context.Background())
	if appErr != nil {
		t.Fatalf("list slots failed: %v", appErr)
	}
	if len(views) != len(entity.Templates()) {
		t.Fatalf("expected %d slot views, got %d", len(entity.Templates()), len(views))
	}

	for _, view := range views {
		if len(view.Occurrences) != entity.WeeksToDisplay {
			t.Errorf("slot %s: expected %d occurrences, got %d",
				view.Template.Key, entity.WeeksToDisplay, len(view.Occurrences))
		}
		for _, occ := range view.Occurrences {
			full := view.Template.Key == "fri-16-20" && occ.Date == "2025-01-10"
			if occ.IsFull != full {
				t.Errorf("slot %s %s: IsFull = %v, want %v", view.Template.Key, occ.Date, occ.IsFull, full)
			}
			if full && occ.Count != entity.MaxParticipantsPerPlaySlot {
				t.Errorf("expected a full roster, got %d participants", occ.Count)
			}
		}
	}
}
