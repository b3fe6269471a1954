package service

import (
	"context"
	"fmt"
	"time"

	"arena-booking-api/core/errors"
	"arena-booking-api/core/events"
	"arena-booking-api/core/logger"
	"arena-booking-api/core/metrics"
	"arena-booking-api/core/utils"
	"arena-booking-api/modules/play/dto"
	"arena-booking-api/modules/play/entity"
	"arena-booking-api/modules/play/repository"

	"github.com/google/uuid"
)

type PlayService interface {
	SignUp(ctx context.Context, slotKey, date string, userID uuid.UUID, userName, userEmail string) (*entity.PlaySignUp, *errors.AppError)
	Cancel(ctx context.Context, signUpID string, actingUserID uuid.UUID, actingIsAdmin bool) *errors.AppError
	ListSlots(ctx context.Context) ([]dto.PlaySlotView, *errors.AppError)
	ListSignUps(ctx context.Context) ([]entity.PlaySignUp, *errors.AppError)
}

type playService struct {
	repo repository.SignUpRepositoryInterface
	pub  events.Publisher
	now  func() time.Time
}

func NewPlayService(repo repository.SignUpRepositoryInterface, pub events.Publisher) PlayService {
	return &playService{repo: repo, pub: pub, now: time.Now}
}

// NewPlayServiceWithClock injects the clock, used by tests.
func NewPlayServiceWithClock(repo repository.SignUpRepositoryInterface, pub events.Publisher, now func() time.Time) PlayService {
	return &playService{repo: repo, pub: pub, now: now}
}

// SignUp registers the acting user for a session occurrence. Repeating an
// identical sign-up is a no-op returning the existing record.
func (s *playService) SignUp(ctx context.Context, slotKey, date string, userID uuid.UUID, userName, userEmail string) (*entity.PlaySignUp, *errors.AppError) {
	logger.Info("PlayService:SignUp:Start", "slot_key", slotKey, "date", date, "user_id", userID)

	tmpl := entity.FindTemplate(slotKey)
	if tmpl == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown play slot %q", slotKey), nil)
	}
	if appErr := s.validateOccurrenceDate(*tmpl, date); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.FindByOccurrenceAndUser(ctx, slotKey, date, userID.String())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not check existing sign-ups", nil)
	}
	if existing != nil {
		logger.Info("PlayService:SignUp:AlreadySignedUp", "sign_up_id", existing.ID)
		return existing, nil
	}

	// Fast-path capacity read. The locked count inside the insert below stays
	// authoritative for concurrent writers.
	count, err := s.repo.CountByOccurrence(ctx, slotKey, date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not count sign-ups", nil)
	}
	if count >= entity.MaxParticipantsPerPlaySlot {
		metrics.RecordPlaySlotFull()
		return nil, errors.NewAppError(errors.ErrSlotFull,
			fmt.Sprintf("this session already has %d participants", entity.MaxParticipantsPerPlaySlot), nil)
	}

	signUp := &entity.PlaySignUp{
		ID:        utils.GenerateID(),
		SlotKey:   slotKey,
		Date:      date,
		UserID:    userID.String(),
		UserName:  userName,
		UserEmail: userEmail,
	}

	if err := s.repo.Create(ctx, signUp, entity.MaxParticipantsPerPlaySlot); err != nil {
		switch err {
		case repository.ErrOccurrenceFull:
			// A concurrent writer took the last seat between the fast-path
			// count and the locked insert.
			metrics.RecordPlaySlotFull()
			return nil, errors.NewAppError(errors.ErrSlotFull,
				fmt.Sprintf("this session already has %d participants", entity.MaxParticipantsPerPlaySlot), nil)
		case repository.ErrDuplicateSignUp:
			// A concurrent identical sign-up won the insert. Idempotent: hand
			// back the winner.
			winner, ferr := s.repo.FindByOccurrenceAndUser(ctx, slotKey, date, userID.String())
			if ferr == nil && winner != nil {
				return winner, nil
			}
			return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not resolve concurrent sign-up", nil)
		}
		logger.Error("PlayService:SignUp:Create", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not save sign-up", nil)
	}

	metrics.RecordPlaySignUp()
	s.publish(ctx, events.Change{Kind: "created", ID: signUp.ID, Record: signUp})

	logger.Info("PlayService:SignUp:Success", "sign_up_id", signUp.ID)
	return signUp, nil
}

// validateOccurrenceDate requires date to be one of the template's advertised
// upcoming occurrences.
func (s *playService) validateOccurrenceDate(tmpl entity.PlaySlotTemplate, date string) *errors.AppError {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", nil)
	}
	for _, d := range NextOccurrences(s.now(), tmpl, entity.WeeksToDisplay) {
		if d == date {
			return nil
		}
	}
	return errors.NewAppError(errors.ErrInvalidInput,
		fmt.Sprintf("%s is not an open occurrence of %s", date, tmpl.Key), nil)
}

func (s *playService) Cancel(ctx context.Context, signUpID string, actingUserID uuid.UUID, actingIsAdmin bool) *errors.AppError {
	logger.Info("PlayService:Cancel:Start", "sign_up_id", signUpID, "acting_user_id", actingUserID)

	signUp, err := s.repo.GetByID(ctx, signUpID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not load sign-up", nil)
	}
	if signUp == nil {
		return errors.NewAppError(errors.ErrNotFound, "sign-up not found", nil)
	}
	if !actingIsAdmin && signUp.UserID != actingUserID.String() {
		return errors.NewAppError(errors.ErrForbidden, "only the participant or an admin may cancel this sign-up", nil)
	}

	if err := s.repo.Delete(ctx, signUpID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not delete sign-up", nil)
	}

	s.publish(ctx, events.Change{Kind: "deleted", ID: signUpID})
	logger.Info("PlayService:Cancel:Success", "sign_up_id", signUpID)
	return nil
}

// ListSlots projects every template onto its upcoming occurrences with rosters.
func (s *playService) ListSlots(ctx context.Context) ([]dto.PlaySlotView, *errors.AppError) {
	views := make([]dto.PlaySlotView, 0, len(entity.Templates()))

	for _, tmpl := range entity.Templates() {
		view := dto.PlaySlotView{Template: tmpl}
		for _, date := range NextOccurrences(s.now(), tmpl, entity.WeeksToDisplay) {
			signUps, err := s.repo.ListByOccurrence(ctx, tmpl.Key, date)
			if err != nil {
				return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not load sign-ups", nil)
			}

			occ := dto.OccurrenceView{
				Date:         date,
				Participants: make([]dto.ParticipantView, 0, len(signUps)),
				Count:        len(signUps),
				MaxCount:     entity.MaxParticipantsPerPlaySlot,
				IsFull:       len(signUps) >= entity.MaxParticipantsPerPlaySlot,
			}
			for _, su := range signUps {
				occ.Participants = append(occ.Participants, dto.ParticipantView{
					SignUpID: su.ID,
					UserID:   su.UserID,
					UserName: su.UserName,
				})
			}
			view.Occurrences = append(view.Occurrences, occ)
		}
		views = append(views, view)
	}

	return views, nil
}

func (s *playService) ListSignUps(ctx context.Context) ([]entity.PlaySignUp, *errors.AppError) {
	signUps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not list sign-ups", nil)
	}
	return signUps, nil
}

func (s *playService) publish(ctx context.Context, change events.Change) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, events.TopicPlaySignUps, change); err != nil {
		logger.Warn("PlayService:PublishChange", "error", err)
	}
}
