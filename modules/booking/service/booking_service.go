package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"arena-booking-api/core/errors"
	"arena-booking-api/core/events"
	"arena-booking-api/core/logger"
	"arena-booking-api/core/metrics"
	"arena-booking-api/core/utils"
	"arena-booking-api/modules/booking/dto"
	"arena-booking-api/modules/booking/entity"
	"arena-booking-api/modules/booking/repository"
	courtentity "arena-booking-api/modules/court/entity"
	"arena-booking-api/modules/notification/composer"
	notifdto "arena-booking-api/modules/notification/dto"
	notifworker "arena-booking-api/modules/notification/worker"
	playentity "arena-booking-api/modules/play/entity"
	playservice "arena-booking-api/modules/play/service"

	"github.com/google/uuid"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Notifier persists one feed entry for a user.
type Notifier interface {
	Create(ctx context.Context, req *notifdto.CreateNotificationRequest) error
}

// MailQueue enqueues confirmation e-mail jobs.
type MailQueue interface {
	EnqueueBookingConfirmation(ctx context.Context, payload notifworker.BookingConfirmationPayload) error
}

type BookingService interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, userID uuid.UUID, userName, userEmail string) (*dto.BookingConfirmation, *errors.AppError)
	Cancel(ctx context.Context, bookingID string, actingUserID uuid.UUID, actingIsAdmin bool) *errors.AppError
	Reschedule(ctx context.Context, bookingID string, req dto.RescheduleBookingRequest, actingIsAdmin bool) *errors.AppError
	ListAll(ctx context.Context) ([]entity.Booking, *errors.AppError)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Booking, *errors.AppError)
}

type bookingService struct {
	repo     repository.BookingRepositoryInterface
	composer composer.Composer
	notifier Notifier
	mail     MailQueue
	pub      events.Publisher
}

func NewBookingService(repo repository.BookingRepositoryInterface, comp composer.Composer, notifier Notifier, mail MailQueue, pub events.Publisher) BookingService {
	return &bookingService{
		repo:     repo,
		composer: comp,
		notifier: notifier,
		mail:     mail,
		pub:      pub,
	}
}

// validateSlot checks the date/time formats and slot-set membership shared by
// create and reschedule.
func validateSlot(date, slotTime string) *errors.AppError {
	if !dateRe.MatchString(date) {
		return errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", nil)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("%s is not a valid calendar date", date), nil)
	}
	if !timeRe.MatchString(slotTime) {
		return errors.NewAppError(errors.ErrInvalidInput, "time must be HH:MM", nil)
	}
	if !courtentity.IsValidTimeSlot(slotTime) {
		return errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("%s is not a bookable slot time", slotTime), nil)
	}
	return nil
}

// Create books one court slot for the acting user.
func (s *bookingService) Create(ctx context.Context, req dto.CreateBookingRequest, userID uuid.UUID, userName, userEmail string) (*dto.BookingConfirmation, *errors.AppError) {
	logger.Info("BookingService:Create:Start",
		"court_id", req.CourtID, "date", req.Date, "time", req.Time, "user_id", userID)

	if appErr := validateSlot(req.Date, req.Time); appErr != nil {
		return nil, appErr
	}
	court := courtentity.FindCourt(req.CourtID)
	if court == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("unknown court %q", req.CourtID), nil)
	}

	// Play session windows claim every court; regular booking is closed there.
	if playservice.IsWithinPlayWindow(req.Date, req.Time, playentity.Templates()) {
		metrics.RecordBookingConflict()
		return nil, errors.NewAppError(errors.ErrSlotUnavailable,
			"this time is reserved for a communal play session", nil)
	}

	// Fast-path conflict read. The unique index on the insert below stays
	// authoritative for concurrent writers.
	conflict, err := s.repo.FindConflict(ctx, court.ID, req.Date, req.Time)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not check slot availability", nil)
	}
	if conflict != nil {
		metrics.RecordBookingConflict()
		return nil, errors.NewAppError(errors.ErrSlotUnavailable,
			fmt.Sprintf("%s on %s at %s is already booked", court.Name, req.Date, req.Time), nil)
	}

	booking := &entity.Booking{
		CourtID:   court.ID,
		CourtName: court.Name,
		CourtType: court.Type,
		Date:      req.Date,
		Time:      req.Time,
		UserID:    userID.String(),
		UserName:  userName,
	}
	booking.ID = utils.GenerateID()

	if err := s.repo.Create(ctx, booking); err != nil {
		if err == repository.ErrDuplicateSlot {
			metrics.RecordBookingConflict()
			return nil, errors.NewAppError(errors.ErrSlotUnavailable,
				fmt.Sprintf("%s on %s at %s is already booked", court.Name, req.Date, req.Time), nil)
		}
		logger.Error("BookingService:Create:Insert", err)
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not save booking", nil)
	}

	metrics.RecordBookingCreated()
	s.publish(ctx, events.Change{Kind: "created", ID: booking.ID, Record: booking})

	message := s.confirm(ctx, booking, userEmail)

	logger.Info("BookingService:Create:Success", "booking_id", booking.ID)
	return &dto.BookingConfirmation{Booking: booking, ConfirmationMessage: message}, nil
}

// confirm composes the confirmation content and dispatches the follow-ups.
// Composer failure falls back to a deterministic message and never rolls the
// booking back.
func (s *bookingService) confirm(ctx context.Context, booking *entity.Booking, userEmail string) string {
	input := composer.ComposeInput{
		UserName:  booking.UserName,
		CourtName: booking.CourtName,
		Date:      booking.Date,
		Time:      booking.Time,
		BookingID: booking.ID,
	}

	msg, err := s.composer.Compose(ctx, input)
	if err != nil {
		logger.Warn("BookingService:Confirm:ComposerFailed", "booking_id", booking.ID, "error", err)
		metrics.RecordComposerFallback()
		fallback := composer.Fallback(input)
		msg = &fallback
	}

	userID, parseErr := uuid.Parse(booking.UserID)
	if parseErr == nil && s.notifier != nil {
		if err := s.notifier.Create(ctx, &notifdto.CreateNotificationRequest{
			UserID:  userID,
			Title:   msg.Subject,
			Message: msg.ShortMessage,
			Type:    "booking_confirmation",
			Data:    map[string]any{"booking_id": booking.ID},
		}); err != nil {
			logger.Warn("BookingService:Confirm:NotificationFailed", "booking_id", booking.ID, "error", err)
		}
	}

	if s.mail != nil {
		if err := s.mail.EnqueueBookingConfirmation(ctx, notifworker.BookingConfirmationPayload{
			BookingID: booking.ID,
			UserEmail: userEmail,
			Subject:   msg.Subject,
			Body:      msg.Body,
		}); err != nil {
			logger.Warn("BookingService:Confirm:EnqueueFailed", "booking_id", booking.ID, "error", err)
		}
	}

	return msg.ShortMessage
}

// Cancel removes a booking. Allowed for the owner or an admin.
func (s *bookingService) Cancel(ctx context.Context, bookingID string, actingUserID uuid.UUID, actingIsAdmin bool) *errors.AppError {
	logger.Info("BookingService:Cancel:Start", "booking_id", bookingID, "acting_user_id", actingUserID)

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not load booking", nil)
	}
	if booking == nil {
		return errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}
	if !actingIsAdmin && booking.UserID != actingUserID.String() {
		return errors.NewAppError(errors.ErrForbidden, "only the owner or an admin may cancel this booking", nil)
	}

	if err := s.repo.Delete(ctx, bookingID); err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not delete booking", nil)
	}

	metrics.RecordBookingCancelled()
	s.publish(ctx, events.Change{Kind: "deleted", ID: bookingID})

	logger.Info("BookingService:Cancel:Success", "booking_id", bookingID)
	return nil
}

// Reschedule moves an existing booking to a new date/time on the same court.
// Admin only. Rescheduling onto the booking's own current slot is a no-op.
func (s *bookingService) Reschedule(ctx context.Context, bookingID string, req dto.RescheduleBookingRequest, actingIsAdmin bool) *errors.AppError {
	logger.Info("BookingService:Reschedule:Start",
		"booking_id", bookingID, "date", req.Date, "time", req.Time)

	if !actingIsAdmin {
		return errors.NewAppError(errors.ErrForbidden, "only an admin may reschedule bookings", nil)
	}
	if appErr := validateSlot(req.Date, req.Time); appErr != nil {
		return appErr
	}

	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not load booking", nil)
	}
	if booking == nil {
		return errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
	}

	if playservice.IsWithinPlayWindow(req.Date, req.Time, playentity.Templates()) {
		return errors.NewAppError(errors.ErrSlotUnavailable,
			"this time is reserved for a communal play session", nil)
	}

	conflict, err := s.repo.FindConflict(ctx, booking.CourtID, req.Date, req.Time)
	if err != nil {
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not check slot availability", nil)
	}
	if conflict != nil && conflict.ID != booking.ID {
		metrics.RecordBookingConflict()
		return errors.NewAppError(errors.ErrSlotUnavailable,
			fmt.Sprintf("%s on %s at %s is already booked", booking.CourtName, req.Date, req.Time), nil)
	}

	if err := s.repo.UpdateSchedule(ctx, bookingID, req.Date, req.Time); err != nil {
		switch err {
		case repository.ErrDuplicateSlot:
			metrics.RecordBookingConflict()
			return errors.NewAppError(errors.ErrSlotUnavailable,
				fmt.Sprintf("%s on %s at %s is already booked", booking.CourtName, req.Date, req.Time), nil)
		case repository.ErrBookingGone:
			// Cancelled between the read above and the write.
			return errors.NewAppError(errors.ErrNotFound, "booking not found", nil)
		}
		return errors.NewAppError(errors.ErrStoreUnavailable, "could not update booking", nil)
	}

	s.publish(ctx, events.Change{Kind: "rescheduled", ID: bookingID})
	logger.Info("BookingService:Reschedule:Success", "booking_id", bookingID)
	return nil
}

func (s *bookingService) ListAll(ctx context.Context) ([]entity.Booking, *errors.AppError) {
	bookings, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not list bookings", nil)
	}
	return bookings, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Booking, *errors.AppError) {
	bookings, err := s.repo.ListByUser(ctx, userID.String())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not list bookings", nil)
	}
	return bookings, nil
}

func (s *bookingService) publish(ctx context.Context, change events.Change) {
	if s.pub == nil {
		return
	}
	if err := s.pub.Publish(ctx, events.TopicBookings, change); err != nil {
		logger.Warn("BookingService:PublishChange", "error", err)
	}
}
