package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"arena-booking-api/core/errors"
	bookingrepo "arena-booking-api/modules/booking/repository"
	"arena-booking-api/modules/court/entity"
	playentity "arena-booking-api/modules/play/entity"
	playservice "arena-booking-api/modules/play/service"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type CourtService interface {
	ListCourts() []entity.Court
	Availability(ctx context.Context, courtID, date string) ([]entity.TimeSlotStatus, *errors.AppError)
}

type courtService struct {
	bookings bookingrepo.BookingRepositoryInterface
}

func NewCourtService(bookings bookingrepo.BookingRepositoryInterface) CourtService {
	return &courtService{bookings: bookings}
}

func (s *courtService) ListCourts() []entity.Court {
	return entity.Catalog()
}

// Availability projects the configured slot set onto one court and date. A
// slot is bookable only when it is neither booked nor inside a play session
// window; the two flags are independent and the caller gets both.
func (s *courtService) Availability(ctx context.Context, courtID, date string) ([]entity.TimeSlotStatus, *errors.AppError) {
	if entity.FindCourt(courtID) == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, fmt.Sprintf("unknown court %q", courtID), nil)
	}
	if !dateRe.MatchString(date) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "date must be YYYY-MM-DD", nil)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, fmt.Sprintf("%s is not a valid calendar date", date), nil)
	}

	bookings, err := s.bookings.ListByCourtAndDate(ctx, courtID, date)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrStoreUnavailable, "could not load bookings", nil)
	}

	booked := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		booked[b.Time] = true
	}

	templates := playentity.Templates()
	slots := make([]entity.TimeSlotStatus, 0, len(entity.AvailableTimeSlots))
	for _, slotTime := range entity.AvailableTimeSlots {
		slots = append(slots, entity.TimeSlotStatus{
			Time:       slotTime,
			IsBooked:   booked[slotTime],
			IsPlayTime: playservice.IsWithinPlayWindow(date, slotTime, templates),
		})
	}

	return slots, nil
}
