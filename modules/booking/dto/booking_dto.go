package dto

import "arena-booking-api/modules/booking/entity"

// CreateBookingRequest is the body for booking a court slot.
type CreateBookingRequest struct {
	CourtID string `json:"court_id"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// RescheduleBookingRequest is the admin body for moving a booking to a new
// date/time on the same court.
type RescheduleBookingRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BookingConfirmation is a created booking together with the confirmation
// message shown to the user.
type BookingConfirmation struct {
	Booking             *entity.Booking `json:"booking"`
	ConfirmationMessage string          `json:"confirmation_message"`
}
