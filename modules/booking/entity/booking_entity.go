package entity

import (
	coreEntity "arena-booking-api/core/entity"
	courtentity "arena-booking-api/modules/court/entity"
)

// Booking is one reserved court slot. The (court_id, date, time) tuple is
// unique among active bookings, enforced by the store.
type Booking struct {
	CourtID   string                `db:"court_id" json:"court_id"`
	CourtName string                `db:"court_name" json:"court_name"`
	CourtType courtentity.CourtType `db:"court_type" json:"court_type"`
	Date      string                `db:"date" json:"date"` // YYYY-MM-DD
	Time      string                `db:"time" json:"time"` // HH:MM slot start
	UserID    string                `db:"user_id" json:"user_id"`
	UserName  string                `db:"user_name" json:"user_name"`
	coreEntity.BaseEntity
}
