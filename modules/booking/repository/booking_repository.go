package repository

import (
	"context"
	"database/sql"
	"errors"

	"arena-booking-api/core/database"
	"arena-booking-api/core/logger"
	"arena-booking-api/modules/booking/entity"

	"github.com/lib/pq"
)

// ErrDuplicateSlot is returned when the unique (court_id, date, time) index
// rejects a write. It is the store-level serialization point for concurrent
// bookings of the same slot.
var ErrDuplicateSlot = errors.New("slot already booked")

// ErrBookingGone is returned when an update targets a booking that no longer
// exists, e.g. cancelled between the caller's read and the write.
var ErrBookingGone = errors.New("booking no longer exists")

type BookingRepositoryInterface interface {
	Create(ctx context.Context, booking *entity.Booking) error
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	FindConflict(ctx context.Context, courtID, date, time string) (*entity.Booking, error)
	ListAll(ctx context.Context) ([]entity.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Booking, error)
	ListByCourtAndDate(ctx context.Context, courtID, date string) ([]entity.Booking, error)
	UpdateSchedule(ctx context.Context, id, date, time string) error
	Delete(ctx context.Context, id string) error
}

type BookingRepository struct {
	DB database.Database
}

func NewBookingRepository(db database.Database) *BookingRepository {
	return &BookingRepository{DB: db}
}

func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, court_id, court_name, court_type, date, time, user_id, user_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		booking.ID, booking.CourtID, booking.CourtName, booking.CourtType,
		booking.Date, booking.Time, booking.UserID, booking.UserName,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlot
		}
		logger.Error("BookingRepository:Create", err)
		return err
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	query := `
		SELECT id, court_id, court_name, court_type, date, time, user_id, user_name, created_at, updated_at
		FROM bookings WHERE id = $1
	`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:GetByID", err)
		return nil, err
	}

	return &booking, nil
}

// FindConflict returns the booking occupying (courtID, date, time), or nil.
func (r *BookingRepository) FindConflict(ctx context.Context, courtID, date, time string) (*entity.Booking, error) {
	query := `
		SELECT id, court_id, court_name, court_type, date, time, user_id, user_name, created_at, updated_at
		FROM bookings
		WHERE court_id = $1 AND date = $2 AND time = $3
	`

	var booking entity.Booking
	err := r.DB.GetContext(ctx, &booking, query, courtID, date, time)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("BookingRepository:FindConflict", err)
		return nil, err
	}

	return &booking, nil
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]entity.Booking, error) {
	query := `
		SELECT id, court_id, court_name, court_type, date, time, user_id, user_name, created_at, updated_at
		FROM bookings
		ORDER BY date, time
	`

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query)
	if err != nil {
		logger.Error("BookingRepository:ListAll", err)
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]entity.Booking, error) {
	query := `
		SELECT id, court_id, court_name, court_type, date, time, user_id, user_name, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY date, time
	`

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query, userID)
	if err != nil {
		logger.Error("BookingRepository:ListByUser", err)
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepository) ListByCourtAndDate(ctx context.Context, courtID, date string) ([]entity.Booking, error) {
	query := `
		SELECT id, court_id, court_name, court_type, date, time, user_id, user_name, created_at, updated_at
		FROM bookings
		WHERE court_id = $1 AND date = $2
		ORDER BY time
	`

	var bookings []entity.Booking
	err := r.DB.SelectContext(ctx, &bookings, query, courtID, date)
	if err != nil {
		logger.Error("BookingRepository:ListByCourtAndDate", err)
		return nil, err
	}

	return bookings, nil
}

// UpdateSchedule moves a booking to a new date/time. Court and owner are
// never touched here. The unique index still guards the target slot.
func (r *BookingRepository) UpdateSchedule(ctx context.Context, id, date, time string) error {
	query := `UPDATE bookings SET date = $2, time = $3, updated_at = NOW() WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, date, time)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateSlot
		}
		logger.Error("BookingRepository:UpdateSchedule", err)
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrBookingGone
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM bookings WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("BookingRepository:Delete", err)
		return err
	}
	return nil
}
