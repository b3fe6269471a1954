package repository

import (
	"context"
	"database/sql"
	"errors"

	"arena-booking-api/core/database"
	"arena-booking-api/core/logger"
	"arena-booking-api/modules/play/entity"

	"github.com/lib/pq"
)

// ErrDuplicateSignUp is returned when the unique (slot_key, date, user_id)
// index rejects an insert.
var ErrDuplicateSignUp = errors.New("sign-up already exists for this occurrence")

// ErrOccurrenceFull is returned when an insert would push the occurrence past
// its participant cap.
var ErrOccurrenceFull = errors.New("occurrence is at capacity")

type SignUpRepositoryInterface interface {
	Create(ctx context.Context, signUp *entity.PlaySignUp, maxParticipants int) error
	GetByID(ctx context.Context, id string) (*entity.PlaySignUp, error)
	FindByOccurrenceAndUser(ctx context.Context, slotKey, date, userID string) (*entity.PlaySignUp, error)
	CountByOccurrence(ctx context.Context, slotKey, date string) (int, error)
	ListAll(ctx context.Context) ([]entity.PlaySignUp, error)
	ListByOccurrence(ctx context.Context, slotKey, date string) ([]entity.PlaySignUp, error)
	Delete(ctx context.Context, id string) error
}

type SignUpRepository struct {
	DB database.Database
}

func NewSignUpRepository(db database.Database) *SignUpRepository {
	return &SignUpRepository{DB: db}
}

// Create inserts one sign-up while holding a transaction-scoped advisory lock
// on the occurrence, so the capacity count and the insert are atomic against
// concurrent writers for the same (slot_key, date).
func (r *SignUpRepository) Create(ctx context.Context, signUp *entity.PlaySignUp, maxParticipants int) error {
	tx, err := r.DB.SQLx().BeginTxx(ctx, nil)
	if err != nil {
		logger.Error("SignUpRepository:Create:Begin", err)
		return err
	}
	defer tx.Rollback()

	// Serializes writers per occurrence. Released automatically on
	// commit or rollback.
	lockKey := signUp.SlotKey + "|" + signUp.Date
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
		logger.Error("SignUpRepository:Create:Lock", err)
		return err
	}

	var count int
	err = tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM play_signups WHERE slot_key = $1 AND date = $2`,
		signUp.SlotKey, signUp.Date)
	if err != nil {
		logger.Error("SignUpRepository:Create:Count", err)
		return err
	}
	if count >= maxParticipants {
		return ErrOccurrenceFull
	}

	query := `
		INSERT INTO play_signups (id, slot_key, date, user_id, user_name, user_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING signed_up_at
	`
	err = tx.QueryRowContext(ctx, query,
		signUp.ID, signUp.SlotKey, signUp.Date,
		signUp.UserID, signUp.UserName, signUp.UserEmail,
	).Scan(&signUp.SignedUpAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateSignUp
		}
		logger.Error("SignUpRepository:Create", err)
		return err
	}

	return tx.Commit()
}

func (r *SignUpRepository) GetByID(ctx context.Context, id string) (*entity.PlaySignUp, error) {
	query := `
		SELECT id, slot_key, date, user_id, user_name, user_email, signed_up_at
		FROM play_signups WHERE id = $1
	`

	var signUp entity.PlaySignUp
	err := r.DB.GetContext(ctx, &signUp, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SignUpRepository:GetByID", err)
		return nil, err
	}

	return &signUp, nil
}

func (r *SignUpRepository) FindByOccurrenceAndUser(ctx context.Context, slotKey, date, userID string) (*entity.PlaySignUp, error) {
	query := `
		SELECT id, slot_key, date, user_id, user_name, user_email, signed_up_at
		FROM play_signups
		WHERE slot_key = $1 AND date = $2 AND user_id = $3
	`

	var signUp entity.PlaySignUp
	err := r.DB.GetContext(ctx, &signUp, query, slotKey, date, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("SignUpRepository:FindByOccurrenceAndUser", err)
		return nil, err
	}

	return &signUp, nil
}

func (r *SignUpRepository) CountByOccurrence(ctx context.Context, slotKey, date string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM play_signups WHERE slot_key = $1 AND date = $2`
	err := r.DB.GetContext(ctx, &count, query, slotKey, date)
	if err != nil {
		logger.Error("SignUpRepository:CountByOccurrence", err)
		return 0, err
	}
	return count, nil
}

func (r *SignUpRepository) ListAll(ctx context.Context) ([]entity.PlaySignUp, error) {
	query := `
		SELECT id, slot_key, date, user_id, user_name, user_email, signed_up_at
		FROM play_signups
		ORDER BY date, slot_key, signed_up_at
	`

	var signUps []entity.PlaySignUp
	err := r.DB.SelectContext(ctx, &signUps, query)
	if err != nil {
		logger.Error("SignUpRepository:ListAll", err)
		return nil, err
	}

	return signUps, nil
}

func (r *SignUpRepository) ListByOccurrence(ctx context.Context, slotKey, date string) ([]entity.PlaySignUp, error) {
	query := `
		SELECT id, slot_key, date, user_id, user_name, user_email, signed_up_at
		FROM play_signups
		WHERE slot_key = $1 AND date = $2
		ORDER BY signed_up_at
	`

	var signUps []entity.PlaySignUp
	err := r.DB.SelectContext(ctx, &signUps, query, slotKey, date)
	if err != nil {
		logger.Error("SignUpRepository:ListByOccurrence", err)
		return nil, err
	}

	return signUps, nil
}

func (r *SignUpRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM play_signups WHERE id = $1`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		logger.Error("SignUpRepository:Delete", err)
		return err
	}
	return nil
}
