package composer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"arena-booking-api/core/config"
)

// ComposeInput carries the booking facts handed to the message composer.
type ComposeInput struct {
	UserName  string `json:"user_name"`
	CourtName string `json:"court_name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	BookingID string `json:"booking_id"`
}

// Message is the composed confirmation content.
type Message struct {
	ShortMessage string `json:"short_message"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
}

// Composer produces human-readable confirmation content from booking facts.
type Composer interface {
	Compose(ctx context.Context, input ComposeInput) (*Message, error)
}

// HTTPComposer calls an external message-composer service.
type HTTPComposer struct {
	url    string
	client *http.Client
}

func NewHTTPComposer(cfg config.ComposerConfig) *HTTPComposer {
	return &HTTPComposer{
		url: cfg.URL,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (c *HTTPComposer) Compose(ctx context.Context, input ComposeInput) (*Message, error) {
	if c.url == "" {
		return nil, fmt.Errorf("composer url not configured")
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("composer request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("composer returned status %d", res.StatusCode)
	}

	var msg Message
	if err := json.NewDecoder(res.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("composer returned invalid payload: %w", err)
	}
	if msg.ShortMessage == "" || msg.Subject == "" || msg.Body == "" {
		return nil, fmt.Errorf("composer returned incomplete message")
	}

	return &msg, nil
}

// Fallback builds a deterministic confirmation from the same facts. Used
// whenever the composer fails; never retried.
func Fallback(input ComposeInput) Message {
	return Message{
		ShortMessage: fmt.Sprintf("Booking confirmed, %s! Your %s on %s at %s is reserved.",
			input.UserName, input.CourtName, input.Date, input.Time),
		Subject: fmt.Sprintf("Your booking is confirmed (ID: %s)", input.BookingID),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour booking (ID: %s) for the %s on %s at %s is confirmed.\n\n"+
				"Please arrive 10 minutes early. To cancel, open My Bookings on our site.\n\n"+
				"We look forward to seeing you!\n\nBest regards,\nThe Arena Team",
			input.UserName, input.BookingID, input.CourtName, input.Date, input.Time),
	}
}
