package controller

import (
	"fmt"
	"net/http"

	"arena-booking-api/core/events"

	"github.com/labstack/echo/v4"
)

// StreamChanges writes one SSE data frame per change event on the topic until
// the client disconnects.
func StreamChanges(c echo.Context, subscriber events.Subscriber, topic string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	reqCtx := c.Request().Context()
	changes, cancel := subscriber.Subscribe(reqCtx, topic)
	defer cancel()

	for {
		select {
		case <-reqCtx.Done():
			return nil
		case payload, ok := <-changes:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
