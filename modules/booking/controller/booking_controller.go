package controller

import (
	"arena-booking-api/core/controller"
	"arena-booking-api/core/errors"
	"arena-booking-api/core/events"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/booking/dto"
	"arena-booking-api/modules/booking/service"

	"github.com/labstack/echo/v4"
)

type BookingController struct {
	service    service.BookingService
	subscriber events.Subscriber
	controller.BaseController
}

func NewBookingController(service service.BookingService, subscriber events.Subscriber) *BookingController {
	return &BookingController{
		service:        service,
		subscriber:     subscriber,
		BaseController: controller.NewBaseController(),
	}
}

// Create books a court slot for the current user
// @Summary Book a court slot
// @Description Reserves one court for one slot. Fails with 409 when the slot is taken or inside a play session window.
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Court, date and slot time"
// @Success 201 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /bookings [post]
func (c *BookingController) Create(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.CreateBookingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	confirmation, appErr := c.service.Create(ctx.Request().Context(), *req, actor.ID, actor.Name, actor.Email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, confirmation, "Booking created successfully")
}

// Cancel removes a booking
// @Summary Cancel a booking
// @Description Removes a booking. Allowed for the owner or an admin.
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /bookings/{id} [delete]
func (c *BookingController) Cancel(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	if appErr := c.service.Cancel(ctx.Request().Context(), ctx.Param("id"), actor.ID, actor.IsAdmin); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Booking cancelled")
}

// Reschedule moves a booking to a new date/time (admin)
// @Summary Reschedule a booking
// @Description Moves an existing booking to a new date/time on the same court. Rescheduling onto its current slot succeeds as a no-op.
// @Tags Booking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RescheduleBookingRequest true "New date and slot time"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /bookings/{id}/schedule [put]
func (c *BookingController) Reschedule(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.RescheduleBookingRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	if appErr := c.service.Reschedule(ctx.Request().Context(), ctx.Param("id"), *req, actor.IsAdmin); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Booking rescheduled")
}

// ListAll returns every active booking
// @Summary List all bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /bookings [get]
func (c *BookingController) ListAll(ctx echo.Context) error {
	bookings, appErr := c.service.ListAll(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, bookings, "Bookings retrieved successfully")
}

// ListMine returns the current user's bookings
// @Summary List my bookings
// @Tags Booking
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /bookings/mine [get]
func (c *BookingController) ListMine(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	bookings, appErr := c.service.ListByUser(ctx.Request().Context(), actor.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, bookings, "Bookings retrieved successfully")
}

// Watch streams booking changes as server-sent events
// @Summary Watch booking changes
// @Description Streams booking change events. Clients refresh their availability view from the list endpoints on each event.
// @Tags Booking
// @Security BearerAuth
// @Produce text/event-stream
// @Router /bookings/watch [get]
func (c *BookingController) Watch(ctx echo.Context) error {
	return controller.StreamChanges(ctx, c.subscriber, events.TopicBookings)
}
