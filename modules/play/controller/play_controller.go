package controller

import (
	"arena-booking-api/core/controller"
	"arena-booking-api/core/errors"
	"arena-booking-api/core/events"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/play/dto"
	"arena-booking-api/modules/play/service"

	"github.com/labstack/echo/v4"
)

type PlayController struct {
	service    service.PlayService
	subscriber events.Subscriber
	controller.BaseController
}

func NewPlayController(service service.PlayService, subscriber events.Subscriber) *PlayController {
	return &PlayController{
		service:        service,
		subscriber:     subscriber,
		BaseController: controller.NewBaseController(),
	}
}

// SignUp registers the current user for a play session occurrence
// @Summary Sign up for a play session
// @Description Registers the authenticated user for one occurrence of a recurring play session. Repeating an identical sign-up returns the existing record.
// @Tags Play
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "Slot key and occurrence date"
// @Success 201 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /play/signups [post]
func (c *PlayController) SignUp(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	req := new(dto.SignUpRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	signUp, appErr := c.service.SignUp(ctx.Request().Context(), req.SlotKey, req.Date, actor.ID, actor.Name, actor.Email)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, signUp, "Signed up successfully")
}

// Cancel removes a play session sign-up
// @Summary Cancel a sign-up
// @Description Removes a sign-up. Allowed for the participant themself or an admin.
// @Tags Play
// @Security BearerAuth
// @Produce json
// @Param id path string true "Sign-up ID"
// @Success 200 {object} controller.SuccessResponse
// @Failure 403 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /play/signups/{id} [delete]
func (c *PlayController) Cancel(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	if appErr := c.service.Cancel(ctx.Request().Context(), ctx.Param("id"), actor.ID, actor.IsAdmin); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Sign-up cancelled")
}

// ListSlots returns the upcoming play session occurrences with rosters
// @Summary List play sessions
// @Description Returns every session template with its upcoming occurrence dates, participant rosters and capacity.
// @Tags Play
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /play/slots [get]
func (c *PlayController) ListSlots(ctx echo.Context) error {
	views, appErr := c.service.ListSlots(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, views, "Play slots retrieved successfully")
}

// ListSignUps returns all active sign-ups
// @Summary List sign-ups
// @Tags Play
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /play/signups [get]
func (c *PlayController) ListSignUps(ctx echo.Context) error {
	signUps, appErr := c.service.ListSignUps(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, signUps, "Sign-ups retrieved successfully")
}

// Watch streams sign-up changes as server-sent events
// @Summary Watch sign-up changes
// @Description Streams sign-up change events. Clients refresh their roster from the list endpoint on each event.
// @Tags Play
// @Security BearerAuth
// @Produce text/event-stream
// @Router /play/signups/watch [get]
func (c *PlayController) Watch(ctx echo.Context) error {
	return controller.StreamChanges(ctx, c.subscriber, events.TopicPlaySignUps)
}
