package controller

import (
	"arena-booking-api/core/controller"
	"arena-booking-api/modules/court/service"

	"github.com/labstack/echo/v4"
)

type CourtController struct {
	service service.CourtService
	controller.BaseController
}

func NewCourtController(service service.CourtService) *CourtController {
	return &CourtController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// ListCourts returns the court catalog
// @Summary List courts
// @Tags Court
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /courts [get]
func (c *CourtController) ListCourts(ctx echo.Context) error {
	return c.SuccessResponse(ctx, c.service.ListCourts(), "Courts retrieved successfully")
}

// Availability returns per-slot availability for one court and date
// @Summary Court availability
// @Description Returns every configured slot time with booked and play-window flags. A slot is bookable only when both flags are false.
// @Tags Court
// @Produce json
// @Param id path string true "Court ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Failure 404 {object} errors.AppError
// @Router /courts/{id}/availability [get]
func (c *CourtController) Availability(ctx echo.Context) error {
	slots, appErr := c.service.Availability(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("date"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, slots, "Availability retrieved successfully")
}
