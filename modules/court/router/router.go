package router

import (
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/court/controller"

	"github.com/labstack/echo/v4"
)

type CourtRouter struct {
	controller *controller.CourtController
}

func NewCourtRouter(controller *controller.CourtController) *CourtRouter {
	return &CourtRouter{controller: controller}
}

func (r *CourtRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/courts")
	group.GET("", r.controller.ListCourts)
	group.GET("/:id/availability", r.controller.Availability)
}
