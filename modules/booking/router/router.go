package router

import (
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

type BookingRouter struct {
	controller *controller.BookingController
}

func NewBookingRouter(controller *controller.BookingController) *BookingRouter {
	return &BookingRouter{controller: controller}
}

func (r *BookingRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/bookings", mw.AuthMiddleware())
	group.POST("", r.controller.Create)
	group.GET("", r.controller.ListAll)
	group.GET("/mine", r.controller.ListMine)
	group.GET("/watch", r.controller.Watch)
	group.DELETE("/:id", r.controller.Cancel)

	admin := group.Group("", mw.AdminMiddleware())
	admin.PUT("/:id/schedule", r.controller.Reschedule)
}
