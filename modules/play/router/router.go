package router

import (
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/play/controller"

	"github.com/labstack/echo/v4"
)

type PlayRouter struct {
	controller *controller.PlayController
}

func NewPlayRouter(controller *controller.PlayController) *PlayRouter {
	return &PlayRouter{controller: controller}
}

func (r *PlayRouter) Register(e *echo.Group, mw *middleware.Middleware) {
	group := e.Group("/play")
	group.GET("/slots", r.controller.ListSlots)

	auth := group.Group("", mw.AuthMiddleware())
	auth.POST("/signups", r.controller.SignUp)
	auth.GET("/signups", r.controller.ListSignUps)
	auth.GET("/signups/watch", r.controller.Watch)
	auth.DELETE("/signups/:id", r.controller.Cancel)
}
