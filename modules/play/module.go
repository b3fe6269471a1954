package play

import (
	"arena-booking-api/core/database"
	"arena-booking-api/core/events"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/play/controller"
	"arena-booking-api/modules/play/repository"
	"arena-booking-api/modules/play/router"
	"arena-booking-api/modules/play/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware, bus *events.Bus) service.PlayService {
	repo := repository.NewSignUpRepository(db)
	svc := service.NewPlayService(repo, bus)
	ctrl := controller.NewPlayController(svc, bus)

	router.NewPlayRouter(ctrl).Register(e, mw)

	return svc
}
