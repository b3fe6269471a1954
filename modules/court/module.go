package court

import (
	"arena-booking-api/core/database"
	"arena-booking-api/core/middleware"
	bookingrepo "arena-booking-api/modules/booking/repository"
	"arena-booking-api/modules/court/controller"
	"arena-booking-api/modules/court/router"
	"arena-booking-api/modules/court/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) service.CourtService {
	svc := service.NewCourtService(bookingrepo.NewBookingRepository(db))
	ctrl := controller.NewCourtController(svc)

	router.NewCourtRouter(ctrl).Register(e, mw)

	return svc
}
