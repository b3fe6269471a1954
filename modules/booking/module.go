package booking

import (
	"arena-booking-api/core/database"
	"arena-booking-api/core/events"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/booking/controller"
	"arena-booking-api/modules/booking/repository"
	"arena-booking-api/modules/booking/router"
	"arena-booking-api/modules/booking/service"
	"arena-booking-api/modules/notification/composer"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware,
	comp composer.Composer, notifier service.Notifier, mail service.MailQueue, bus *events.Bus) service.BookingService {

	repo := repository.NewBookingRepository(db)
	svc := service.NewBookingService(repo, comp, notifier, mail, bus)
	ctrl := controller.NewBookingController(svc, bus)

	router.NewBookingRouter(ctrl).Register(e, mw)

	return svc
}
