package notification

import (
	"arena-booking-api/core/database"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/notification/controller"
	"arena-booking-api/modules/notification/repository"
	"arena-booking-api/modules/notification/router"
	"arena-booking-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
