package auth

import (
	"arena-booking-api/core/database"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/auth/controller"
	"arena-booking-api/modules/auth/repository"
	"arena-booking-api/modules/auth/router"
	"arena-booking-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) service.AuthServiceInterface {
	repo := repository.NewUserRepository(db)
	svc := service.NewAuthService(repo)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Register(e, mw)

	return svc
}
