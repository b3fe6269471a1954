package controller

import (
	"arena-booking-api/core/controller"
	"arena-booking-api/core/errors"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/auth/dto"
	"arena-booking-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	service service.AuthServiceInterface
	controller.BaseController
}

func NewAuthController(service service.AuthServiceInterface) *AuthController {
	return &AuthController{
		service:        service,
		BaseController: controller.NewBaseController(),
	}
}

// Register creates a new account
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} controller.SuccessResponse
// @Failure 400 {object} errors.AppError
// @Failure 409 {object} errors.AppError
// @Router /auth/register [post]
func (c *AuthController) Register(ctx echo.Context) error {
	req := new(dto.RegisterRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	user, appErr := c.service.Register(ctx.Request().Context(), *req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, user, "Account created successfully")
}

// Login issues a bearer token
// @Summary Login
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} controller.SuccessResponse
// @Failure 401 {object} errors.AppError
// @Router /auth/login [post]
func (c *AuthController) Login(ctx echo.Context) error {
	req := new(dto.LoginRequest)
	if err := ctx.Bind(req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	res, appErr := c.service.Login(ctx.Request().Context(), *req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, res, "Logged in successfully")
}

// Me returns the current account
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} controller.SuccessResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx echo.Context) error {
	actor := middleware.ActorFromContext(ctx)
	if actor == nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized")
	}

	user, appErr := c.service.GetUser(ctx.Request().Context(), actor.ID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, user, "Account retrieved successfully")
}
