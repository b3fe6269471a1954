package middleware

import (
	"strings"

	"arena-booking-api/core/constants"
	"arena-booking-api/core/controller"
	"arena-booking-api/core/errors"
	"arena-booking-api/core/logger"
	"arena-booking-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Actor is the authenticated identity attached to the request context.
type Actor struct {
	ID      uuid.UUID
	Name    string
	Email   string
	IsAdmin bool
}

type Middleware struct{}

func New() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the bearer token and stores the actor in the context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "authorization header must be a bearer token")
			}

			data, err := utils.ValidateAndParseToken(parts[1])
			if err != nil {
				logger.Warn("Middleware:Auth:InvalidToken", "error", err)
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextActorKey, &Actor{
				ID:      data.UserID,
				Name:    data.Name,
				Email:   data.Email,
				IsAdmin: data.IsAdmin,
			})
			return next(c)
		}
	}
}

// AdminMiddleware requires an authenticated admin actor. Must run after AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFromContext(c)
			if actor == nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "authentication required")
			}
			if !actor.IsAdmin {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "admin privilege required")
			}
			return next(c)
		}
	}
}

// ActorFromContext returns the actor set by AuthMiddleware, or nil.
func ActorFromContext(c echo.Context) *Actor {
	actor, _ := c.Get(constants.ContextActorKey).(*Actor)
	return actor
}
