package main

import (
	"arena-booking-api/core/logger"
	"arena-booking-api/core/server"
)

// @title Arena Court Booking API
// @version 1.0
// @description Court slot reservations and communal play session sign-ups.

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
