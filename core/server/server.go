package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena-booking-api/core/config"
	"arena-booking-api/core/database"
	"arena-booking-api/core/events"
	"arena-booking-api/core/logger"
	"arena-booking-api/core/metrics"
	"arena-booking-api/core/middleware"
	"arena-booking-api/modules/auth"
	"arena-booking-api/modules/booking"
	"arena-booking-api/modules/court"
	"arena-booking-api/modules/notification"
	"arena-booking-api/modules/notification/composer"
	notifworker "arena-booking-api/modules/notification/worker"
	"arena-booking-api/modules/play"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Run wires the whole service together and blocks until shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Server.LogLevel)

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	bus := events.NewBus(rdb)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()
	mailQueue := notifworker.NewQueue(asynqClient)

	asynqServer := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})
	go func() {
		if err := asynqServer.Run(notifworker.NewMux()); err != nil {
			logger.Error("Server:AsynqWorker", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("HTTP:Request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", metrics.Handler())

	mw := middleware.New()
	api := e.Group("/api/v1")

	auth.Init(api, db, mw)
	court.Init(api, db, mw)
	notifSvc := notification.Init(api, db, mw)
	comp := composer.NewHTTPComposer(cfg.Composer)
	booking.Init(api, db, mw, comp, notifSvc, mailQueue, bus)
	play.Init(api, db, mw, bus)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("Server:Start", err)
		}
	}()
	logger.Info("Server started", "addr", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	asynqServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
