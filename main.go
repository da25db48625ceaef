package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/tickethub/ticket-booking/config"
	"github.com/tickethub/ticket-booking/internal/handler"
	"github.com/tickethub/ticket-booking/internal/lock"
	"github.com/tickethub/ticket-booking/internal/middleware"
	"github.com/tickethub/ticket-booking/internal/notification"
	"github.com/tickethub/ticket-booking/internal/repository"
	"github.com/tickethub/ticket-booking/internal/service"
	"github.com/tickethub/ticket-booking/pkg/database"
	"github.com/tickethub/ticket-booking/pkg/rabbitmq"
	"github.com/tickethub/ticket-booking/pkg/redisclient"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db := database.NewPostgresDB(cfg.DSN())

	redisCli, err := redisclient.New(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redisCli.Close()

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		logger.Fatal("failed to connect to RabbitMQ", zap.Error(err))
	}
	defer publisher.Close()

	notifier := notification.NewDispatcher(publisher, logger)
	notifier.Start()
	defer notifier.Stop()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	// Services
	locker := lock.NewRedisLocker(redisCli)
	reservationSvc := service.NewReservationService(ticketRepo, locker, cfg.LockTTL, logger)
	bookingSvc := service.NewBookingService(bookingRepo, ticketRepo, userRepo, reservationSvc, notifier, logger)
	ticketSvc := service.NewTicketService(ticketRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "ticket-booking"})
	})

	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e)
	handler.NewTicketHandler(ticketSvc, reservationSvc).RegisterRoutes(e)

	logger.Info("ticket booking service starting", zap.String("port", cfg.ServerPort))
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
