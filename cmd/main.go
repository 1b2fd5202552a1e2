package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"billing-service/internal/config"
	"billing-service/internal/database/postgres"
	"billing-service/internal/database/redis"
	"billing-service/internal/event"
	"billing-service/internal/handlers"
	"billing-service/internal/models"
	"billing-service/internal/repository"
	"billing-service/internal/services"

	"github.com/gofiber/fiber/v3"
	"github.com/shopspring/decimal"
)

func setupLogging() (*os.File, error) {
	logDir := filepath.Join("/billing", "log", "billing_service")
	err := os.MkdirAll(logDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	currentTime := time.Now()
	logFileName := fmt.Sprintf("log_%s.log", currentTime.Format("2006-01-02"))
	logFile := filepath.Join(logDir, logFileName)

	file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(file, nil)))
	log.SetOutput(file)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	return file, nil
}

func main() {
	logFile, err := setupLogging()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	cfg := config.New()

	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		log.Printf("error connect to database: %s", err)
		go postgres.RetryConnectOnFailed(30*time.Second, &db, cfg.PostgresCfg)
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisCfg.Host, cfg.RedisCfg.Port, cfg.RedisCfg.Password, cfg.RedisCfg.DB)
	if err != nil {
		log.Printf("error connect to redis, summary cache disabled: %s", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	rabbitConn, err := event.ConnectRabbitMQ(cfg.RabbitMQCfg)
	if err != nil {
		log.Printf("error connect to rabbitmq, events disabled: %s", err)
		rabbitConn = nil
	}
	if rabbitConn != nil {
		defer rabbitConn.Close()
	}
	publisher := event.NewPublisher(rabbitConn)

	accountRepo := repository.NewAccountRepository(db)
	chargeRepo := repository.NewChargeRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	chargePaymentRepo := repository.NewChargePaymentRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	rolloverRepo := repository.NewRolloverRepository(db)

	seedChargeTypes(catalogRepo)

	jwtService := services.NewJWTService(cfg.JWTSecret)
	accountService := services.NewAccountService(accountRepo, chargeRepo, catalogRepo)
	chargeService := services.NewChargeService(accountRepo, chargeRepo, catalogRepo)
	paymentService := services.NewPaymentService(db, accountRepo, chargeRepo, paymentRepo, catalogRepo, publisher)
	chargePaymentService := services.NewChargePaymentService(db, accountRepo, chargeRepo, chargePaymentRepo, publisher)
	rolloverService := services.NewRolloverService(db, accountRepo, chargeRepo, paymentRepo, catalogRepo, rolloverRepo, publisher, cfg.RolloverBatch)
	summaryService := services.NewSummaryService(accountRepo, chargeRepo, redisClient, cfg.SummaryCacheTTL)

	reclassifyJob := services.NewReclassifyJob(db, accountRepo, cfg.RolloverBatch)
	reclassifyJob.Start()
	defer reclassifyJob.Stop()

	app := fiber.New()
	app.Get("/checkhealth", func(c fiber.Ctx) error {
		if !postgres.DBStatus {
			return c.Status(fiber.StatusServiceUnavailable).SendString("Billing service is waiting for the database")
		}
		return c.Status(fiber.StatusOK).SendString("Billing service is healthy")
	})

	auth := handlers.NewAuthMiddleware(jwtService)
	handlers.NewAccountHandler(accountService).Register(app, auth)
	handlers.NewPaymentHandler(paymentService).Register(app, auth)
	handlers.NewChargePaymentHandler(chargePaymentService).Register(app, auth)
	handlers.NewChargeHandler(chargeService).Register(app, auth)
	handlers.NewCatalogHandler(catalogRepo).Register(app, auth)
	handlers.NewRolloverHandler(rolloverService, summaryService, reclassifyJob, rolloverRepo).Register(app, auth)
	handlers.NewSummaryHandler(summaryService).Register(app, auth)

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", cfg.Port)); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("Shutting down server...")
}

// seedChargeTypes upserts the system charge types so the rollover and
// onboarding never get-or-create inside their transactions.
func seedChargeTypes(catalogRepo *repository.CatalogRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := catalogRepo.EnsureChargeType(ctx, models.ChargeTypeAnnualClosure, decimal.Zero, true); err != nil {
		log.Printf("failed to seed %s charge type: %s", models.ChargeTypeAnnualClosure, err)
	}
	if _, err := catalogRepo.EnsureChargeType(ctx, models.ChargeTypeNewConnection, decimal.NewFromInt(150), true); err != nil {
		log.Printf("failed to seed %s charge type: %s", models.ChargeTypeNewConnection, err)
	}
}
