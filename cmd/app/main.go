package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shipping/cmd"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/pkg/logger"
)

func main() {
	cfg := getConfigs()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)
	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = postgres.MigrateSchema(gormDB); err != nil {
		log.Fatal("failed to migrate database schema", zap.Error(err))
	}

	root, err := cmd.NewCompositionRoot(cfg, gormDB, log)
	if err != nil {
		log.Fatal("failed to assemble service", zap.Error(err))
	}
	defer root.Close()

	if err = root.JobManager().StartAll(); err != nil {
		log.Fatal("failed to start background jobs", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	root.HTTPServer().RegisterRoutes(e)

	go func() {
		if serveErr := e.Start("0.0.0.0:" + cfg.HTTPPort); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Fatal("http server stopped", zap.Error(serveErr))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(ctx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}
}

func getConfigs() cmd.Config {
	// Missing .env is fine in containerized deployments where the
	// environment is injected directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort: envOr("HTTP_PORT", "8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOr("DB_SSLMODE", "disable"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AmqpURL:      os.Getenv("AMQP_URL"),
		AmqpExchange: envOr("AMQP_EXCHANGE", "shipping.events"),

		UpsClientID:      os.Getenv("UPS_CLIENT_ID"),
		UpsClientSecret:  os.Getenv("UPS_CLIENT_SECRET"),
		UpsAccountNumber: os.Getenv("UPS_ACCOUNT_NUMBER"),

		UpsAuthEndpoint:            os.Getenv("UPS_AUTH_ENDPOINT"),
		UpsRateEndpoint:            os.Getenv("UPS_RATE_ENDPOINT"),
		UpsShipEndpoint:            os.Getenv("UPS_SHIP_ENDPOINT"),
		UpsVoidEndpoint:            os.Getenv("UPS_VOID_ENDPOINT"),
		UpsAddressValidateEndpoint: os.Getenv("UPS_ADDRESS_VALIDATE_ENDPOINT"),
		UpsPaperlessUploadEndpoint: os.Getenv("UPS_PAPERLESS_UPLOAD_ENDPOINT"),
		UpsPaperlessImageEndpoint:  os.Getenv("UPS_PAPERLESS_IMAGE_ENDPOINT"),
		UpsPreRegisterEndpoint:     os.Getenv("UPS_PREREGISTER_ENDPOINT"),

		ShipperName:         os.Getenv("SHIPPER_NAME"),
		ShipperAttentionTo:  os.Getenv("SHIPPER_ATTENTION_TO"),
		ShipperAddressLine1: os.Getenv("SHIPPER_ADDRESS_LINE1"),
		ShipperAddressLine2: os.Getenv("SHIPPER_ADDRESS_LINE2"),
		ShipperCity:         os.Getenv("SHIPPER_CITY"),
		ShipperState:        os.Getenv("SHIPPER_STATE"),
		ShipperPostalCode:   os.Getenv("SHIPPER_POSTAL_CODE"),
		ShipperCountryCode:  os.Getenv("SHIPPER_COUNTRY_CODE"),
		ShipperPhone:        os.Getenv("SHIPPER_PHONE"),
		ShipperEmail:        os.Getenv("SHIPPER_EMAIL"),

		HandlingFee:     envFloat("HANDLING_FEE"),
		CustomsCoolDown: envDuration("CUSTOMS_COOL_DOWN"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0
	}
	return v
}

func envDuration(key string) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}
