package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/handlers"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"fleetrent/internal/api"
	"fleetrent/internal/config"
	"fleetrent/internal/db"
	"fleetrent/internal/logging"
	"fleetrent/internal/repository"
	"fleetrent/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}

	logger := logging.NewLogger(cfg.Environment)
	defer logger.Sync()

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if err := database.Ping(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(context.Background(), database); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		logger.Fatal("failed to create upload dir", zap.Error(err))
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	customerRepo := repository.NewCustomerRepository(database)
	bookingRepo := repository.NewBookingRepository(database)
	rentalRepo := repository.NewRentalRepository(database)
	userRepo := repository.NewUserRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	settingsRepo := repository.NewSettingsRepository(database)
	dashboardRepo := repository.NewDashboardRepository(database)
	jobRepo := repository.NewJobRepository(database)

	notifier := service.NewNotifyService(cfg, logger)
	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.JWTSecret, cfg.TokenTTL)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	bookingSvc := service.NewBookingService(bookingRepo, vehicleRepo, customerRepo, notifier, cfg.BookingAutoConfirm, logger)
	rentalSvc := service.NewRentalService(rentalRepo, bookingRepo, notifier, logger)
	customerSvc := service.NewCustomerService(customerRepo)
	userSvc := service.NewUserService(userRepo)
	dashboardSvc := service.NewDashboardService(dashboardRepo, customerRepo)
	settingsSvc := service.NewSettingsService(settingsRepo, cfg.UploadDir, cfg.PublicBaseURL)
	jobSvc := service.NewJobService(jobRepo, bookingRepo, sessionRepo, logger)

	router := api.NewRouter(api.Handlers{
		Auth:      api.NewAuthHandler(authSvc),
		Vehicles:  api.NewVehicleHandler(vehicleSvc),
		Bookings:  api.NewBookingHandler(bookingSvc),
		Rentals:   api.NewRentalHandler(rentalSvc),
		Customers: api.NewCustomerHandler(customerSvc),
		Users:     api.NewUserHandler(userSvc),
		Dashboard: api.NewDashboardHandler(dashboardSvc),
		Settings:  api.NewSettingsHandler(settingsSvc),
	}, authSvc, logger, cfg.UploadDir)

	scheduler := cron.New()
	scheduler.AddFunc("5 0 * * *", jobSvc.ExpireStalePendingBookings)
	scheduler.AddFunc("@hourly", jobSvc.CleanupExpiredSessions)
	scheduler.Start()
	defer scheduler.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Request-ID"}),
	)(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
