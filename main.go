// File: barberbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barberbook/config"
	"barberbook/cron"
	"barberbook/database"
	bookingsRepo "barberbook/database/repository/bookings"
	catalogRepo "barberbook/database/repository/catalog"
	"barberbook/handlers"
	"barberbook/middleware"
	"barberbook/routes"
	"barberbook/services/booking"
	"barberbook/services/category"
	"barberbook/services/tasks"
	"barberbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	tiers := config.AppConfig.DiscountTiers()
	if err := booking.ValidateTiers(tiers); err != nil {
		logger.Fatal("main: package discount tiers are invalid", zap.Error(err))
	}

	loc, err := time.LoadLocation(config.AppConfig.ShopTimezone)
	if err != nil {
		logger.Fatal("main: unknown shop timezone", zap.String("timezone", config.AppConfig.ShopTimezone), zap.Error(err))
	}

	database.InitDB()
	utils.InitRedis()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	db := database.Database()
	catalog := catalogRepo.NewMongoCatalogRepo(db)
	if err := catalog.EnsureIndexes(ctx); err != nil {
		logger.Warn("main: catalog indexes not created", zap.Error(err))
	}
	if err := bookingsRepo.EnsureIndexes(ctx, db); err != nil {
		logger.Warn("main: booking indexes not created", zap.Error(err))
	}
	bookings := bookingsRepo.NewMongoBookingRepo(db)

	// reminders.
	queueOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	queueClient := asynq.NewClient(queueOpts)
	defer queueClient.Close()
	worker := cron.InitReminderWorker(ctx, queueOpts, cron.LogNotifier{Logger: logger}, logger)

	// services.
	translator := utils.StaticTranslator{}
	bookingService := &booking.DefaultBookingSessionService{
		Sessions:   booking.NewRedisSessionStore(utils.GetBookingCacheClient(), config.AppConfig.SessionTTL()),
		Catalog:    catalog,
		Bookings:   bookings,
		Reminders:  tasks.NewReminderScheduler(queueClient, config.AppConfig.ReminderLead()),
		Translator: translator,
		Tiers:      tiers,
		Location:   loc,
		Logger:     logger,
	}
	categoryCache := category.NewCache(
		category.NewRedisStore(utils.GetCategoryCacheClient(), 30*24*time.Hour),
		config.AppConfig.CategoryCacheTTL(),
		category.WithLogger(logger),
	)

	bookingHandler := handlers.NewBookingHandler(bookingService, bookings, translator, logger)
	catalogHandler := handlers.NewCatalogHandler(bookingService, categoryCache, logger)

	utils.StartHealthMonitor(ctx, utils.RedisClients(), database.MongoClient)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin, logger))

	routes.RegisterRoutes(router, handlers.NewHandlerBundle(bookingHandler, catalogHandler))

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	for _, c := range utils.RedisClients() {
		_ = c.Close()
	}
	if err := database.MongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
