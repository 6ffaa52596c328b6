package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"gorm.io/gorm"

	// Application Layer
	appService "healthaxis/internal/application/service"

	// Infrastructure Layer
	"healthaxis/internal/infrastructure/backend"
	"healthaxis/internal/infrastructure/database/sqlite"
	"healthaxis/internal/infrastructure/notify"
	"healthaxis/internal/infrastructure/scheduler"
	"healthaxis/internal/infrastructure/storage/badgerdb"

	// Interfaces Layer
	"healthaxis/internal/interfaces/api/handler"
	"healthaxis/internal/interfaces/api/router"

	// Packages
	"healthaxis/internal/pkg/config"
	"healthaxis/internal/pkg/events"
	appLogger "healthaxis/internal/pkg/logger"
	"healthaxis/internal/pkg/tone"

	_ "github.com/joho/godotenv/autoload" // Automatically load .env file
)

func gracefulShutdown(
	apiServer *http.Server,
	schedulerService appService.SchedulerService,
	badgerDB *badger.DB,
	gormDB *gorm.DB,
	log appLogger.Logger,
	done chan bool,
) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")

	// Stop the scheduler first so no job fires mid-shutdown.
	schedulerService.Stop()

	if err := badgerDB.Close(); err != nil {
		log.Error("Error closing reminder store", err)
	}
	if err := sqlite.CloseDB(gormDB); err != nil {
		log.Error("Error closing dose-log database", err)
	}

	// The server has 5 seconds to finish in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err)
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	// --- Initialization ---
	appLog := appLogger.New()
	appLog.Info("Logger initialized.")

	cfg, err := config.Load()
	if err != nil {
		appLog.Error("Failed to load configuration", err)
		os.Exit(1)
	}

	// --- Infrastructure ---
	badgerPath := cfg.Storage.BadgerPath
	if badgerPath == "" {
		badgerPath = filepath.Join(cfg.Storage.DataDir, "reminders")
	}
	badgerDB, err := badgerdb.Open(badgerPath, appLog)
	if err != nil {
		appLog.Error("Failed to open reminder store", err)
		os.Exit(1)
	}
	reminderRepo := badgerdb.NewReminderRepository(badgerDB, appLog)

	sqlitePath := cfg.Storage.SQLitePath
	if sqlitePath == "" {
		sqlitePath = filepath.Join(cfg.Storage.DataDir, "healthaxis.db")
	}
	gormDB, err := sqlite.NewDB(sqlitePath)
	if err != nil {
		appLog.Error("Failed to open dose-log database", err)
		os.Exit(1)
	}
	doseLogRepo := sqlite.NewDoseLogRepository(gormDB)
	appLog.Info("Storage layers initialized.")

	notifier := notify.NewLineNotifier(cfg.Line, appLog)
	cronScheduler := scheduler.NewScheduler(appLog)
	backendClient := backend.NewClient(cfg.Backend, appLog)
	bus := events.NewBus()

	// --- Application Services ---
	schedulerSvc := appService.NewSchedulerService(cronScheduler, reminderRepo, appLog)
	dispatcherSvc := appService.NewDispatcherService(
		reminderRepo,
		schedulerSvc,
		notifier,
		tone.NewLogPlayer(appLog),
		bus,
		time.Duration(cfg.Dispatch.DismissAfterSeconds)*time.Second,
		appLog,
	)
	if dispatcherSvc == nil {
		appLog.Error("Failed to wire dispatcher", nil)
		os.Exit(1)
	}
	reminderSvc := appService.NewReminderService(reminderRepo, schedulerSvc, appLog)
	trackerSvc := appService.NewTrackerService(doseLogRepo, backendClient, bus, appLog)
	appLog.Info("Application services initialized.")

	// --- Initialize Schedules ---
	if err := schedulerSvc.InitializeSchedules(context.Background()); err != nil {
		// Log the error but continue starting the server.
		appLog.Error("Failed to initialize schedules on startup", err)
	} else {
		appLog.Info("Reminder schedules initialized.")
	}

	// --- API Handlers ---
	reminderHandler := handler.NewReminderHandler(reminderSvc, notifier, appLog)
	companionHandler := handler.NewCompanionHandler(backendClient, trackerSvc, appLog)
	lineHandler := handler.NewLineHandler(notifier, dispatcherSvc, appLog)

	// --- Router ---
	echoRouter := router.NewRouter(&router.Config{
		ReminderHandler:  reminderHandler,
		CompanionHandler: companionHandler,
		LineHandler:      lineHandler,
		Logger:           appLog,
	})

	// --- HTTP Server ---
	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      echoRouter,
		IdleTimeout:  time.Minute,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// --- Start Server & Shutdown Handling ---
	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, schedulerSvc, badgerDB, gormDB, appLog, done)

	appLog.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
	err = apiServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		appLog.Error("HTTP server ListenAndServe error", err)
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	appLog.Info("Graceful shutdown complete.")
}
