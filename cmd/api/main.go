package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/tomasvera/debtwise/internal/config"
	"github.com/tomasvera/debtwise/internal/handler"
	"github.com/tomasvera/debtwise/internal/models"
	"github.com/tomasvera/debtwise/internal/notify"
	"github.com/tomasvera/debtwise/internal/reminders"
	"github.com/tomasvera/debtwise/internal/service"
	"github.com/tomasvera/debtwise/internal/store"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize snapshot backend
	var backend store.Backend
	switch cfg.StoreBackend {
	case "redis":
		redisBackend, err := store.NewRedisBackend(cfg.RedisAddr, cfg.StorageKey, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize redis backend: %v", err)
		}
		backend = redisBackend
	case "postgres":
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		backend, err = store.NewPostgresBackend(db, cfg.StorageKey, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize postgres backend: %v", err)
		}
	default:
		backend = store.NewMemoryBackend()
	}

	// Initialize snapshot store
	st, err := store.New(ctx, backend, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize store: %v", err)
	}

	// Observe snapshot replacements from other sessions (last-writer-wins)
	if watcher, ok := backend.(store.Watcher); ok {
		changes, err := watcher.Watch(ctx)
		if err != nil {
			logger.Fatalf("Failed to watch for external changes: %v", err)
		}
		go func() {
			for state := range changes {
				st.Replace(state)
			}
		}()
	}

	// Initialize alert dispatch
	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.AlertsEnabled {
		notifier = notify.NewEmailNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword,
			cfg.SenderEmail, cfg.AlertEmail, logger,
		)
	}
	dispatcher := notify.NewDispatcher(notifier, cfg.AlertsEnabled, logger)

	// Initialize layers
	svc := service.NewService(st, dispatcher, logger)
	h := handler.NewHandler(svc)

	// Start periodic reminder recomputation
	runner := reminders.NewRunner(st, logger, func(items []models.ReminderItem) {
		logger.Debugf("Active reminders: %d", len(items))
	})
	if err := runner.Start(); err != nil {
		logger.Fatalf("Failed to start reminder runner: %v", err)
	}

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/state", h.GetState).Methods("GET")
	r.HandleFunc("/projections", h.GetProjections).Methods("GET")
	r.HandleFunc("/reminders", h.GetReminders).Methods("GET")
	r.HandleFunc("/debts", h.CreateDebt).Methods("POST")
	r.HandleFunc("/debts/{id}", h.UpdateDebt).Methods("PUT")
	r.HandleFunc("/debts/{id}", h.DeleteDebt).Methods("DELETE")
	r.HandleFunc("/payments", h.CreatePayment).Methods("POST")
	r.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	r.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")
	r.HandleFunc("/incomes", h.CreateIncome).Methods("POST")
	r.HandleFunc("/presence", h.Presence).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Errorf("Server failed: %v", err)
	case <-quit:
		logger.Info("Shutting down...")
	}

	runner.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	logger.Info("Server exited")
}
