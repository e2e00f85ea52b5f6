package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tally/internal/classification"
	classificationStore "github.com/MrJamesThe3rd/tally/internal/classification/store"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	classificationHandler "github.com/MrJamesThe3rd/tally/internal/http/classification"
	importHandler "github.com/MrJamesThe3rd/tally/internal/http/importcsv"
	obligationHandler "github.com/MrJamesThe3rd/tally/internal/http/obligation"
	reconcileHandler "github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	recurrenceHandler "github.com/MrJamesThe3rd/tally/internal/http/recurrence"
	txHandler "github.com/MrJamesThe3rd/tally/internal/http/transaction"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
	obligationStore "github.com/MrJamesThe3rd/tally/internal/obligation/store"
	"github.com/MrJamesThe3rd/tally/internal/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/recurrence"
	recurrenceStore "github.com/MrJamesThe3rd/tally/internal/recurrence/store"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
	txStore "github.com/MrJamesThe3rd/tally/internal/transaction/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	table, err := cfg.ReconcileTable()
	if err != nil {
		slog.Error("failed to load reconcile weights", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString(), cfg.Pool())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var (
		transactionService    = transaction.NewService(txStore.New(db))
		obligationService     = obligation.NewService(obligationStore.New(db))
		classificationService = classification.NewService(classificationStore.New(db))
		recurrenceService     = recurrence.NewService(recurrenceStore.New(db), obligationService)
		importService         = importer.NewService()
		reconcileService      = reconcile.NewService(
			obligationService,
			obligationService,
			transactionService,
			table.Weights,
			table.Thresholds,
		)
	)

	router := tallyHttp.New(tallyHttp.Handlers{
		Transactions:   txHandler.NewHandler(transactionService, reconcileService),
		Import:         importHandler.NewHandler(importService, transactionService, classificationService, reconcileService),
		Classification: classificationHandler.NewHandler(classificationService),
		Obligations:    obligationHandler.NewHandler(obligationService),
		Reconcile:      reconcileHandler.NewHandler(reconcileService),
		Recurrence:     recurrenceHandler.NewHandler(recurrenceService),
	}, tallyHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      []byte(cfg.Server.JWTSecret),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	if cfg.Server.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET is not set, API routes are unauthenticated")
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr,
		"auto_link_threshold", table.Thresholds.AutoLink, "confirm_threshold", table.Thresholds.Confirm)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
