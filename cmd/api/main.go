package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bankrec/bankrec/internal/config"
	"github.com/bankrec/bankrec/internal/database"
	"github.com/bankrec/bankrec/internal/export"
	"github.com/bankrec/bankrec/internal/field"
	fieldStore "github.com/bankrec/bankrec/internal/field/store"
	bankrecHttp "github.com/bankrec/bankrec/internal/http"
	exportHandler "github.com/bankrec/bankrec/internal/http/export"
	fieldHandler "github.com/bankrec/bankrec/internal/http/field"
	importHandler "github.com/bankrec/bankrec/internal/http/importfile"
	txHandler "github.com/bankrec/bankrec/internal/http/transaction"
	userHandler "github.com/bankrec/bankrec/internal/http/user"
	"github.com/bankrec/bankrec/internal/importer"
	"github.com/bankrec/bankrec/internal/transaction"
	txStore "github.com/bankrec/bankrec/internal/transaction/store"
	userStore "github.com/bankrec/bankrec/internal/user/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		fieldService = field.NewService(fieldStore.New(db))
		txRepo       = txStore.New(db)

		transactionService = transaction.NewService(txRepo, fieldService, transaction.Options{
			ClearCompletionOnUnlock: cfg.Reconciliation.ClearCompletionOnUnlock,
		})
		importService = importer.NewService(fieldService, txRepo)
		exportService = export.NewService(transactionService)
	)

	if err := fieldService.EnsureDefaults(context.Background()); err != nil {
		slog.Error("failed to seed field settings", "error", err)
		os.Exit(1)
	}

	var (
		transactionH = txHandler.NewHandler(transactionService)
		fieldH       = fieldHandler.NewHandler(fieldService)
		importH      = importHandler.NewHandler(importService)
		exportH      = exportHandler.NewHandler(exportService)
		userH        = userHandler.NewHandler()
	)

	router := bankrecHttp.New(bankrecHttp.Options{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		Users:          userStore.New(db),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, transactionH, fieldH, importH, exportH, userH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
