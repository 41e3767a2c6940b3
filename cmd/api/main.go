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
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finboard/internal/config"
	"github.com/MrJamesThe3rd/finboard/internal/export"
	finboardHttp "github.com/MrJamesThe3rd/finboard/internal/http"
	bulkHandler "github.com/MrJamesThe3rd/finboard/internal/http/bulk"
	exportHandler "github.com/MrJamesThe3rd/finboard/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finboard/internal/http/importcsv"
	matchingHandler "github.com/MrJamesThe3rd/finboard/internal/http/matching"
	sessionHandler "github.com/MrJamesThe3rd/finboard/internal/http/session"
	txHandler "github.com/MrJamesThe3rd/finboard/internal/http/transaction"
	"github.com/MrJamesThe3rd/finboard/internal/importer"
	"github.com/MrJamesThe3rd/finboard/internal/matching"
	"github.com/MrJamesThe3rd/finboard/internal/session"
	"github.com/MrJamesThe3rd/finboard/internal/source"
	"github.com/MrJamesThe3rd/finboard/internal/transaction"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := source.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open source", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	logger := slog.Default()

	var (
		transactionService = transaction.NewService(stores.Transactions)
		matchingService    = matching.NewService(stores.Rules)
		importService      = importer.NewService(cfg.Import.Account)
		exportService      = export.NewService(cfg.Export.Dir, cfg.Export.Title, logger)
		sessions           = session.NewManager(transactionService, logger)
	)

	router := finboardHttp.New(cfg.Server.CORSOrigins, finboardHttp.Handlers{
		Sessions:     sessionHandler.NewHandler(sessions),
		Transactions: txHandler.NewHandler(),
		Bulk:         bulkHandler.NewHandler(exportService),
		Export:       exportHandler.NewHandler(exportService),
		Import:       importHandler.NewHandler(importService, transactionService, matchingService),
		Rules:        matchingHandler.NewHandler(matchingService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "source", cfg.Source)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
