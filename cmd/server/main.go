package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/config"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/database"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/mockdata"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/repository"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/service"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/tefas"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Fund dashboard %s", version.Version)

	var (
		systemService    *service.SystemService
		fundService      *service.FundService
		portfolioService *service.PortfolioService
		refreshService   *service.RefreshService
	)

	if cfg.Data.UseMockData {
		store := mockdata.NewStore(cfg.Data.MockDataDir)
		log.Printf("Serving mock data from %s", cfg.Data.MockDataDir)

		systemService = service.NewSystemService(nil)
		fundService = service.NewFundService(store, store, store)
		portfolioService = service.NewPortfolioService(store, store, cfg.Data.PortfolioID)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			log.Fatalf("Failed to create database directory: %v", err)
		}

		// Open database connection
		db, err := database.Open(cfg.Database.Path)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(context.Background(), db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		log.Printf("Connected to database: %s", cfg.Database.Path)

		// Create repositories
		fundRepo := repository.NewFundRepository(db)
		historyRepo := repository.NewHistoryRepository(db)
		transactionRepo := repository.NewTransactionRepository(db)

		// Create services
		systemService = service.NewSystemService(db)
		fundService = service.NewFundService(fundRepo, historyRepo, historyRepo)
		portfolioService = service.NewPortfolioService(transactionRepo, historyRepo, cfg.Data.PortfolioID)
		refreshService = service.NewRefreshService(fundRepo, historyRepo, tefas.NewHistoryClient(cfg.Refresh.TefasBaseURL))
		if cfg.Refresh.SyncFundList {
			refreshService.WithFundList(
				tefas.NewFundListClient(cfg.Refresh.FundListURL).WithExtraFunds(cfg.Refresh.ExtraFundsFile),
			)
		}

		// New prices change every holding's value.
		refreshService.OnRefreshed(func(context.Context) {
			portfolioService.Invalidate()
		})

		if err := refreshService.Schedule(cfg.Refresh.Cron); err != nil {
			log.Fatalf("Failed to schedule price refresh: %v", err)
		}
		defer refreshService.Stop()
	}

	// Warm the portfolio view; a failure here is retried on the first request.
	if err := portfolioService.Load(context.Background()); err != nil {
		log.Printf("Failed to load portfolio: %v", err)
	}

	// Create router
	router := api.NewRouter(systemService, fundService, portfolioService, refreshService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// A manual refresh fetches up to five years per fund.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
