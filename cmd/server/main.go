package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/simaogato/stocktracker/internal/adapter/alphavantage"
	"github.com/simaogato/stocktracker/internal/adapter/httpapi"
	"github.com/simaogato/stocktracker/internal/adapter/repository/memory"
	"github.com/simaogato/stocktracker/internal/adapter/repository/postgres"
	"github.com/simaogato/stocktracker/internal/adapter/repository/sqlite"
	"github.com/simaogato/stocktracker/internal/config"
	"github.com/simaogato/stocktracker/internal/domain"
	"github.com/simaogato/stocktracker/internal/logger"
	"github.com/simaogato/stocktracker/internal/scheduler"
	"github.com/simaogato/stocktracker/internal/usecase/dashboard"
	"github.com/simaogato/stocktracker/internal/usecase/pricing"
	"github.com/simaogato/stocktracker/internal/usecase/seeder"
	"github.com/simaogato/stocktracker/internal/usecase/stock"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		l := logger.New(logger.Config{})
		l.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	ctx := context.Background()

	// 1. Setup storage
	repo, closer, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("repo_kind", cfg.RepoKind).Msg("Failed to open repository")
	}
	defer closer.Close()

	// 2. Initialize Services (Use Cases)
	stockService := stock.NewStockService(repo)
	dashboardService := dashboard.NewDashboardService(repo)

	if cfg.SeedDemo {
		created, err := seeder.NewDemoSeeder(repo).Seed(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed demo portfolio")
		}
		log.Info().Int("created", created).Msg("Demo portfolio seeded")
	}

	// 3. Price refresh
	sched := scheduler.New(log)
	if cfg.AlphaVantageAPIKey == "" {
		log.Warn().Msg("ALPHAVANTAGE_API_KEY not set, current prices will not be refreshed")
	} else {
		provider, err := alphavantage.NewProvider(alphavantage.Config{APIKey: cfg.AlphaVantageAPIKey}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create price provider")
		}
		refresher := pricing.NewRefresherService(repo, provider, cfg.PriceDailyQuota, log)
		if err := sched.AddJob(cfg.PriceRefreshSchedule, refresher); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.PriceRefreshSchedule).Msg("Failed to schedule price refresh")
		}
		go func() {
			if err := sched.RunNow(refresher); err != nil {
				log.Error().Err(err).Msg("Initial price refresh failed")
			}
		}()
	}
	sched.Start()

	// 4. Start HTTP Server
	server := httpapi.New(httpapi.Config{
		Port:             cfg.Port,
		Log:              log,
		StockService:     stockService,
		DashboardService: dashboardService,
		DevMode:          cfg.DevMode,
	})

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	waitForShutdown(log, server, sched)
}

// openRepository builds the stock repository selected by REPO_KIND
func openRepository(ctx context.Context, cfg *config.ServerConfig, log zerolog.Logger) (domain.StockRepository, io.Closer, error) {
	switch cfg.RepoKind {
	case config.RepoPostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Msg("Using PostgreSQL repository")
		return postgres.NewStockRepository(db), db, nil

	case config.RepoSQLite:
		db, err := sqlite.NewDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("path", db.Path()).Msg("Using SQLite repository")
		return sqlite.NewStockRepository(db), db, nil

	default:
		log.Info().Msg("Using in-memory repository")
		return memory.NewStockRepository(), io.NopCloser(nil), nil
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(log zerolog.Logger, server *httpapi.Server, sched *scheduler.Scheduler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	sched.Stop()
}
