// cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"finassist/internal/common/config"
	"finassist/internal/common/database"
	"finassist/internal/common/logger"
	"finassist/internal/common/observability"
	"finassist/internal/dialog"
	"finassist/internal/engine"
	"finassist/internal/nlu/classifier"
	"finassist/internal/nlu/patterns"
	"finassist/internal/outcome"
	"finassist/internal/respond"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// logFinalizer is the default downstream: a completed transaction is logged
// and handed to no one. Real deployments swap in a navigation client here.
type logFinalizer struct {
	log logger.Logger
}

func (f *logFinalizer) Finalize(_ context.Context, tx dialog.PendingTransaction) error {
	f.log.Info("transaction finalized", map[string]interface{}{
		"amount":    tx.Amount,
		"currency":  tx.Currency,
		"recipient": tx.Recipient,
		"isDeposit": tx.IsDeposit,
	})
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant engine...",
		zap.String("name", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Redis with retry, only when something is configured to use it ---
	var redisClient *database.RedisClient
	if cfg.Session.Store == "redis" || cfg.Patterns.RedisCache {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init PostgreSQL with retry, only for the postgres outcome sink ---
	var pg *database.PostgresClient
	if cfg.Outcomes.Sink == "postgres" {
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Pattern library: fallback tables now, remote sets on refresh ---
	var source patterns.Source
	if cfg.Patterns.BaseURL != "" {
		source = patterns.NewHTTPSource(
			cfg.Patterns.BaseURL,
			config.GetDuration(cfg.Patterns.RequestTimeout),
			cfg.Patterns.MaxRetries,
		)
		if cfg.Patterns.RedisCache {
			source = patterns.NewCachedSource(
				source,
				redisClient.Client,
				config.GetDuration(cfg.Patterns.CacheDuration),
				log,
			)
		}
	} else {
		zapLog.Info("No pattern store configured, built-in patterns only")
	}

	library := patterns.NewLibrary(source, config.GetDuration(cfg.Patterns.CacheDuration), log)
	if source != nil {
		if err := library.Refresh(ctx); err != nil {
			zapLog.Warn("initial pattern refresh failed, starting on built-in patterns", zap.Error(err))
		}
	}

	// --- Session store ---
	var store dialog.Store
	if cfg.Session.Store == "redis" {
		store = dialog.NewRedisStore(redisClient.Client, config.GetDuration(cfg.Session.TTL))
	} else {
		store = dialog.NewMemoryStore()
	}

	// --- Outcome sink ---
	var sink outcome.Sink
	switch cfg.Outcomes.Sink {
	case "http":
		sink = outcome.NewHTTPSink(cfg.Outcomes.BaseURL, config.GetDuration(cfg.Outcomes.Timeout))
	case "postgres":
		sink = outcome.NewPostgresSink(pg)
	default:
		sink = outcome.NopSink{}
	}

	eng := engine.New(engine.Deps{
		Classifier: classifier.New(library, log),
		Machine:    dialog.NewMachine(log),
		Store:      store,
		Formatter:  respond.NewFormatter(),
		Finalizer:  &logFinalizer{log: log},
		Sink:       sink,
		Obs:        obs,
		Logger:     log,
	})

	// --- Metrics endpoint ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --- Background pattern refresh, honoring the cache TTL ---
	refreshCtx, stopRefresh := context.WithCancel(ctx)
	defer stopRefresh()
	if source != nil {
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-refreshCtx.Done():
					return
				case <-ticker.C:
					if library.ShouldRefresh() {
						// Failure falls back to whichever set is active.
						_ = library.Refresh(refreshCtx)
					}
				}
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// --- Interactive loop: one session per run, /cancel and /quit commands ---
	sessionID := uuid.New().String()
	zapLog.Info("Session started", zap.String("sessionId", sessionID))

	fmt.Println("Assistant ready. Type a message, /cancel to abandon the current request, /quit to exit.")

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		fmt.Print("> ")
		select {
		case sig := <-sigChan:
			zapLog.Info("Shutting down...", zap.String("signal", sig.String()))
			eng.Close()
			return
		case line, ok := <-lines:
			if !ok {
				eng.Close()
				return
			}
			switch strings.TrimSpace(line) {
			case "":
				continue
			case "/quit":
				eng.Close()
				return
			case "/cancel":
				reply := eng.Cancel(ctx, sessionID)
				fmt.Println(reply.Text)
			default:
				reply := eng.HandleUtterance(ctx, sessionID, line)
				fmt.Println(reply.Text)
			}
		}
	}
}
