package cmd

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

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/printeers/zakeke-sync/internal/api/handlers"
	"github.com/printeers/zakeke-sync/internal/api/middleware"
	"github.com/printeers/zakeke-sync/internal/artifact"
	"github.com/printeers/zakeke-sync/internal/config"
	"github.com/printeers/zakeke-sync/internal/engine"
	"github.com/printeers/zakeke-sync/internal/notify"
	"github.com/printeers/zakeke-sync/internal/stock"
	"github.com/printeers/zakeke-sync/internal/store"
	"github.com/printeers/zakeke-sync/internal/zakeke"
	"github.com/printeers/zakeke-sync/pkg/logger"
)

const (
	connectTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and sync scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cliLog := log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	appLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	eng, err := buildEngine(cfg, st, appLog)
	if err != nil {
		return err
	}

	sched, err := engine.NewScheduler(
		eng,
		cfg.Schedule.ImportInterval,
		cfg.Schedule.StatusInterval,
		cfg.Schedule.ArtifactInterval,
		appLog,
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	e := buildServer(cfg, st, eng, appLog)

	sched.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	cliLog.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cliLog.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cliLog.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	// Let in-flight sync jobs finish.
	select {
	case <-sched.Stop().Done():
	case <-time.After(shutdownTimeout):
		cliLog.Warn("scheduler jobs still running at shutdown deadline")
	}

	cliLog.Info("server stopped")
	return nil
}

// buildEngine wires the Zakeke client, stock resolver, artifact fetcher, and
// notifier into a sync engine.
func buildEngine(cfg *config.Config, st store.Store, appLog *slog.Logger) (*engine.Engine, error) {
	tokens := zakeke.NewOAuthTokenProvider(
		cfg.Zakeke.BaseURL,
		cfg.Zakeke.ClientID,
		cfg.Zakeke.SecretKey,
	)
	limiter := zakeke.NewRateLimiter(
		cfg.Zakeke.RateLimit.PerSecond,
		cfg.Zakeke.RateLimit.Burst,
		cfg.Zakeke.RateLimit.DailyLimit,
	)
	zk := zakeke.NewAPIClient(tokens, cfg.Zakeke.BaseURL,
		zakeke.WithAPIRateLimiter(limiter),
		zakeke.WithAPIHTTPClient(&http.Client{Timeout: cfg.Zakeke.Timeout}),
	)

	resolver := stock.NewHTTPResolver(cfg.Stock.BaseURL, cfg.Stock.APIKey,
		stock.WithResolverHTTPClient(&http.Client{Timeout: cfg.Stock.Timeout}),
	)

	if err := os.MkdirAll(cfg.Orders.ScratchDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	fetcher := artifact.NewFetcher(zk, cfg.Orders.ScratchDir)

	var notifier notify.Notifier = notify.NewNoOpNotifier(appLog)
	if cfg.Notifications.Discord.Enabled {
		notifier = notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}

	return engine.NewEngine(st, zk, resolver, fetcher, notifier,
		engine.WithLogger(appLog),
		engine.WithMaxImportsPerCycle(cfg.Zakeke.MaxImportsPerCycle),
		engine.WithOrderStatuses(cfg.Orders.PendingStatus, cfg.Orders.CompletedStatus),
	), nil
}

// buildServer assembles the Echo instance with middleware, health and
// metrics endpoints, and the versioned API.
func buildServer(cfg *config.Config, st store.Store, eng *engine.Engine, appLog *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(
		middleware.RequestLog(appLog),
		middleware.Recovery(appLog),
		middleware.Metrics(),
	)

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("zakeke-sync", Version))
	handlers.RegisterProductRoutes(api, handlers.NewProductsHandler(st))
	handlers.RegisterReimportRoutes(api, handlers.NewReimportHandler(st))
	handlers.RegisterTriggerRoutes(api, handlers.NewTriggerHandler(eng))

	return e
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
