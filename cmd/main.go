package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/eldoria/harperbot/internal/adapters/gateway"
	service "github.com/eldoria/harperbot/internal/app"
	"github.com/eldoria/harperbot/internal/config"
	"github.com/eldoria/harperbot/pkg/logger"
	"github.com/eldoria/harperbot/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	gw, err := gateway.New(cfg.GatewayURL, cfg.BotToken,
		gateway.WithChannels(cfg.ChannelIDs),
		gateway.WithSeenLimit(cfg.SeenCacheSize),
	)
	if err != nil {
		log.Error(ctx, "failed to build gateway session", logger.Error(err))
		return
	}

	svc := service.New(gw,
		service.WithLogger(log),
		service.WithOperatorID(cfg.OperatorID),
		service.WithPageSize(cfg.PageSize),
		service.WithMaxAnswerLength(cfg.MaxAnswerLength),
		service.WithBudget(cfg.DispatchBudget),
		service.WithWarmup(time.Duration(cfg.WarmupSeconds)*time.Second),
		service.WithIntervalRange(
			time.Duration(cfg.MinIntervalSeconds)*time.Second,
			time.Duration(cfg.MaxIntervalSeconds)*time.Second,
		),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// The session and the service reference each other: the session
	// dispatches events into the service, the service presents through
	// the session.
	gw.SetHandler(svc)

	// Operational HTTP surface: health, metrics, and live stats.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/statz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(svc.GetStats())
	})

	srv := &http.Server{
		Addr:              cfg.OpsAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "connecting to gateway", logger.String("url", cfg.GatewayURL))
		return gw.Run(gctx)
	})

	g.Go(func() error {
		log.Info(gctx, "starting ops HTTP server", logger.String("addr", cfg.OpsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error(ctx, "shutdown error", logger.Error(err))
	}
	log.Info(ctx, "bot stopped")
}
