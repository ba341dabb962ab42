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

	"github.com/Bahjat/phishguard/internal/analyzer"
	"github.com/Bahjat/phishguard/internal/classifier"
	"github.com/Bahjat/phishguard/internal/domaininfo"
	"github.com/Bahjat/phishguard/internal/features"
	"github.com/Bahjat/phishguard/internal/pageinsight"
	"github.com/Bahjat/phishguard/internal/platform/config"
	"github.com/Bahjat/phishguard/internal/platform/logger"
	"github.com/Bahjat/phishguard/internal/platform/metrics"
	"github.com/Bahjat/phishguard/internal/platform/middleware"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		return err
	}
	if model.Width() > features.Size {
		return fmt.Errorf("model expects %d features, extractor produces %d", model.Width(), features.Size)
	}

	m := metrics.New(nil)

	fetcher := pageinsight.NewHTTPClient(pageinsight.ClientOptions{
		Timeout:      cfg.PageFetchTimeout,
		AllowPrivate: cfg.AllowPrivateTargets,
	})
	extractor := features.NewExtractor(
		pageinsight.NewEngine(fetcher),
		domaininfo.NewWHOISClient(cfg.WHOISTimeout, cfg.WHOISRateLimit),
		domaininfo.NewResolver(cfg.DNSTimeout),
		features.WithLogger(log),
		features.WithObserver(m),
	)

	svc := analyzer.NewService(extractor, model, m, log)
	transport := analyzer.NewTransport(svc, log, cfg.RequestTimeout)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)
	mux.Handle("GET /metrics", m.Handler())

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.Logging(log),
			middleware.CORS(cfg.CORSOrigins),
		),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "model", cfg.ModelPath)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
