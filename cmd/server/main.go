package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AngelCh415/MMM_GO/internal/config"
	"github.com/AngelCh415/MMM_GO/internal/export"
	"github.com/AngelCh415/MMM_GO/internal/funnel"
	"github.com/AngelCh415/MMM_GO/internal/httpx"
	"github.com/AngelCh415/MMM_GO/internal/observability"
	"github.com/AngelCh415/MMM_GO/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	st, err := store.NewDefaultStore()
	if err != nil {
		logger.Error("load profiles", slog.String("err", err.Error()))
		os.Exit(1)
	}
	if cfg.ProfilesFile != "" {
		if err := st.LoadFile(cfg.ProfilesFile); err != nil {
			logger.Error("load profiles file", slog.String("path", cfg.ProfilesFile), slog.String("err", err.Error()))
			os.Exit(1)
		}
	}

	m := observability.NewMetrics()
	exp := export.NewExporter(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.SinkURL, cfg.SinkSecret, logger, m)

	r := httpx.NewRouter(logger, httpx.Deps{
		Funnel:       funnel.NewService(st, m),
		Media:        st,
		Exporter:     exp,
		Metrics:      m,
		ForecastSeed: cfg.ForecastSeed,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server",
		slog.String("port", cfg.Port),
		slog.Int("profiles", len(st.All())),
		slog.Bool("export", exp.Configured()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
