package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/verification-stats/internal/config"
	"github.com/AngelCh415/verification-stats/internal/httpx"
	"github.com/AngelCh415/verification-stats/internal/ingest"
	"github.com/AngelCh415/verification-stats/internal/metrics"
	"github.com/AngelCh415/verification-stats/internal/sink"
	"github.com/AngelCh415/verification-stats/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	aliases, err := config.LoadAliases(cfg.AliasesPath)
	if err != nil {
		logger.Error("alias config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	var src ingest.Source = ingest.NewDirSource(cfg.CampaignsDir)
	if cfg.CampaignsURL != "" {
		src = ingest.NewHTTPSource(cfg.CampaignsURL, cl)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	st := store.NewMemoryStore()
	svc := metrics.NewService(st, src, aliases, logger, metrics.NewCollectors(reg), cfg.LoadConcurrency)
	exp := sink.NewExporter(cl, cfg.SinkURL, cfg.SinkSecret, logger)

	r := httpx.NewRouter(logger, svc, exp, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("campaigns", sourceName(cfg)))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func sourceName(cfg config.Config) string {
	if cfg.CampaignsURL != "" {
		return cfg.CampaignsURL
	}
	return cfg.CampaignsDir
}
