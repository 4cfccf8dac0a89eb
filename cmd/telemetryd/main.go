// cmd/telemetryd/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gamehaven/telemetry/pkg/api"
	"github.com/gamehaven/telemetry/pkg/config"
	"github.com/gamehaven/telemetry/pkg/db"
	"github.com/gamehaven/telemetry/pkg/lifecycle"
	"github.com/gamehaven/telemetry/pkg/telemetry"
)

// telemetryService ties the collector and store into the daemon lifecycle:
// on shutdown, in-flight record appends are flushed before the store closes.
type telemetryService struct {
	collector *telemetry.Collector
	store     db.Service
}

func (s *telemetryService) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (s *telemetryService) Stop(context.Context) error {
	s.collector.Flush()
	return s.store.Close()
}

func main() {
	configPath := flag.String("config", "/etc/gamehaven/telemetry.json", "Path to config file")
	flag.Parse()

	var cfg config.TelemetryConfig
	if err := config.LoadAndValidate(*configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := openStore(&cfg)
	if err != nil {
		log.Fatalf("Failed to open metric store: %v", err)
	}

	collector, err := telemetry.NewCollector(store, cfg.Collector)
	if err != nil {
		log.Fatalf("Failed to create collector: %v", err)
	}

	aggregator, err := telemetry.NewAggregator(store, cfg.RecentLimit)
	if err != nil {
		log.Fatalf("Failed to create aggregator: %v", err)
	}

	apiServer := api.NewAPIServer(store, aggregator, cfg.AdminAPIKey, time.Duration(cfg.LiveInterval))

	// The collector wraps the whole router; its skip prefix keeps the
	// reporting endpoints themselves out of the measurements.
	handler := collector.Middleware(apiServer.Router())

	err = lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: "telemetryd",
		Service:     &telemetryService{collector: collector, store: store},
		Handler:     handler,
	})
	if err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func openStore(cfg *config.TelemetryConfig) (db.Service, error) {
	if cfg.DBPath == "" {
		log.Printf("No db_path configured, using in-memory metric store")
		// Ring capacity matches the read cap: records beyond it would
		// never be served anyway.
		return db.NewMemStore(cfg.RecentLimit), nil
	}

	return db.New(cfg.DBPath, cfg.RecentLimit)
}
