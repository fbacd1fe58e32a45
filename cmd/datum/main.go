package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tailored-agentic-units/datum/observability"
	"github.com/tailored-agentic-units/datum/replay"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to replay config JSON file")
		scriptFile  = flag.String("script", "", "Path to replay script YAML file (required)")
		observer    = flag.String("observer", "", "Observer name (overrides config)")
		failFast    = flag.Bool("fail-fast", false, "Stop at the first invalid step")
		snapshots   = flag.Bool("snapshots", false, "Print the state after every step")
		metricsAddr = flag.String("metrics", "", "Serve Prometheus metrics on this address after the replay, e.g. :9090")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if *scriptFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: datum -script <file.yaml> [-config <file.json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg, err := replay.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}

	if *observer != "" {
		cfg.Observer = *observer
	}
	if *failFast {
		cfg.FailFast = true
	}
	if *verbose {
		cfg.LogLevel = "DEBUG"
	}

	level, ok := observability.ParseLevel(cfg.LogLevel)
	if !ok {
		log.Fatalf("Unknown log level: %s", cfg.LogLevel)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	registry := prometheus.NewRegistry()
	prom := observability.NewPrometheusObserver(registry)
	observability.RegisterObserver("prometheus", prom)
	cfg.Observer, err = selectObserver(cfg.Observer, *metricsAddr != "", prom)
	if err != nil {
		log.Fatalf("%v (available: %v)", err, observability.ObserverNames())
	}

	script, err := replay.LoadScript(*scriptFile)
	if err != nil {
		log.Fatalf("Failed to load script: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := replay.Run(ctx, *cfg, script)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *snapshots {
		for i, snap := range result.Snapshots {
			fmt.Printf("Step %d:\n", i+1)
			if err := enc.Encode(snap); err != nil {
				log.Fatalf("Failed to encode snapshot: %v", err)
			}
		}
	}

	fmt.Println("Final state:")
	if err := enc.Encode(result.State); err != nil {
		log.Fatalf("Failed to encode state: %v", err)
	}

	fmt.Printf("\nApplied: %d\n", result.Applied)
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped: %d\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Printf("  %v\n", s)
		}
	}

	if *metricsAddr != "" {
		serveMetrics(ctx, *metricsAddr, registry)
	}
}

func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Close()
	}()

	fmt.Printf("\nServing metrics on %s/metrics (Ctrl+C to exit)\n", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Metrics server failed: %v", err)
	}
}

// selectObserver returns the registry name replay should use. With metrics
// enabled the configured observer is combined with prom so the metrics
// endpoint sees every event.
func selectObserver(name string, metrics bool, prom *observability.PrometheusObserver) (string, error) {
	base, err := observability.GetObserver(name)
	if err != nil {
		return "", err
	}
	if !metrics || name == "prometheus" {
		return name, nil
	}

	observability.RegisterObserver("combined", observability.NewMultiObserver(base, prom))
	return "combined", nil
}
