// VSSBridge - Enterprise and social insurance data fusion for Vietnamese tax ids.
// Copyright (c) 2025 hoanganh-hue
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hoanganh-hue/vssbridge/internal/api"
	"github.com/hoanganh-hue/vssbridge/internal/bus"
	"github.com/hoanganh-hue/vssbridge/internal/cache"
	"github.com/hoanganh-hue/vssbridge/internal/domain"
	"github.com/hoanganh-hue/vssbridge/internal/enterprise"
	"github.com/hoanganh-hue/vssbridge/internal/fusion"
	"github.com/hoanganh-hue/vssbridge/internal/report"
	"github.com/hoanganh-hue/vssbridge/internal/repository"
	"github.com/hoanganh-hue/vssbridge/internal/rules"
	"github.com/hoanganh-hue/vssbridge/internal/synth"
	"github.com/hoanganh-hue/vssbridge/internal/vss"
	"github.com/hoanganh-hue/vssbridge/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	// Initialize structured logger
	logLevel := slog.LevelInfo
	if os.Getenv("VSSBRIDGE_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	args := os.Args[1:]
	command := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "serve":
		runServe()
	case "process":
		runProcess(args)
	case "version":
		fmt.Printf("vssbridge %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  vssbridge serve                                 Run the HTTP API server")
	fmt.Fprintln(os.Stderr, "  vssbridge process [flags] <tax-id> [tax-id...]  Build profiles for the given tax ids")
	fmt.Fprintln(os.Stderr, "  vssbridge version                               Print version information")
}

// loadConfig resolves the runtime configuration from the environment.
func loadConfig() *domain.Config {
	cfg := domain.DefaultConfig()
	if os.Getenv("VSSBRIDGE_TIER") == "pro" {
		cfg = domain.ProConfig()
		slog.Info("running in Pro tier mode")
	}

	if v := os.Getenv("VSSBRIDGE_REGISTRY_URL"); v != "" {
		cfg.Sources.RegistryBaseURL = v
	}
	if v := os.Getenv("VSSBRIDGE_PORTAL_URL"); v != "" {
		cfg.Sources.PortalBaseURL = v
	}
	if v := os.Getenv("VSSBRIDGE_PORTAL_USER"); v != "" {
		cfg.Sources.PortalUsername = v
	}
	if v := os.Getenv("VSSBRIDGE_PORTAL_PASSWORD"); v != "" {
		cfg.Sources.PortalPassword = v
	}
	if v := os.Getenv("VSSBRIDGE_DB_PATH"); v != "" {
		cfg.Repository.SQLitePath = v
	}

	return cfg
}

// buildEngine wires the fusion pipeline on top of an already-open cache.
func buildEngine(cfg *domain.Config, cacheImpl domain.Cache) *fusion.Engine {
	fcfg := fusion.DefaultConfig()
	registry := enterprise.NewClient(cfg.Sources)
	portal := vss.NewClient(cfg.Sources)
	generator := synth.New(fcfg)
	metrics := &domain.Metrics{}

	return fusion.NewEngine(fcfg, cfg.Sources, registry, portal, generator, cacheImpl, metrics)
}

func runServe() {
	slog.Info("starting vssbridge",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	cfg := loadConfig()
	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		slog.Error("failed to initialize repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		slog.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	engine := buildEngine(cfg, cacheImpl)
	slog.Info("fusion engine initialized",
		"registry", cfg.Sources.RegistryBaseURL,
		"portal", cfg.Sources.PortalBaseURL,
	)

	ruleEngine, err := rules.NewEngine(100)
	if err != nil {
		slog.Error("failed to initialize rule engine", "error", err)
		os.Exit(1)
	}

	// Load screening rules from the database (no hardcoded defaults -
	// configure via POST /v1/rules)
	if err := loadRulesFromDatabase(ctx, repo, ruleEngine); err != nil {
		slog.Error("failed to load screening rules", "error", err)
		os.Exit(1)
	}
	slog.Info("rule engine initialized", "rules_count", ruleEngine.RulesCount())

	screener := rules.NewScreener()
	slog.Info("screener initialized", "threshold", screener.AlertThreshold)

	// Async worker consumes profile.requested events (Pro tier)
	var asyncWorker *worker.Worker
	if cfg.Tier == domain.TierPro || os.Getenv("VSSBRIDGE_ASYNC_WORKER") == "true" {
		asyncWorker = worker.NewWorker(busImpl, repo, engine, ruleEngine, screener)
		if err := asyncWorker.Start(); err != nil {
			slog.Error("failed to start async worker", "error", err)
		} else {
			slog.Info("async worker started")
		}
	}

	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, engine, ruleEngine, screener, Version)

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("vssbridge is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	printBanner(cfg, Version)

	<-ctx.Done()
	slog.Info("shutting down...")

	// Stop async worker first
	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("vssbridge shutdown complete")
}

// loadRulesFromDatabase loads screening rules from the database into the
// engine. All rules must be configured via the rules API - no hardcoded
// defaults.
func loadRulesFromDatabase(ctx context.Context, repo domain.Repository, engine *rules.Engine) error {
	dbRules, err := repo.ListScreenRules(ctx)
	if err != nil {
		slog.Warn("failed to list screening rules from database", "error", err)
		return nil // Start with empty rules - they can be added via API
	}

	if len(dbRules) > 0 {
		slog.Info("loading screening rules from database", "count", len(dbRules))
		return engine.LoadRules(dbRules)
	}

	slog.Info("no screening rules in database - configure via POST /v1/rules")
	return nil
}

func runProcess(args []string) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	format := fs.String("format", "summary", "output format: summary, detailed or json")
	workers := fs.Int("workers", 4, "number of concurrent extractions")
	save := fs.Bool("save", false, "write JSON and Markdown reports to the output directories")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vssbridge process [flags] <tax-id> [tax-id...]")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	taxIDs := fs.Args()
	if len(taxIDs) == 0 {
		fs.Usage()
		os.Exit(2)
	}
	switch *format {
	case "summary", "detailed", "json":
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	cfg := loadConfig()

	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		slog.Error("failed to initialize cache", "error", err)
		os.Exit(1)
	}
	defer cacheImpl.Close()

	engine := buildEngine(cfg, cacheImpl)
	writer := report.NewWriter(cfg.Output)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	results := engine.ProcessBatch(ctx, taxIDs, *workers)

	failed := 0
	for _, res := range results {
		if res.Err != "" {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %s\n", res.TaxID, res.Err)
			continue
		}

		switch *format {
		case "json":
			data, err := json.MarshalIndent(res.Result, "", "  ")
			if err != nil {
				failed++
				fmt.Fprintf(os.Stderr, "%s: %s\n", res.TaxID, err)
				continue
			}
			fmt.Println(string(data))
		case "detailed":
			fmt.Println(report.Detailed(res.Result))
		default:
			fmt.Println(report.Summary(res.Result))
		}

		if *save {
			if path, err := writer.WriteJSON(res.Result); err != nil {
				slog.Warn("failed to write JSON report", "tax_id", res.TaxID, "error", err)
			} else {
				slog.Info("JSON report written", "tax_id", res.TaxID, "path", path)
			}
			if path, err := writer.WriteMarkdown(res.Result); err != nil {
				slog.Warn("failed to write Markdown report", "tax_id", res.TaxID, "error", err)
			} else {
				slog.Info("Markdown report written", "tax_id", res.TaxID, "path", path)
			}
		}
	}

	if snap := engine.Metrics().Snapshot(); snap.Total > 1 {
		slog.Info("batch complete",
			"total", snap.Total,
			"succeeded", snap.Succeeded,
			"failed", failed,
			"real_source", snap.RealSource,
			"synthetic", snap.Synthetic,
			"avg_seconds", snap.AvgSeconds,
		)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════╗")
	fmt.Println("  ║              🚀 VSSBRIDGE                 ║")
	fmt.Println("  ║   Enterprise + Social Insurance Fusion    ║")
	fmt.Println("  ║      One tax id, one full profile.        ║")
	fmt.Println("  ╚═══════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST   /v1/profiles           - Build a profile for a tax id")
	fmt.Println("    GET    /v1/profiles/{taxId}   - Get the latest profile for a tax id")
	fmt.Println("    GET    /v1/metrics            - Pipeline throughput counters")
	fmt.Println("    GET    /v1/rules              - List screening rules")
	fmt.Println("    POST   /v1/rules              - Create a screening rule")
	fmt.Println("    GET    /v1/rules/{id}         - Get a screening rule")
	fmt.Println("    DELETE /v1/rules/{id}         - Disable a screening rule")
	fmt.Println("    POST   /v1/rules/reload       - Hot-reload rules from database")
	fmt.Println("    GET    /health                - Health check")
	fmt.Println()
}
