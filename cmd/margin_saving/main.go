package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"frizo/margin_saving/internal/combination"
	icommon "frizo/margin_saving/internal/common"
	"frizo/margin_saving/internal/config"
	"frizo/margin_saving/internal/logger"
	"frizo/margin_saving/internal/margin"
	"frizo/margin_saving/internal/matcher"
	"frizo/margin_saving/internal/metrics"
	"frizo/margin_saving/internal/position"
	"frizo/margin_saving/internal/report"
	"frizo/margin_saving/internal/version"
	"frizo/margin_saving/pkg/utils"
)

func main() {
	// Command line flags
	var (
		showVersion  = flag.Bool("version", false, "Show version information")
		showHelp     = flag.Bool("help", false, "Show help information")
		configFile   = flag.String("config", "", "Path to YAML configuration file")
		logLevel     = flag.String("log-level", "", "Log level (debug, info, warn, error)")
		combinations = flag.String("combinations", "", "Combination parameter file (tab separated)")
		positions    = flag.String("positions", "", "Position file (csv)")
		output       = flag.String("output", "", "Report format (text, json)")
		workers      = flag.Int("workers", 0, "Accounts matched concurrently")
		metricsFile  = flag.String("metrics-file", "", "Write Prometheus metrics to this textfile")
	)
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Handle help flag
	if *showHelp {
		fmt.Printf("Margin Saving %s\n\n", version.Short())
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *configFile != "" && !utils.FileExists(*configFile) {
		fmt.Fprintf(os.Stderr, "config file %s does not exist\n", *configFile)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Command line overrides
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *combinations != "" {
		cfg.CombinationsPath = *combinations
	}
	if *positions != "" {
		cfg.PositionsPath = *positions
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *metricsFile != "" {
		cfg.MetricsFile = *metricsFile
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize logger
	log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	logger.SetDefault(log)

	log.Info("Starting Margin Saving",
		"version", version.Short(),
		"environment", cfg.Environment,
		"combinations", cfg.CombinationsPath,
		"positions", cfg.PositionsPath,
	)

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.Error("Application error", "error", err)
		os.Exit(1)
	}
}

// run loads both sources, matches every account and writes the report to out.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger, out io.Writer) error {
	runID := icommon.GenerateRunID()
	log = log.With("run_id", runID)
	mt := metrics.New()

	catalog, catalogStats, err := combination.Load(cfg.CombinationsPath, log)
	if err != nil {
		return err
	}
	mt.ObserveLoad(combination.Kind, catalogStats.Loaded, catalogStats.Skipped)

	book, bookStats, err := position.Load(cfg.PositionsPath, log)
	if err != nil {
		return err
	}
	mt.ObserveLoad(position.Kind, bookStats.Loaded, bookStats.Skipped)

	multiplier, err := cfg.Multiplier()
	if err != nil {
		return err
	}
	rules := margin.NewRules(&margin.MarginConfig{StandaloneMultiplier: multiplier})

	m := matcher.New(catalog,
		matcher.WithRules(rules),
		matcher.WithWorkers(cfg.Workers),
		matcher.WithLogger(log),
		matcher.WithMetrics(mt),
	)

	start := time.Now()
	results, err := m.FindPairs(ctx, book)
	if err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	var lots int64
	for _, account := range book.Accounts() {
		lots += book.TotalQuantity(account)
	}
	log.Info("Matching finished",
		"accounts", len(book.Accounts()),
		"lots", lots,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	meta := report.Meta{
		RunID:              runID,
		GeneratedAt:        time.Now().UTC(),
		CombinationSource:  cfg.CombinationsPath,
		PositionSource:     cfg.PositionsPath,
		CombinationsLoaded: catalogStats.Loaded,
		PositionsLoaded:    bookStats.Loaded,
	}
	if strings.EqualFold(cfg.Output, "json") {
		err = report.WriteJSON(out, results, meta)
	} else {
		err = report.WriteText(out, results, meta)
	}
	if err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := utils.EnsureDir(filepath.Dir(cfg.MetricsFile)); err != nil {
			return fmt.Errorf("metrics dir: %w", err)
		}
		if err := mt.WriteTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		log.Debug("Metrics written", "file", cfg.MetricsFile)
	}
	return nil
}
