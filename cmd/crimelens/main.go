package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crimelens/crimelens/internal/analysis"
	"github.com/crimelens/crimelens/internal/config"
	"github.com/crimelens/crimelens/internal/geocode"
	"github.com/crimelens/crimelens/internal/logger"
	"github.com/crimelens/crimelens/internal/models"
	"github.com/crimelens/crimelens/internal/notify"
	"github.com/crimelens/crimelens/internal/store"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")
	once       = flag.Bool("once", false, "Run a single analysis and exit")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	defer logger.Sync()
	logger.Info("Configuration loaded from %s", *configPath)

	// Open the incident store
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to open incident store: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close incident store: %v", err)
		}
	}()

	// Initialize the analysis engine
	engine := analysis.New(st, geocode.NewStatic(), cfg.Analysis.ClusterDistance)

	// Initialize the notifier
	var notifier *notify.Client
	if cfg.Notifier.Enabled {
		notifier, err = notify.NewClient(cfg.Notifier.BotToken, cfg.Notifier.ChatID, cfg.Notifier.MaxRetries, cfg.Notifier.RetryDelayBase)
		if err != nil {
			logger.Fatal("Failed to initialize Telegram client: %v", err)
		}
		logger.Info("Telegram notifier initialized")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	opts := models.AnalysisOptions{
		TimeRange:     cfg.Analysis.TimeRange,
		MinConfidence: cfg.Analysis.MinConfidence,
	}

	if *once {
		runOnce(ctx, cfg, engine, st, notifier, opts)
		return
	}

	logger.Info("Starting analysis service (interval: %v, time_range: %s, min_confidence: %.2f)",
		cfg.Analysis.PollInterval, cfg.Analysis.TimeRange, cfg.Analysis.MinConfidence)

	ticker := time.NewTicker(cfg.Analysis.PollInterval)
	defer ticker.Stop()

	runOnce(ctx, cfg, engine, st, notifier, opts)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Analysis service stopped")
			return
		case <-ticker.C:
			runOnce(ctx, cfg, engine, st, notifier, opts)
		}
	}
}

// runOnce executes a single analysis run: fetch with timeout, detect,
// persist, notify.
func runOnce(ctx context.Context, cfg *config.Config, engine *analysis.Engine, st *store.Store, notifier *notify.Client, opts models.AnalysisOptions) {
	runCtx, cancel := context.WithTimeout(ctx, cfg.Analysis.FetchTimeout)
	defer cancel()

	result, err := engine.Run(runCtx, opts)
	if err != nil {
		logger.Error("Analysis run failed: %v", err)
		return
	}
	if !result.Success {
		logger.Info("Run %s: insufficient data (%d incidents), no patterns produced",
			result.Metadata.RunID, result.Basic.TotalIncidents)
		return
	}

	if err := st.SavePatterns(ctx, result.Metadata.RunID, result.Patterns); err != nil {
		logger.Error("Failed to persist patterns for run %s: %v", result.Metadata.RunID, err)
	}

	if notifier != nil && len(result.Patterns) > 0 {
		if err := notifier.Send(result, cfg.Notifier.TopK); err != nil {
			logger.Error("Failed to send digest for run %s: %v", result.Metadata.RunID, err)
		}
	}
}
