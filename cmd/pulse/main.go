package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"PortfolioPulse/internal/analyzer"
	"PortfolioPulse/internal/cache"
	"PortfolioPulse/internal/collector"
	"PortfolioPulse/internal/config"
	"PortfolioPulse/internal/holdings"
	"PortfolioPulse/internal/logging"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/notifier"
	"PortfolioPulse/internal/recorder"
	"PortfolioPulse/internal/scheduler"
	"PortfolioPulse/internal/strategy"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := logging.New("info")
		boot.Fatal().Err(err).Msg("load config")
	}
	log := logging.New(cfg.Logging.Level)
	log.Info().Str("config", cfgPath).Msg("PortfolioPulse starting...")
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Parse holdings
	h, skipped := holdings.Parse(cfg.Portfolio.Holdings)
	if len(skipped) > 0 {
		log.Warn().Strs("segments", skipped).Msg("skipped malformed holdings")
	}
	if h.Len() == 0 {
		log.Warn().Msg("no holdings configured")
	}
	log.Info().Str("holdings", holdings.Format(h)).Msg("portfolio loaded")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Provider.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy,
			cfg.Provider.Timeout, cfg.Provider.RateLimit, log)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.Provider.Timeout, cfg.Provider.RateLimit, log)
	}
	fetcher, store := withCache(ctx, cfg, fetcher, log)
	if store != nil {
		defer store.Close()
	}
	log.Info().Str("source", fetcher.Name()).Msg("price source ready")

	// Init analyzer
	an := analyzer.New(fetcher,
		analyzer.WithLogger(log.With().Str("component", "analyzer").Logger()),
		analyzer.WithConcurrency(cfg.Analysis.Concurrency),
		analyzer.WithSMAPeriod(cfg.Analysis.SMAPeriod),
		analyzer.WithClassifier(strategy.NewClassifier(cfg.Analysis.Thresholds)),
	)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init notifier
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		sender = tn
	} else {
		log.Info().Msg("telegram not configured, reports go to the log")
		sender = notifier.NewLogNotifier(log)
	}

	// Init scheduler
	settings := notifier.Settings{
		Title:      cfg.Report.Title,
		Currency:   cfg.Report.Currency,
		DateFormat: cfg.Report.DateFormat,
	}
	window := model.DaysWindow(cfg.Analysis.LookbackDays)
	sched := scheduler.NewScheduler(ctx, an, h, skipped, window, sender, rec, settings, log)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing report task now")
		go sched.RunNow()
	}

	log.Info().Msg("PortfolioPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
}

// withCache wraps fetcher with Redis when configured, else an in-process store.
// The returned store is nil when caching is disabled.
func withCache(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher, log zerolog.Logger) (collector.Fetcher, cache.Store) {
	if cfg.Cache.TTL < 0 {
		return fetcher, nil
	}
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Cache.RedisAddr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("redis unavailable, using memory cache")
		} else {
			store = rs
		}
	}
	return cache.NewFetcher(fetcher, store, cfg.Cache.TTL, log.With().Str("component", "cache").Logger()), store
}
