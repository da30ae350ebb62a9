package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"PortfolioPulse/internal/analyzer"
	"PortfolioPulse/internal/model"
	"PortfolioPulse/internal/notifier"
	"PortfolioPulse/internal/recorder"
)

// DefaultRunTimeout bounds a single analysis run.
const DefaultRunTimeout = 2 * time.Minute

// Analyzer produces a full report for a set of holdings.
type Analyzer interface {
	Analyze(ctx context.Context, h model.Holdings, window model.Window) (*model.Report, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Holdings model.Holdings
	Skipped  []string
	Window   model.Window
	Notifier Sender
	Recorder recorder.Recorder
	Settings notifier.Settings
	Timeout  time.Duration
	Ctx      context.Context

	log     zerolog.Logger
	mu      sync.Mutex
	last    *model.Report
	failing bool
}

// NewScheduler creates a new Scheduler. skipped lists holdings segments that
// failed to parse, shown when the portfolio ends up empty.
func NewScheduler(ctx context.Context, an Analyzer, h model.Holdings, skipped []string, window model.Window,
	sender Sender, rec recorder.Recorder, settings notifier.Settings, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cronLog := log.With().Str("component", "cron").Logger()
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(&cronLog))),
		),
		Analyzer: an,
		Holdings: h,
		Skipped:  skipped,
		Window:   window,
		Notifier: sender,
		Recorder: rec,
		Settings: settings,
		Timeout:  DefaultRunTimeout,
		Ctx:      ctx,
		log:      log,
	}
}

// RegisterAll registers the refresh and report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("holdings", s.Holdings.Len()).Str("window", s.Window.Name).Msg("scheduler started")
}

// Stop stops the cron scheduler, waiting for running tasks to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the report task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.reportTask()
}

// Last returns the most recent successful report, or nil.
func (s *Scheduler) Last() *model.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) refreshTask() {
	s.log.Debug().Msg("running refresh")
	_, err := s.run(s.Window)
	s.track(err)
}

func (s *Scheduler) reportTask() {
	s.log.Info().Msg("running report task")
	report, err := s.run(s.Window)
	s.track(err)
	if err != nil {
		return
	}
	s.trySend(notifier.FormatReport(report, s.Settings))
}

// run analyzes the configured holdings over window. Reports for the
// configured window are kept as the latest and recorded.
func (s *Scheduler) run(window model.Window) (*model.Report, error) {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	report, err := s.Analyzer.Analyze(ctx, s.Holdings, window)
	if err != nil {
		return nil, err
	}
	if window != s.Window {
		return report, nil
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	if err := s.Recorder.RecordRun(recorder.SnapshotFromReport(report)); err != nil {
		s.log.Error().Err(err).Msg("record run")
	}
	return report, nil
}

// track logs every failed run but notifies only on the first of a streak,
// so a flapping provider does not flood the chat. The loop keeps running.
func (s *Scheduler) track(err error) {
	s.mu.Lock()
	first := err != nil && !s.failing
	recovered := err == nil && s.failing
	s.failing = err != nil
	s.mu.Unlock()

	switch {
	case err != nil:
		s.log.Error().Err(err).Msg("analysis run failed")
		if first {
			s.trySend(s.failureMessage(err))
		}
	case recovered:
		s.log.Info().Msg("analysis recovered")
	}
}

func (s *Scheduler) failureMessage(err error) string {
	if errors.Is(err, analyzer.ErrNoHoldings) {
		return notifier.FormatNoHoldings(s.Skipped)
	}
	return notifier.FormatFailure(err)
}

// current returns the latest report, running an analysis if none exists yet.
func (s *Scheduler) current() (*model.Report, error) {
	if r := s.Last(); r != nil {
		return r, nil
	}
	return s.run(s.Window)
}

const helpText = "Available commands:\n" +
	"• /portfolio - holdings and total value\n" +
	"• /risk - volatility, Sharpe ratio and profile\n" +
	"• /trend [window] - value trend, e.g. /trend 3mo\n" +
	"• /report - full report\n" +
	"• /refresh - re-run the analysis now"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name, _, _ := strings.Cut(fields[0], "@")

	var (
		report *model.Report
		err    error
	)
	switch name {
	case "/portfolio", "/risk", "/report":
		report, err = s.current()
	case "/refresh":
		report, err = s.run(s.Window)
	case "/trend":
		window := s.Window
		if len(fields) > 1 {
			if window, err = model.ParseWindow(fields[1]); err != nil {
				return err.Error()
			}
		}
		if window == s.Window {
			report, err = s.current()
		} else {
			report, err = s.run(window)
		}
	default:
		return helpText
	}
	if err != nil {
		s.log.Warn().Err(err).Str("command", name).Msg("command failed")
		return s.failureMessage(err)
	}

	switch name {
	case "/portfolio":
		return notifier.FormatValuation(report.Valuation, s.Settings)
	case "/risk":
		return notifier.FormatRisk(report)
	case "/trend":
		return notifier.FormatTrend(report, s.Settings)
	default:
		return notifier.FormatReport(report, s.Settings)
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
