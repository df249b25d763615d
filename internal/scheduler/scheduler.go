package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"MarketLens/internal/collector"
	"MarketLens/internal/logger"
	"MarketLens/internal/metrics"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/recorder"
)

const (
	jobTrend  = "trend"
	jobRatios = "ratios"

	historyLimit = 10
)

// Notifier delivers formatted reports.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron        *cron.Cron
	Collector   *collector.Collector
	Notifier    Notifier
	Recorder    recorder.Recorder
	Watchlist   []string
	Concurrency int
	Ctx         context.Context

	log *logrus.Entry
	now func() time.Time
}

// NewScheduler creates a new Scheduler. A nil notifier disables delivery.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier, rec recorder.Recorder, watchlist []string, concurrency int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Collector:   col,
		Notifier:    n,
		Recorder:    rec,
		Watchlist:   watchlist,
		Concurrency: concurrency,
		Ctx:         ctx,
		log:         logger.GetLogger().WithField("component", "scheduler"),
		now:         time.Now,
	}
}

// RegisterAll registers the trend and key-ratio scans.
func (s *Scheduler) RegisterAll(trendCron, ratiosCron string) error {
	if _, err := s.Cron.AddFunc(trendCron, s.RunTrendNow); err != nil {
		return fmt.Errorf("register trend task: %w", err)
	}
	if _, err := s.Cron.AddFunc(ratiosCron, s.RunRatiosNow); err != nil {
		return fmt.Errorf("register ratios task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.WithField("watchlist", s.Watchlist).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunTrendNow scans the watchlist for trends, records and reports the results.
func (s *Scheduler) RunTrendNow() {
	s.log.WithField("job", jobTrend).Info("running scan")
	metrics.ScanRuns.WithLabelValues(jobTrend).Inc()

	results := collector.ForEachSymbol(s.Ctx, s.Watchlist, s.Concurrency, s.Collector.TrendAnalysis)
	var ok []*model.TrendAnalysis
	failures := map[string]error{}
	for _, r := range results {
		if r.Err != nil {
			failures[r.Symbol] = r.Err
			continue
		}
		ok = append(ok, r.Value)
		if err := s.Recorder.RecordTrend(s.Ctx, r.Value); err != nil {
			s.log.WithField("symbol", r.Symbol).WithError(err).Error("record trend")
		}
	}
	s.finish(jobTrend, failures)
	s.trySend(notifier.FormatTrendDigest(s.now(), ok, failures))
}

// RunRatiosNow scans the watchlist for key ratios, records and reports the results.
func (s *Scheduler) RunRatiosNow() {
	s.log.WithField("job", jobRatios).Info("running scan")
	metrics.ScanRuns.WithLabelValues(jobRatios).Inc()

	results := collector.ForEachSymbol(s.Ctx, s.Watchlist, s.Concurrency, s.Collector.KeyRatios)
	var ok []*model.KeyRatios
	failures := map[string]error{}
	for _, r := range results {
		if r.Err != nil {
			failures[r.Symbol] = r.Err
			continue
		}
		ok = append(ok, r.Value)
		if err := s.Recorder.RecordKeyRatios(s.Ctx, r.Value); err != nil {
			s.log.WithField("symbol", r.Symbol).WithError(err).Error("record key ratios")
		}
	}
	s.finish(jobRatios, failures)
	s.trySend(notifier.FormatRatiosDigest(s.now(), ok, failures))
}

func (s *Scheduler) finish(job string, failures map[string]error) {
	for sym, err := range failures {
		metrics.ScanFailures.WithLabelValues(job).Inc()
		s.log.WithFields(logrus.Fields{"job": job, "symbol": sym}).WithError(err).Warn("symbol failed")
	}
	s.log.WithFields(logrus.Fields{
		"job":      job,
		"symbols":  len(s.Watchlist),
		"failures": len(failures),
	}).Info("scan finished")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}
	// Symbols are opaque and passed to the provider as typed.
	symbol := arg

	switch fields[0] {
	case "/quote":
		q, err := s.Collector.Quote(ctx, symbol)
		if err != nil {
			return failureReply(err)
		}
		return notifier.FormatQuote(q)
	case "/trend":
		t, err := s.Collector.TrendAnalysis(ctx, symbol)
		if err != nil {
			return failureReply(err)
		}
		return notifier.FormatTrend(t)
	case "/ratios":
		k, err := s.Collector.KeyRatios(ctx, symbol)
		if err != nil {
			return failureReply(err)
		}
		return notifier.FormatKeyRatios(k)
	case "/news":
		items, err := s.Collector.News(ctx, arg, 0)
		if err != nil {
			return failureReply(err)
		}
		return notifier.FormatNews(arg, items)
	case "/history":
		if symbol == "" {
			return notifier.FormatHelp()
		}
		rows, err := s.Recorder.RecentTrends(ctx, symbol, historyLimit)
		if err != nil {
			return failureReply(err)
		}
		return notifier.FormatHistory(symbol, rows)
	default:
		return notifier.FormatHelp()
	}
}

func failureReply(err error) string {
	return fmt.Sprintf("❌ %v", err)
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.WithError(err).Error("send notification")
	}
}
