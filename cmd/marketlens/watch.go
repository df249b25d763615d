package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketLens/internal/logger"
	"MarketLens/internal/notifier"
	"MarketLens/internal/recorder"
	"MarketLens/internal/scheduler"
)

// watch runs the scheduled scans and the Telegram command loop until ctx ends.
func (a *app) watch(ctx context.Context) error {
	log := logger.GetLogger()
	if err := a.cfg.ValidateWatch(); err != nil {
		return err
	}

	var rec recorder.Recorder
	if a.cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if a.cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, a.col, n, rec, a.cfg.Watchlist, a.cfg.Concurrency)
	if err := sched.RegisterAll(a.cfg.Schedule.TrendCron, a.cfg.Schedule.RatiosCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	if a.cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", a.cfg.Metrics.Addr).Info("metrics endpoint listening")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing scans now")
		go func() {
			sched.RunTrendNow()
			sched.RunRatiosNow()
		}()
	}

	log.Info("MarketLens is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info("shutdown signal received, stopping...")
	return nil
}
