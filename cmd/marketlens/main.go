package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"MarketLens/internal/codec"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/logger"
)

const usage = `usage: marketlens [-format text|json] <command> [args]

commands:
  quote SYMBOL...            current quote snapshot
  price SYMBOL...            regular market price only
  series [-range R] [-interval I] SYMBOL...
  news [-count N] QUERY      latest headlines
  fundamentals SYMBOL...     quote plus 52-week distances
  yearly SYMBOL...           per-year performance over five years
  ratios SYMBOL...           returns and volatility
  trend SYMBOL...            moving averages, momentum and signal
  technical [-period R] SYMBOL...
  history [-limit N] SYMBOL...  stored trend snapshots, newest first
  watch                      run scheduled watchlist scans until interrupted
`

type app struct {
	cfg    *config.Config
	col    *collector.Collector
	format codec.Format
	out    io.Writer
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			logger.GetLogger().WithError(err).Warn("load .env")
		}
	}

	fs := flag.NewFlagSet("marketlens", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	format := fs.String("format", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	outFormat, err := codec.ParseFormat(*format)
	if err != nil {
		return err
	}
	if outFormat == codec.FormatRecord {
		return fmt.Errorf("format %q is only available to library callers", *format)
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	logger.SetLevel(cfg.Log.Level)

	fetcher := collector.NewYahooFetcher(cfg.Proxy,
		collector.WithChartURL(cfg.Provider.ChartURL),
		collector.WithSearchURL(cfg.Provider.SearchURL),
		collector.WithUserAgent(cfg.Provider.UserAgent),
		collector.WithTimeout(cfg.Timeout()),
	)
	a := &app{
		cfg:    cfg,
		col:    collector.NewCollector(fetcher),
		format: outFormat,
		out:    out,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}
