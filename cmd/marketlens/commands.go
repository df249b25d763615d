package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"MarketLens/internal/codec"
	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/notifier"
	"MarketLens/internal/recorder"
)

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "quote":
		return perSymbol(ctx, a, args, a.col.Quote, notifier.FormatQuote)
	case "price":
		return perSymbol(ctx, a, args, a.col.CurrentPrice, func(p float64) string {
			return strconv.FormatFloat(p, 'f', 2, 64) + "\n"
		})
	case "fundamentals":
		return perSymbol(ctx, a, args, a.col.Fundamentals, notifier.FormatFundamentals)
	case "yearly":
		return perSymbol(ctx, a, args, a.col.YearlyPerformance, notifier.FormatYearly)
	case "ratios":
		return perSymbol(ctx, a, args, a.col.KeyRatios, notifier.FormatKeyRatios)
	case "trend":
		return perSymbol(ctx, a, args, a.col.TrendAnalysis, notifier.FormatTrend)
	case "series":
		return a.series(ctx, args)
	case "technical":
		return a.technical(ctx, args)
	case "news":
		return a.news(ctx, args)
	case "history":
		return a.history(ctx, args)
	case "watch":
		return a.watch(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) series(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("series", flag.ContinueOnError)
	rng := fs.String("range", string(collector.Range1mo), "lookback range")
	interval := fs.String("interval", string(collector.Interval1d), "bar interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	r, err := collector.ParseRange(*rng)
	if err != nil {
		return err
	}
	iv, err := collector.ParseInterval(*interval)
	if err != nil {
		return err
	}
	return perSymbol(ctx, a, fs.Args(), func(ctx context.Context, sym string) (*model.PriceSeries, error) {
		return a.col.Series(ctx, sym, r, iv)
	}, notifier.FormatSeries)
}

func (a *app) technical(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("technical", flag.ContinueOnError)
	period := fs.String("period", string(collector.Range1y), "lookback period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return perSymbol(ctx, a, fs.Args(), func(ctx context.Context, sym string) (*model.PriceSeries, error) {
		return a.col.TechnicalSeries(ctx, sym, collector.Range(*period))
	}, notifier.FormatSeries)
}

func (a *app) news(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("news", flag.ContinueOnError)
	count := fs.Int("count", 0, "number of headlines (default 3)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	items, err := a.col.News(ctx, query, *count)
	if err != nil {
		return err
	}
	return a.emit(items, func() string { return notifier.FormatNews(query, items) })
}

// symbolHistory is the json shape of one symbol's stored trends.
type symbolHistory struct {
	Symbol    string                `json:"symbol"`
	Snapshots []model.TrendSnapshot `json:"snapshots"`
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "rows per symbol")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.cfg.Database.SQLitePath == "" {
		return errors.New("history needs database.sqlite_path")
	}
	if *limit <= 0 {
		return fmt.Errorf("%w: limit must be positive", collector.ErrInvalidParameter)
	}
	rec, err := recorder.NewSQLiteRecorder(a.cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()

	return perSymbol(ctx, a, fs.Args(), func(ctx context.Context, sym string) (symbolHistory, error) {
		rows, err := rec.RecentTrends(ctx, sym, *limit)
		if err != nil {
			return symbolHistory{}, err
		}
		if rows == nil {
			rows = []model.TrendSnapshot{}
		}
		return symbolHistory{Symbol: sym, Snapshots: rows}, nil
	}, func(h symbolHistory) string {
		return notifier.FormatHistory(h.Symbol, h.Snapshots)
	})
}

// perSymbol runs fn for every symbol through the bounded fan-out. Text output
// prints each result in order; json output prints one array of the results.
// Any failed symbol makes the command fail.
func perSymbol[T any](ctx context.Context, a *app, symbols []string, fn func(context.Context, string) (T, error), text func(T) string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", collector.ErrInvalidParameter)
	}

	var failed []error
	values := make([]T, 0, len(symbols))
	for _, r := range collector.ForEachSymbol(ctx, symbols, a.cfg.Concurrency, fn) {
		if r.Err != nil {
			failed = append(failed, r.Err)
			continue
		}
		if a.format == codec.FormatJSON {
			values = append(values, r.Value)
			continue
		}
		if err := a.emit(r.Value, func() string { return text(r.Value) }); err != nil {
			return err
		}
	}
	if a.format == codec.FormatJSON {
		if err := a.emit(values, nil); err != nil {
			return err
		}
	}
	return errors.Join(failed...)
}

func (a *app) emit(v any, text func() string) error {
	shaped, err := codec.Shape(v, a.format, text)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, shaped)
	return err
}
