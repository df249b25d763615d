package collector

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"MarketLens/internal/calculator"
	"MarketLens/internal/logger"
	"MarketLens/internal/model"
)

// Collector orchestrates data fetching and derived metric computation.
type Collector struct {
	Fetcher Fetcher

	log *logrus.Entry
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{
		Fetcher: fetcher,
		log:     logger.GetLogger().WithField("fetcher", fetcher.Name()),
	}
}

// Quote returns the current quote snapshot of symbol.
func (c *Collector) Quote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, c.fail("quote", symbol, err)
	}
	return q, nil
}

// CurrentPrice returns the regular market price. A quote without a price is
// reported as ErrDataUnavailable.
func (c *Collector) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return 0, c.fail("price", symbol, err)
	}
	if !q.Price.Valid {
		return 0, c.fail("price", symbol, fmt.Errorf("%w: no regular market price", ErrDataUnavailable))
	}
	return q.Price.Float64, nil
}

// Series returns the bars of symbol for the given range and interval.
func (c *Collector) Series(ctx context.Context, symbol string, rng Range, interval Interval) (*model.PriceSeries, error) {
	s, err := c.Fetcher.FetchSeries(ctx, symbol, rng, interval)
	if err != nil {
		return nil, c.fail("series", symbol, err)
	}
	return s, nil
}

// News returns up to count headlines matching query. count <= 0 means 3.
func (c *Collector) News(ctx context.Context, query string, count int) ([]model.NewsItem, error) {
	items, err := c.Fetcher.SearchNews(ctx, query, count)
	if err != nil {
		return nil, c.fail("news", query, err)
	}
	return items, nil
}

// Fundamentals returns the quote fields and the 52-week distance figures.
func (c *Collector) Fundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, c.fail("fundamentals", symbol, err)
	}
	return calculator.BuildFundamentals(q), nil
}

// YearlyPerformance groups five years of monthly bars by calendar year.
func (c *Collector) YearlyPerformance(ctx context.Context, symbol string) (*model.YearlyPerformance, error) {
	s, err := c.Fetcher.FetchSeries(ctx, symbol, Range5y, Interval1mo)
	if err != nil {
		return nil, c.fail("yearly", symbol, err)
	}
	return calculator.BuildYearly(s), nil
}

// KeyRatios needs three requests: the quote, one year of daily bars and the
// year-to-date monthly bars. The first failure aborts.
func (c *Collector) KeyRatios(ctx context.Context, symbol string) (*model.KeyRatios, error) {
	q, err := c.Fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, c.fail("ratios", symbol, err)
	}
	daily, err := c.Fetcher.FetchSeries(ctx, symbol, Range1y, Interval1d)
	if err != nil {
		return nil, c.fail("ratios", symbol, err)
	}
	ytd, err := c.Fetcher.FetchSeries(ctx, symbol, RangeYTD, Interval1mo)
	if err != nil {
		return nil, c.fail("ratios", symbol, err)
	}
	return calculator.BuildKeyRatios(q, daily, ytd), nil
}

// TrendAnalysis computes moving averages, momentum and the trend signal over
// six months of daily bars.
func (c *Collector) TrendAnalysis(ctx context.Context, symbol string) (*model.TrendAnalysis, error) {
	s, err := c.Fetcher.FetchSeries(ctx, symbol, Range6mo, Interval1d)
	if err != nil {
		return nil, c.fail("trend", symbol, err)
	}
	ta := calculator.BuildTrend(s)
	c.log.WithFields(logrus.Fields{
		"symbol": symbol,
		"trend":  ta.Trend,
		"bars":   len(s.Bars),
	}).Debug("trend computed")
	return ta, nil
}

// TechnicalSeries returns daily bars over period, adjusted close included.
func (c *Collector) TechnicalSeries(ctx context.Context, symbol string, period Range) (*model.PriceSeries, error) {
	if err := period.Validate(); err != nil {
		return nil, c.fail("technical", symbol, err)
	}
	s, err := c.Fetcher.FetchSeries(ctx, symbol, period, Interval1d)
	if err != nil {
		return nil, c.fail("technical", symbol, err)
	}
	return s, nil
}

func (c *Collector) fail(op, symbol string, err error) error {
	wrapped := opError(op, symbol, err)
	c.log.WithFields(logrus.Fields{
		"op":     op,
		"symbol": symbol,
	}).WithError(err).Warn("collector operation failed")
	return wrapped
}
