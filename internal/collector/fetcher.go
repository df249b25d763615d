package collector

import (
	"context"

	"MarketLens/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*model.QuoteSnapshot, error)
	FetchSeries(ctx context.Context, symbol string, rng Range, interval Interval) (*model.PriceSeries, error)
	SearchNews(ctx context.Context, query string, count int) ([]model.NewsItem, error)
	Name() string
}
