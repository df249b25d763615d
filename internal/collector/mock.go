package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Quote  *model.QuoteSnapshot
	Series map[Range]*model.PriceSeries
	News   []model.NewsItem
	Err    error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns the requests seen so far, e.g. "series AAPL 6mo/1d".
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockFetcher) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockFetcher) FetchQuote(_ context.Context, symbol string) (*model.QuoteSnapshot, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, opError("quote", symbol, err)
	}
	m.record("quote " + symbol)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Quote != nil {
		q := *m.Quote
		return &q, nil
	}
	return &model.QuoteSnapshot{
		Symbol:        symbol,
		Currency:      "USD",
		Price:         null.FloatFrom(m.Price),
		PreviousClose: null.FloatFrom(m.Price * 0.99),
		High52Week:    null.FloatFrom(m.Price * 1.2),
		Low52Week:     null.FloatFrom(m.Price * 0.8),
	}, nil
}

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, rng Range, interval Interval) (*model.PriceSeries, error) {
	if err := checkSymbol(symbol); err != nil {
		return nil, opError("series", symbol, err)
	}
	if err := rng.Validate(); err != nil {
		return nil, opError("series", symbol, err)
	}
	if err := interval.Validate(); err != nil {
		return nil, opError("series", symbol, err)
	}
	m.record(fmt.Sprintf("series %s %s/%s", symbol, rng, interval))
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[rng]; ok {
		cp := *s
		cp.Symbol = symbol
		return &cp, nil
	}
	return &model.PriceSeries{
		Symbol:   symbol,
		Range:    string(rng),
		Interval: string(interval),
		Meta:     model.QuoteSnapshot{Symbol: symbol, Price: null.FloatFrom(m.Price)},
		Bars:     GenerateBars(m.Price, 120, time.Now().UTC()),
	}, nil
}

func (m *MockFetcher) SearchNews(_ context.Context, query string, count int) ([]model.NewsItem, error) {
	m.record("news " + query)
	if m.Err != nil {
		return nil, m.Err
	}
	if count <= 0 {
		count = defaultNewsCount
	}
	items := m.News
	if len(items) > count {
		items = items[:count]
	}
	return items, nil
}

// GenerateBars builds count daily bars ending at end around basePrice.
func GenerateBars(basePrice float64, count int, end time.Time) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Time:     end.AddDate(0, 0, -(count - i)),
			Open:     null.FloatFrom(p * 0.999),
			High:     null.FloatFrom(p * 1.005),
			Low:      null.FloatFrom(p * 0.995),
			Close:    null.FloatFrom(p),
			Volume:   null.FloatFrom(1000000),
			AdjClose: null.FloatFrom(p),
		}
	}
	return bars
}
