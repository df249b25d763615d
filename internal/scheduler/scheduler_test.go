package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	trends  []string
	ratios  []string
	history []model.TrendSnapshot
	asked   []string
}

func (f *fakeRecorder) RecordTrend(_ context.Context, ta *model.TrendAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trends = append(f.trends, ta.Symbol)
	return nil
}

func (f *fakeRecorder) RecordKeyRatios(_ context.Context, kr *model.KeyRatios) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ratios = append(f.ratios, kr.Symbol)
	return nil
}

func (f *fakeRecorder) RecentTrends(_ context.Context, symbol string, limit int) ([]model.TrendSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, fmt.Sprintf("%s/%d", symbol, limit))
	return f.history, nil
}

func (f *fakeRecorder) Close() error { return nil }

// failingFetcher fails every request for one symbol.
type failingFetcher struct {
	*collector.MockFetcher
	bad string
}

func (f *failingFetcher) FetchSeries(ctx context.Context, symbol string, rng collector.Range, iv collector.Interval) (*model.PriceSeries, error) {
	if symbol == f.bad {
		return nil, collector.ErrDataUnavailable
	}
	return f.MockFetcher.FetchSeries(ctx, symbol, rng, iv)
}

func newTestScheduler(t *testing.T, fetcher collector.Fetcher, watchlist ...string) (*Scheduler, *fakeNotifier, *fakeRecorder) {
	t.Helper()
	n := &fakeNotifier{}
	rec := &fakeRecorder{}
	s := NewScheduler(context.Background(), collector.NewCollector(fetcher), n, rec, watchlist, 2)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC) }
	return s, n, rec
}

func TestRunTrendNow(t *testing.T) {
	f := &failingFetcher{MockFetcher: &collector.MockFetcher{Price: 100}, bad: "ZZZ"}
	s, n, rec := newTestScheduler(t, f, "AAPL", "ZZZ", "MSFT")

	s.RunTrendNow()

	assert.ElementsMatch(t, []string{"AAPL", "MSFT"}, rec.trends)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "2024-05-01")
	assert.Contains(t, n.sent[0], "AAPL")
	assert.Contains(t, n.sent[0], "ZZZ: trend ZZZ: data unavailable")
}

func TestRunRatiosNow(t *testing.T) {
	s, n, rec := newTestScheduler(t, &collector.MockFetcher{Price: 50}, "SPY")

	s.RunRatiosNow()

	assert.Equal(t, []string{"SPY"}, rec.ratios)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "SPY")
}

func TestRegisterAll_InvalidCron(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1})
	assert.NoError(t, s.RegisterAll("0 30 22 * * 1-5", "0 0 8 * * 1"))
	assert.Error(t, s.RegisterAll("not a cron", "0 0 8 * * 1"))
}

func TestHandleCommand(t *testing.T) {
	m := &collector.MockFetcher{
		Price: 100,
		News:  []model.NewsItem{{Title: "Headline", Publisher: "Reuters"}},
	}
	s, _, _ := newTestScheduler(t, m)
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/quote AAPL"), "(AAPL)")
	assert.Contains(t, s.HandleCommand(ctx, "/trend AAPL"), "AAPL 趋势")
	assert.Contains(t, s.HandleCommand(ctx, "/ratios AAPL"), "AAPL 关键指标")
	assert.Contains(t, s.HandleCommand(ctx, "/news apple earnings"), "Headline")
	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/quote SYMBOL")
	assert.Contains(t, s.HandleCommand(ctx, "/quote"), "invalid parameter")
}

func TestHandleCommand_ProviderError(t *testing.T) {
	s, _, _ := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("boom")})
	assert.Equal(t, "❌ trend X: boom", s.HandleCommand(context.Background(), "/trend X"))
}

func TestHandleCommand_SymbolPassedVerbatim(t *testing.T) {
	m := &collector.MockFetcher{Price: 10}
	s, _, _ := newTestScheduler(t, m)

	s.HandleCommand(context.Background(), "/quote brk-b.ba")
	assert.Equal(t, []string{"quote brk-b.ba"}, m.Calls())
}

func TestHandleCommand_History(t *testing.T) {
	s, _, rec := newTestScheduler(t, &collector.MockFetcher{Price: 1})
	rec.history = []model.TrendSnapshot{{
		RecordedAt: time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC),
		Analysis:   model.TrendAnalysis{Symbol: "AAPL", Trend: model.TrendBearish, Signal: model.SignalSell},
	}}
	ctx := context.Background()

	out := s.HandleCommand(ctx, "/history AAPL")
	assert.Contains(t, out, "AAPL 趋势历史")
	assert.Contains(t, out, "bearish")
	assert.Equal(t, []string{"AAPL/10"}, rec.asked)

	assert.Contains(t, s.HandleCommand(ctx, "/history"), "/history SYMBOL")
	assert.Len(t, rec.asked, 1, "missing symbol does not query the store")
}

func TestRunTrendNow_HistoryFromSQLite(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "lens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })

	s := NewScheduler(context.Background(), collector.NewCollector(&collector.MockFetcher{Price: 100}), nil, rec, []string{"AAPL"}, 1)
	s.RunTrendNow()

	out := s.HandleCommand(context.Background(), "/history AAPL")
	assert.Contains(t, out, "AAPL 趋势历史")
	assert.NotContains(t, out, "无记录")
}
