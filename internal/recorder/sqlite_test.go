package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func openTestDB(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "data", "lens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestSQLiteRecorder_TrendRoundTrip(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC)
	r.now = func() time.Time { return base }
	first := &model.TrendAnalysis{
		Symbol:       "AAPL",
		CurrentPrice: null.FloatFrom(170),
		SMA20:        null.FloatFrom(168.2),
		Trend:        model.TrendNeutral,
		Signal:       model.SignalHold,
	}
	require.NoError(t, r.RecordTrend(ctx, first))

	r.now = func() time.Time { return base.Add(24 * time.Hour) }
	second := &model.TrendAnalysis{
		Symbol:       "AAPL",
		CurrentPrice: null.FloatFrom(180),
		SMA20:        null.FloatFrom(172.4),
		SMA50:        null.FloatFrom(169.9),
		Trend:        model.TrendBullish,
		Signal:       model.SignalBuy,
	}
	require.NoError(t, r.RecordTrend(ctx, second))
	require.NoError(t, r.RecordTrend(ctx, &model.TrendAnalysis{Symbol: "MSFT"}))

	rows, err := r.RecentTrends(ctx, "AAPL", 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	limited, err := r.RecentTrends(ctx, "AAPL", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "bullish", string(limited[0].Analysis.Trend))

	assert.Equal(t, base.Add(24*time.Hour), rows[0].RecordedAt)
	assert.Equal(t, *second, rows[0].Analysis)
	assert.Equal(t, *first, rows[1].Analysis)
	assert.False(t, rows[1].Analysis.SMA50.Valid, "missing stays NULL")
}

func TestSQLiteRecorder_KeyRatios(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, r.RecordKeyRatios(ctx, &model.KeyRatios{
		Symbol:                  "SPY",
		Price:                   null.FloatFrom(510),
		AnnualizedVolatilityPct: null.FloatFrom(13.2),
		TradingDays:             251,
	}))

	var (
		n   int
		vol null.Float
		ytd null.Float
	)
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM key_ratio_snapshots`).Scan(&n))
	require.NoError(t, r.db.QueryRow(`SELECT annualized_volatility_pct, ytd_return_pct FROM key_ratio_snapshots`).Scan(&vol, &ytd))
	assert.Equal(t, 1, n)
	assert.Equal(t, 13.2, vol.Float64)
	assert.False(t, ytd.Valid)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordTrend(context.Background(), &model.TrendAnalysis{}))
	assert.NoError(t, r.RecordKeyRatios(context.Background(), &model.KeyRatios{}))
	rows, err := r.RecentTrends(context.Background(), "AAPL", 5)
	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, r.Close())
}
