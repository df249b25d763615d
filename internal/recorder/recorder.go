package recorder

import (
	"context"

	"MarketLens/internal/model"
)

// Recorder persists scan results for later analysis.
type Recorder interface {
	RecordTrend(ctx context.Context, ta *model.TrendAnalysis) error
	RecordKeyRatios(ctx context.Context, kr *model.KeyRatios) error
	// RecentTrends returns up to limit stored trends of symbol, newest first.
	RecentTrends(ctx context.Context, symbol string, limit int) ([]model.TrendSnapshot, error)
	Close() error
}
