package recorder

import (
	"context"

	"MarketLens/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrend(_ context.Context, _ *model.TrendAnalysis) error { return nil }
func (n *NoopRecorder) RecordKeyRatios(_ context.Context, _ *model.KeyRatios) error { return nil }
func (n *NoopRecorder) RecentTrends(_ context.Context, _ string, _ int) ([]model.TrendSnapshot, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
