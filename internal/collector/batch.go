package collector

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one symbol in ForEachSymbol.
type Result[T any] struct {
	Symbol string
	Value  T
	Err    error
}

// ForEachSymbol calls fn once per symbol with at most limit calls in flight
// and returns the results in input order. A failing symbol does not cancel
// the others. limit <= 0 means unbounded.
func ForEachSymbol[T any](ctx context.Context, symbols []string, limit int, fn func(ctx context.Context, symbol string) (T, error)) []Result[T] {
	results := make([]Result[T], len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sym := range symbols {
		g.Go(func() error {
			v, err := fn(gctx, sym)
			results[i] = Result[T]{Symbol: sym, Value: v, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
