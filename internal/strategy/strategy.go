// Package strategy provides an ordered fallback combinator: a list of
// named strategies tried in order until one succeeds. The same pattern
// recurs across OCR configurations, date-format parsing, and dashboard
// interaction, so it lives here once.
package strategy

import (
	"context"
	"errors"
	"fmt"
)

// ErrExhausted is returned when every strategy failed.
var ErrExhausted = errors.New("all strategies exhausted")

// Strategy is one attempt in an ordered fallback chain.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Result carries the winning value and which strategy produced it.
type Result[T any] struct {
	Value    T
	Strategy string
	Attempts int
}

// First runs strategies in order and returns the first success. On total
// failure the returned error wraps ErrExhausted and the last attempt error.
func First[T any](ctx context.Context, strategies []Strategy[T]) (Result[T], error) {
	var lastErr error
	for i, s := range strategies {
		if err := ctx.Err(); err != nil {
			return Result[T]{Attempts: i}, err
		}
		v, err := s.Run(ctx)
		if err == nil {
			return Result[T]{Value: v, Strategy: s.Name, Attempts: i + 1}, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		return Result[T]{}, ErrExhausted
	}
	return Result[T]{Attempts: len(strategies)}, fmt.Errorf("%w: last: %v", ErrExhausted, lastErr)
}
