package strategy

import (
	"context"
	"errors"
	"testing"
)

func TestFirstReturnsWinningStrategy(t *testing.T) {
	fail := errors.New("nope")
	res, err := First(context.Background(), []Strategy[string]{
		{Name: "a", Run: func(context.Context) (string, error) { return "", fail }},
		{Name: "b", Run: func(context.Context) (string, error) { return "won", nil }},
		{Name: "c", Run: func(context.Context) (string, error) { t.Fatal("c must not run"); return "", nil }},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Value != "won" || res.Strategy != "b" || res.Attempts != 2 {
		t.Errorf("got %+v, want value=won strategy=b attempts=2", res)
	}
}

func TestFirstExhausted(t *testing.T) {
	fail := errors.New("nope")
	_, err := First(context.Background(), []Strategy[int]{
		{Name: "a", Run: func(context.Context) (int, error) { return 0, fail }},
		{Name: "b", Run: func(context.Context) (int, error) { return 0, fail }},
	})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("want ErrExhausted, got %v", err)
	}
}

func TestFirstHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := First(ctx, []Strategy[int]{
		{Name: "a", Run: func(context.Context) (int, error) { t.Fatal("must not run"); return 0, nil }},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
