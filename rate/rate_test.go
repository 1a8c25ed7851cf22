package rate

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interval := 10 * time.Millisecond
	r := NewLimiter(ctx, 1, time.Hour, Every(interval))

	tooshort := 1 * time.Millisecond

	client := "test@test.com"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := r.Check(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewLimiter(ctx, 2, time.Hour, Every(time.Hour))

	for i := 0; i < 2; i++ {
		if !r.Check("a@test.com") {
			t.Fatalf("attempt %d: expected a@test.com to be allowed", i)
		}
	}
	if r.Check("a@test.com") {
		t.Fatal("expected a@test.com to be throttled after its burst")
	}
	if !r.Check("b@test.com") {
		t.Fatal("expected b@test.com to be unaffected by a@test.com")
	}
}

func TestLimiterWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewLimiter(ctx, 1, time.Hour, Every(time.Hour))

	if err := r.Wait(ctx, "upstream"); err != nil {
		t.Fatalf("expected first wait to pass, got %v", err)
	}

	wctx, wcancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer wcancel()

	err := r.Wait(wctx, "upstream")
	if err == nil {
		t.Fatal("expected second wait to fail before the next token")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected cancellation: %v", err)
	}
}
