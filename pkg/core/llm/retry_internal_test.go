package llm

import (
	"context"
	"testing"
	"time"

	"github.com/easyops/tokengate/pkg/core/errors"
)

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_RetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.ErrRateLimited
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return errors.ErrInvalidAPIKey
	})
	if !errors.Is(err, errors.ErrInvalidAPIKey) {
		t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return errors.ErrProviderUnavailable
	})
	if !errors.Is(err, errors.ErrProviderUnavailable) {
		t.Fatalf("expected last error, got %v", err)
	}
	// maxRetries=2 means 1 initial attempt + 2 retries
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetry_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry(ctx, 3, time.Millisecond, func() error {
		t.Fatal("function must not run on canceled context")
		return nil
	})
	if !errors.Is(err, errors.ErrContextCanceled) {
		t.Fatalf("expected ErrContextCanceled, got %v", err)
	}
}

func TestCalculateBackoff_Exponential(t *testing.T) {
	base := 100 * time.Millisecond

	first := calculateBackoff(0, base)
	second := calculateBackoff(1, base)
	third := calculateBackoff(2, base)

	if second <= first {
		t.Fatalf("expected growing delays: %s then %s", first, second)
	}
	if third <= second {
		t.Fatalf("expected growing delays: %s then %s", second, third)
	}
}

func TestCalculateBackoff_CappedAt30s(t *testing.T) {
	if got := calculateBackoff(20, time.Second); got != 30*time.Second {
		t.Fatalf("expected cap at 30s, got %s", got)
	}
}
