package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestFetch(t *testing.T) {
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	ctx := context.Background()

	if _, err := Fetch(ctx, fc, "absent"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Fetch(absent) error = %v, want ErrCacheMiss", err)
	}

	if err := fc.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, err := Fetch(ctx, fc, "k")
	if err != nil {
		t.Fatalf("Fetch(k) failed: %v", err)
	}
	if string(data) != "v" {
		t.Errorf("Fetch(k) = %q, want %q", data, "v")
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}

	base := errors.New("boom")
	wrapped := Retryable(base)
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable(Retryable(err)) = false")
	}
	if IsRetryable(base) {
		t.Error("IsRetryable(plain err) = true")
	}
	if !errors.Is(wrapped, base) {
		t.Error("Retryable loses the wrapped error")
	}
	if IsRetryable(fmt.Errorf("outer: %w", wrapped)) != true {
		t.Error("IsRetryable misses a nested RetryableError")
	}
}

func TestRetryWithBackoffNonRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return errors.New("permanent")
	})
	if err == nil {
		t.Fatal("RetryWithBackoff = nil, want the permanent error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 for a non-retryable error", calls)
	}
}

func TestRetryWithBackoffSuccess(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("RetryWithBackoff = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
