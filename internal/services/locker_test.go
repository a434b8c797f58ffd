package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryLockerExcludesUntilUnlock(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	token, acquired, err := locker.TryLock(ctx, "k", time.Minute)
	if err != nil || !acquired || token == "" {
		t.Fatalf("first TryLock() = (%q, %v, %v), want token, true, nil", token, acquired, err)
	}
	if _, acquired, _ := locker.TryLock(ctx, "k", time.Minute); acquired {
		t.Fatal("expected second TryLock() to fail while held")
	}

	if err := locker.Unlock(ctx, "k", token); err != nil {
		t.Fatalf("Unlock() unexpected error: %v", err)
	}
	if _, acquired, _ := locker.TryLock(ctx, "k", time.Minute); !acquired {
		t.Fatal("expected TryLock() after Unlock() to succeed")
	}
}

func TestMemoryLockerExpires(t *testing.T) {
	locker := NewMemoryLocker()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return now }

	if _, acquired, _ := locker.TryLock(context.Background(), "k", time.Second); !acquired {
		t.Fatal("expected first TryLock() to succeed")
	}
	now = now.Add(2 * time.Second)
	if _, acquired, _ := locker.TryLock(context.Background(), "k", time.Second); !acquired {
		t.Fatal("expected expired lock to be reacquired")
	}
}

func TestMemoryLockerStaleTokenKeepsNewHolder(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	locker.now = func() time.Time { return now }

	staleToken, acquired, _ := locker.TryLock(ctx, "k", time.Second)
	if !acquired {
		t.Fatal("expected first TryLock() to succeed")
	}
	now = now.Add(2 * time.Second)
	currentToken, acquired, _ := locker.TryLock(ctx, "k", time.Minute)
	if !acquired {
		t.Fatal("expected expired lock to be reacquired")
	}
	if currentToken == staleToken {
		t.Fatal("expected a fresh token for the new holder")
	}

	if err := locker.Unlock(ctx, "k", staleToken); err != nil {
		t.Fatalf("Unlock() unexpected error: %v", err)
	}
	if _, acquired, _ := locker.TryLock(ctx, "k", time.Minute); acquired {
		t.Fatal("expected stale Unlock() to leave the new holder in place")
	}

	if err := locker.Unlock(ctx, "k", currentToken); err != nil {
		t.Fatalf("Unlock() unexpected error: %v", err)
	}
	if _, acquired, _ := locker.TryLock(ctx, "k", time.Minute); !acquired {
		t.Fatal("expected TryLock() after holder Unlock() to succeed")
	}
}

func TestWithLockReleasesAfterRun(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()
	boom := errors.New("boom")

	if err := withLock(ctx, locker, "k", time.Minute, func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, acquired, _ := locker.TryLock(ctx, "k", time.Minute); !acquired {
		t.Fatal("expected lock released after withLock()")
	}
	if err := withLock(ctx, locker, "k", time.Minute, func() error { return nil }); !errors.Is(err, ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}
}

func TestRedisLockKeyIsNamespaced(t *testing.T) {
	if got := redisLockKey("onboarding:complete:7"); got != "saludboard:lock:onboarding:complete:7" {
		t.Fatalf("unexpected redis key %q", got)
	}
}
