package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("lock not acquired")

// Locker guards work that must not run twice for the same key, such as an
// onboarding submission. TryLock hands out a token identifying the holder;
// Unlock releases the key only while that token still holds it.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, acquired bool, err error)
	Unlock(ctx context.Context, key string, token string) error
}

type memoryLease struct {
	token     string
	expiresAt time.Time
}

type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]memoryLease
	now  func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]memoryLease),
		now:  time.Now,
	}
}

func (locker *MemoryLocker) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	locker.mu.Lock()
	defer locker.mu.Unlock()

	now := locker.now()
	if lease, ok := locker.held[key]; ok && now.Before(lease.expiresAt) {
		return "", false, nil
	}
	token := uuid.NewString()
	locker.held[key] = memoryLease{token: token, expiresAt: now.Add(ttl)}
	return token, true, nil
}

func (locker *MemoryLocker) Unlock(_ context.Context, key string, token string) error {
	locker.mu.Lock()
	defer locker.mu.Unlock()
	if lease, ok := locker.held[key]; ok && lease.token == token {
		delete(locker.held, key)
	}
	return nil
}

const redisLockPrefix = "saludboard:lock"

// Only the holder's token may release a lock; an expired lock taken over by
// another holder is left alone.
var redisUnlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{client: client}
}

func redisLockKey(key string) string {
	return redisLockPrefix + ":" + key
}

func (locker *RedisLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	acquired, err := locker.client.SetNX(ctx, redisLockKey(key), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !acquired {
		return "", false, nil
	}
	return token, true, nil
}

func (locker *RedisLocker) Unlock(ctx context.Context, key string, token string) error {
	if token == "" {
		return nil
	}
	return redisUnlockScript.Run(ctx, locker.client, []string{redisLockKey(key)}, token).Err()
}

// withLock runs fn while holding key, failing fast with ErrLockNotAcquired
// when someone else holds it.
func withLock(ctx context.Context, locker Locker, key string, ttl time.Duration, fn func() error) error {
	token, acquired, err := locker.TryLock(ctx, key, ttl)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrLockNotAcquired
	}
	defer func() {
		_ = locker.Unlock(context.WithoutCancel(ctx), key, token)
	}()
	return fn()
}
