package scanner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockKey = "library-lending:overdue-sweep"
	defaultLockTTL = 5 * time.Minute
)

// deletes the key only if it still holds our token, an expired and re-acquired lock stays untouched
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a SweepLock on a single Redis key with an expiry.
type RedisLock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLock creates a RedisLock, empty key and zero ttl select the defaults.
func NewRedisLock(client *redis.Client, key string, ttl time.Duration) *RedisLock {
	if key == "" {
		key = defaultLockKey
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &RedisLock{client: client, key: key, ttl: ttl}
}

// TryLock sets the key if it does not exist.
func (l *RedisLock) TryLock(ctx context.Context) (func(context.Context) error, bool, error) {
	token := uuid.NewString()

	acquired, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil || !acquired {
		return nil, false, err
	}

	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{l.key}, token).Err()
	}

	return release, true, nil
}
