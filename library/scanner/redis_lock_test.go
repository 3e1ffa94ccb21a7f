package scanner_test

import (
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/scanner"
)

func Test_RedisLock_IsExclusiveUntilReleased(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL is not set")
	}

	// arrange
	ctx := t.Context()
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	defer client.Close()

	key := "library-lending:test-lock:" + time.Now().Format(time.RFC3339Nano)
	first := scanner.NewRedisLock(client, key, time.Minute)
	second := scanner.NewRedisLock(client, key, time.Minute)

	// act
	release, acquired, err := first.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	_, acquiredWhileHeld, err := second.TryLock(ctx)
	require.NoError(t, err)

	require.NoError(t, release(ctx))
	_, acquiredAfterRelease, err := second.TryLock(ctx)

	// assert
	require.NoError(t, err)
	assert.False(t, acquiredWhileHeld)
	assert.True(t, acquiredAfterRelease)
	client.Del(ctx, key)
}
