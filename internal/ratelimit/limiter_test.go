package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/classroomlive/server/config"
)

func TestMemoryLimiter_AllowsUpToBurstThenRejects(t *testing.T) {
	l := NewMemory(3, time.Minute)
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("socket-1"))
	}
	assert.False(t, l.Allow("socket-1"))
}

func TestMemoryLimiter_RefillsAfterWindow(t *testing.T) {
	l := NewMemory(1, 10*time.Millisecond)
	assert.True(t, l.Allow("socket-1"))
	assert.False(t, l.Allow("socket-1"))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, l.Allow("socket-1"))
}

func TestMemoryLimiter_TracksSocketsIndependently(t *testing.T) {
	l := NewMemory(1, time.Minute)
	assert.True(t, l.Allow("socket-1"))
	assert.True(t, l.Allow("socket-2"))
	assert.False(t, l.Allow("socket-1"))
}

func TestNew_FallsBackToMemoryWhenRedisAddrEmpty(t *testing.T) {
	lim := New(config.RedisConfig{}, config.RateLimitConfig{Burst: 2}, zap.NewNop())
	_, ok := lim.(*memoryLimiter)
	assert.True(t, ok)
}

func TestRedisLimiter_FixedWindow(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rl := &redisLimiter{client: client, limit: 2, window: time.Minute, fallback: NewMemory(2, time.Minute)}

	assert.True(t, rl.Allow("socket-1"))
	assert.True(t, rl.Allow("socket-1"))
	assert.False(t, rl.Allow("socket-1"))
}
