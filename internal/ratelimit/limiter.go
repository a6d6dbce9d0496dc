// Package ratelimit throttles inbound WebSocket wire events per socket
// (SPEC_FULL "supplemented features"). It mirrors the teacher's queue/redis
// client wrapper conventions, trading horizontal pub/sub for a plain
// fixed-window counter since this server never federates across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/classroomlive/server/config"
)

// Limiter decides whether an inbound event from socketID may proceed.
type Limiter interface {
	Allow(socketID string) bool
}

// New builds a Limiter from config: a Redis-backed fixed window when
// RedisConfig.Addr is set, otherwise an in-process one. The in-process
// fallback keeps the single-process Non-goal true by default.
func New(redisCfg config.RedisConfig, rl config.RateLimitConfig, logger *zap.Logger) Limiter {
	if redisCfg.Addr == "" {
		if logger != nil {
			logger.Info("rate limiter using in-process memory store")
		}
		return NewMemory(rl.Burst, time.Second)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	if logger != nil {
		logger.Info("rate limiter using redis store", zap.String("addr", redisCfg.Addr))
	}
	return &redisLimiter{
		client:   client,
		limit:    rl.Burst,
		window:   time.Second,
		logger:   logger,
		fallback: NewMemory(rl.Burst, time.Second),
	}
}

// redisLimiter implements a fixed-window counter: INCR a per-socket key,
// set its expiry on first increment, reject once the window's count
// exceeds limit.
type redisLimiter struct {
	client   *redis.Client
	limit    int
	window   time.Duration
	logger   *zap.Logger
	fallback *memoryLimiter
}

func (r *redisLimiter) Allow(socketID string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	key := "ratelimit:" + socketID
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("rate limiter redis unavailable, falling back to memory", zap.Error(err))
		}
		return r.fallback.Allow(socketID)
	}
	if count == 1 {
		_ = r.client.Expire(ctx, key, r.window).Err()
	}
	return int(count) <= r.limit
}

// memoryLimiter is a simple in-process fixed-window counter keyed by socket
// id: a socket's allowance resets to burst once refill has passed since its
// window opened.
type memoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	burst   int
	refill  time.Duration
}

type tokenBucket struct {
	tokens   int
	lastSeen time.Time
}

// NewMemory returns an in-process Limiter allowing up to burst events per
// refill window, per socket id.
func NewMemory(burst int, refill time.Duration) *memoryLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &memoryLimiter{buckets: make(map[string]*tokenBucket), burst: burst, refill: refill}
}

func (m *memoryLimiter) Allow(socketID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	b, ok := m.buckets[socketID]
	if !ok || now.Sub(b.lastSeen) >= m.refill {
		b = &tokenBucket{tokens: m.burst, lastSeen: now}
		m.buckets[socketID] = b
	}
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}
