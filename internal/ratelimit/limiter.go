package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter определяет контракт лимитера частоты срабатываний SOS
type Limiter interface {
	// Allow атомарно инкрементирует счетчик ключа и возвращает true,
	// если запрос укладывается в лимит окна
	Allow(ctx context.Context, key string) (bool, error)
}

const rateLimitKeyPrefix = "sos_rate:"

// RedisLimiter - лимитер с фиксированным окном поверх Redis (INCR + EXPIRE).
// Счетчик общий для всех инстансов сервиса.
type RedisLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
}

// NewRedisLimiter создает новый RedisLimiter
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redisClient: client,
		limit:       limit,
		window:      window,
	}
}

// Allow инкрементирует счетчик окна и проверяет лимит
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := rateLimitKeyPrefix + key

	count, err := l.redisClient.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter: %w", err)
	}

	// Первый запрос в окне задает срок жизни счетчика
	if count == 1 {
		if err := l.redisClient.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate counter expiry: %w", err)
		}
	}

	return count <= int64(l.limit), nil
}

// MemoryLimiter - лимитер со скользящим окном в памяти процесса.
// Используется, когда Redis не сконфигурирован.
type MemoryLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	hits   map[string][]time.Time
	now    func() time.Time
}

// NewMemoryLimiter создает новый MemoryLimiter
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[string][]time.Time),
		now:    time.Now,
	}
}

// Allow регистрирует запрос и проверяет лимит в скользящем окне
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.hits[key] = kept
		return false, nil
	}

	l.hits[key] = append(kept, now)
	return true, nil
}
