package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemNS       = "stadium:v1:idem"
	lockValue    = "LOCK"
	resultPrefix = "RES:"
)

// KeyCreateBooking ключ идемпотентности создания брони, разный у разных пользователей
func KeyCreateBooking(userID int64, idemKey string) string {
	return fmt.Sprintf("%s:bookings:%d:%s", idemNS, userID, idemKey)
}

// IdempotencyStore хранит ответы уже выполненных запросов.
// Значение ключа либо LOCK (запрос выполняется), либо RES:<json> (готовый ответ).
type IdempotencyStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewIdempotencyStore создает хранилище, ttl задает время жизни сохраненного ответа
func NewIdempotencyStore(rdb redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// AcquireLock занимает ключ на время выполнения запроса, false если ключ уже занят
func (s *IdempotencyStore) AcquireLock(ctx context.Context, key string, lockTTL time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, lockValue, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("%w: SetNX: %w", ErrUnavailable, err)
	}
	return ok, nil
}

// SaveResult заменяет блокировку готовым ответом
func (s *IdempotencyStore) SaveResult(ctx context.Context, key string, payload []byte) error {
	if err := s.rdb.Set(ctx, key, resultPrefix+string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Set: %w", ErrUnavailable, err)
	}
	return nil
}

// GetResult возвращает сохраненный ответ, false если его нет или запрос еще выполняется
func (s *IdempotencyStore) GetResult(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: Get: %w", ErrUnavailable, err)
	}

	payload, ok := strings.CutPrefix(v, resultPrefix)
	if !ok {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// Release освобождает ключ после неуспешного запроса
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: Del: %w", ErrUnavailable, err)
	}
	return nil
}
