package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/jhoicas/Farmacia-api/internal/application/ports"
)

const keyPrefix = "farmacia:idem:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore reserva llaves con SETNX + TTL.
type IdempotencyStore struct {
	rdb goredis.UniversalClient
}

// NewIdempotencyStore construye el store sobre un cliente (simple o cluster).
func NewIdempotencyStore(rdb goredis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reservar llave de idempotencia: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar llave de idempotencia: %w", err)
	}
	return nil
}
