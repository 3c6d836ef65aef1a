// Package lock serializes rebalance execution per strategy. Calculate and
// execute are separate calls with a read-then-act window, so two concurrent
// executes could double-spend the strategy's remaining cash without this.
package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

var ErrAlreadyLocked = errors.New("strategy is locked by another rebalance")

// release only deletes the key when it still holds our token, so an
// expired lock taken over by another caller is never removed by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLock struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisLock(redisClient *redis.Client, cfg *config.Config) *RedisLock {
	return &RedisLock{redis: redisClient, cfg: cfg}
}

func lockKey(strategyID int64) string {
	return fmt.Sprintf("rebalance_lock:%d", strategyID)
}

// Acquire takes the per-strategy lock and returns a release token.
// ErrAlreadyLocked means another rebalance is in flight: retryable.
func (l *RedisLock) Acquire(ctx context.Context, strategyID int64) (token string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisLock.Acquire"

	token = uuid.NewString()

	ok, err := l.redis.SetNX(ctx, lockKey(strategyID), token, l.cfg.Rebalance.LockExpiration).Result()
	if err != nil {
		slog.Error("failed on redis.SetNX", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", err
	}

	if !ok {
		return "", ErrAlreadyLocked
	}

	return token, nil
}

func (l *RedisLock) Release(ctx context.Context, strategyID int64, token string) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisLock.Release"

	err := releaseScript.Run(ctx, l.redis, []string{lockKey(strategyID)}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Error("failed on releaseScript.Run", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}
