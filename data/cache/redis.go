package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mfarghaly/egx_dashboard_api/config"
	"github.com/mfarghaly/egx_dashboard_api/internal/model"
	"github.com/mfarghaly/egx_dashboard_api/utils"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisCache struct {
	redis *redis.Client
	cfg   *config.Config
}

func NewRedisCache(redisClient *redis.Client, cfg *config.Config) *RedisCache {
	return &RedisCache{redis: redisClient, cfg: cfg}
}

func quoteKey(stockID int64) string {
	return fmt.Sprintf("quote:%d", stockID)
}

func summaryKey(strategyID int64) string {
	return fmt.Sprintf("strategy_summary:%d", strategyID)
}

func (r *RedisCache) SetQuotes(ctx context.Context, stocks []model.Stock) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetQuotes"

	slog.Debug("SetQuotes start", slog.String("rqID", rqID), slog.String("op", op), slog.Int("count", len(stocks)))

	pipe := r.redis.Pipeline()
	for _, stock := range stocks {
		stockJson, err := json.Marshal(stock)
		if err != nil {
			slog.Error("can't marshal stock in SetQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return errors.New("can't marshal stock")
		}

		pipe.Set(ctx, quoteKey(stock.StockID), stockJson, r.cfg.Cache.QuotesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetQuotes completed", slog.String("rqID", rqID), slog.String("op", op))

	return nil
}

func (r *RedisCache) GetQuote(ctx context.Context, stockID int64) (model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetQuote"

	res, err := r.redis.Get(ctx, quoteKey(stockID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Stock{}, ErrCacheMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, err
	}

	stock := model.Stock{}
	if err := json.Unmarshal([]byte(res), &stock); err != nil {
		slog.Error("can't unmarshal stock in GetQuote", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Stock{}, errors.New("can't unmarshal stock")
	}

	return stock, nil
}

// GetQuotes returns ErrCacheMiss when any requested stock is absent, so the
// caller falls back to a fresh feed snapshot for the whole set.
func (r *RedisCache) GetQuotes(ctx context.Context, stockIDs []int64) (map[int64]model.Stock, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetQuotes"

	if len(stockIDs) == 0 {
		return map[int64]model.Stock{}, nil
	}

	keys := make([]string, 0, len(stockIDs))
	for _, id := range stockIDs {
		keys = append(keys, quoteKey(id))
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Error("failed on redis.MGet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	stocks := make(map[int64]model.Stock, len(stockIDs))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, ErrCacheMiss
		}

		stock := model.Stock{}
		if err := json.Unmarshal([]byte(raw), &stock); err != nil {
			slog.Error("can't unmarshal stock in GetQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, errors.New("can't unmarshal stock")
		}
		stocks[stockIDs[i]] = stock
	}

	return stocks, nil
}

func (r *RedisCache) SetStrategySummary(ctx context.Context, strategyID int64, summary model.StrategySummary) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.SetStrategySummary"

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		slog.Error("can't marshal summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return errors.New("can't marshal summary")
	}

	err = r.redis.Set(ctx, summaryKey(strategyID), summaryJson, r.cfg.Cache.SummaryExpiration).Err()
	if err != nil {
		slog.Error("failed on redis.Set", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}

func (r *RedisCache) GetStrategySummary(ctx context.Context, strategyID int64) (model.StrategySummary, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.GetStrategySummary"

	res, err := r.redis.Get(ctx, summaryKey(strategyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.StrategySummary{}, ErrCacheMiss
		}
		slog.Error("failed on redis.Get", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StrategySummary{}, err
	}

	summary := model.StrategySummary{}
	if err := json.Unmarshal([]byte(res), &summary); err != nil {
		slog.Error("can't unmarshal summary", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.StrategySummary{}, errors.New("can't unmarshal summary")
	}

	return summary, nil
}

func (r *RedisCache) FlushStrategyCache(ctx context.Context, strategyID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "RedisCache.FlushStrategyCache"

	err := r.redis.Del(ctx, summaryKey(strategyID)).Err()
	if err != nil {
		slog.Error("failed on redis.Del", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}
