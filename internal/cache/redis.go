package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/booklytrip/booking/config"
	"github.com/booklytrip/booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	rulesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, rulesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		rulesTTL: rulesTTL,
	}
}

func (c *RedisCache) GetMarkups(ctx context.Context, project string) ([]domain.Markup, error) {
	data, err := c.client.Get(ctx, markupsKey(project)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var rules []domain.Markup
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (c *RedisCache) SetMarkups(ctx context.Context, project string, rules []domain.Markup) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, markupsKey(project), payload, c.rulesTTL).Err()
}

func (c *RedisCache) InvalidateMarkups(ctx context.Context, project string) error {
	return c.client.Del(ctx, markupsKey(project)).Err()
}

// AcquirePNRLease takes the per-PNR reconciliation lease. Callback processing
// for one booking must be serialized, so only one holder at a time.
func (c *RedisCache) AcquirePNRLease(ctx context.Context, pnr string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, pnrLeaseKey(pnr), "locked", ttl).Result()
}

func (c *RedisCache) ReleasePNRLease(ctx context.Context, pnr string) error {
	return c.client.Del(ctx, pnrLeaseKey(pnr)).Err()
}

func markupsKey(project string) string {
	return fmt.Sprintf("cache:markups:%s", project)
}

func pnrLeaseKey(pnr string) string {
	return fmt.Sprintf("lease:pnr:%s", pnr)
}
