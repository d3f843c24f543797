package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Plan entries stay readable for dashboards over a full week of sessions
const planTTL = 7 * 24 * time.Hour

// RedisClient wraps redis.Client
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client. A failed connection returns nil:
// the cache is best-effort and the pipeline runs without it.
func NewRedisClient(host, port, password string) *RedisClient {
	addr := fmt.Sprintf("%s:%s", host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0, // use default DB
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️  Failed to connect to Redis at %s: %v", addr, err)
		return nil
	}

	log.Printf("✅ Connected to Redis at %s", addr)
	return &RedisClient{client: client}
}

// StorePlan caches the serialized execution plan under the run's trade date
func (r *RedisClient) StorePlan(ctx context.Context, tradeDate time.Time, plan interface{}) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	payload, err := json.Marshal(plan)
	if err != nil {
		return err
	}

	key := planKey(tradeDate)
	if err := r.client.Set(ctx, key, payload, planTTL).Err(); err != nil {
		return err
	}

	log.Printf("🧠 Cached plan under %s (%d bytes)", key, len(payload))
	return nil
}

// GetPlan loads a cached plan into dest; returns false when absent
func (r *RedisClient) GetPlan(ctx context.Context, tradeDate time.Time, dest interface{}) (bool, error) {
	if r == nil || r.client == nil {
		return false, fmt.Errorf("redis client not initialized")
	}

	payload, err := r.client.Get(ctx, planKey(tradeDate)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, json.Unmarshal(payload, dest)
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func planKey(tradeDate time.Time) string {
	return fmt.Sprintf("plan:%s", tradeDate.Format("2006-01-02"))
}
