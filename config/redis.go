package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis returns a client for REDIS_URL, or nil when unset or
// unreachable. The catalog cache degrades to direct DB reads without it.
func ConnectRedis() *redis.Client {
	raw := strings.TrimSpace(os.Getenv("REDIS_URL"))
	if raw == "" {
		log.Println("REDIS_URL not set; catalog caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(raw)
	if err != nil {
		log.Printf("warning: invalid REDIS_URL, caching disabled: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis unreachable, caching disabled: %v", err)
		_ = client.Close()
		return nil
	}
	return client
}
