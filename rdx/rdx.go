package rdx

import (
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"zaika/globals"
)

var Conn *redis.Client

func init() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"), // Empty if no password
		DB:       0,                           // Default DB
	})
}

func RdxSet(key, value string) error {
	return Conn.Set(globals.Ctx, key, value, 0).Err()
}

func SetWithExpiry(key, value string, ttl time.Duration) error {
	return Conn.Set(globals.Ctx, key, value, ttl).Err()
}

func RdxGet(key string) (string, error) {
	return Conn.Get(globals.Ctx, key).Result()
}

func RdxDel(key string) error {
	return Conn.Del(globals.Ctx, key).Err()
}

func RdxHset(hash, field, value string) error {
	return Conn.HSet(globals.Ctx, hash, field, value).Err()
}

func RdxHget(hash, field string) (string, error) {
	return Conn.HGet(globals.Ctx, hash, field).Result()
}

func RdxHdel(hash, field string) error {
	return Conn.HDel(globals.Ctx, hash, field).Err()
}

// IncrementViewCount bumps the view counter for a product. Failures only log;
// a missed count never breaks a catalog read.
func IncrementViewCount(productID string) {
	if err := Conn.Incr(globals.Ctx, "views:product:"+productID).Err(); err != nil {
		log.Printf("Failed to increment view count for %s: %v", productID, err)
	}
}

// GetViewCount returns the current view counter for a product, 0 when unset.
func GetViewCount(productID string) int64 {
	n, err := Conn.Get(globals.Ctx, "views:product:"+productID).Int64()
	if err != nil {
		return 0
	}
	return n
}
