package services

import (
	"fmt"
	"strconv"

	"github.com/go-redis/redis"
)

// LikeCounter keeps a fast per-comment like tally next to the Like rows.
// Count reports ok=false for a comment the counter has never seen, so callers
// can fall back to counting rows.
type LikeCounter interface {
	Incr(commentID uint) (int64, error)
	Set(commentID uint, n int64) error
	Count(commentID uint) (n int64, ok bool, err error)
}

type RedisLikeCounter struct {
	client *redis.Client
}

// NewRedisLikeCounter connects to addr and pings it once.
func NewRedisLikeCounter(addr string) (*RedisLikeCounter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return &RedisLikeCounter{client: client}, nil
}

func likeKey(commentID uint) string {
	return "comment:" + strconv.FormatUint(uint64(commentID), 10) + ":likes"
}

func (r *RedisLikeCounter) Incr(commentID uint) (int64, error) {
	return r.client.Incr(likeKey(commentID)).Result()
}

func (r *RedisLikeCounter) Set(commentID uint, n int64) error {
	return r.client.Set(likeKey(commentID), n, 0).Err()
}

func (r *RedisLikeCounter) Count(commentID uint) (int64, bool, error) {
	n, err := r.client.Get(likeKey(commentID)).Int64()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (r *RedisLikeCounter) Close() error {
	return r.client.Close()
}

// NoopLikeCounter is used when no Redis address is configured. It never
// knows a count, so readers always use the database.
type NoopLikeCounter struct{}

func (NoopLikeCounter) Incr(uint) (int64, error)        { return 0, nil }
func (NoopLikeCounter) Set(uint, int64) error           { return nil }
func (NoopLikeCounter) Count(uint) (int64, bool, error) { return 0, false, nil }
