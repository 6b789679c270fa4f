package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const presenceKey = "presence:last_seen"

// RedisPresenceRepository держит отметки в sorted set:
// member — Telegram ID, score — unix-время последней активности.
// Сортировка по last_seen достаётся бесплатно.
type RedisPresenceRepository struct {
	client *redis.Client
}

func NewRedisPresenceRepository(client *redis.Client) *RedisPresenceRepository {
	return &RedisPresenceRepository{client: client}
}

func (r *RedisPresenceRepository) Touch(ctx context.Context, tgID int64, at time.Time) error {
	return r.client.ZAdd(ctx, presenceKey, redis.Z{
		Score:  float64(at.Unix()),
		Member: presenceMember(tgID),
	}).Err()
}

func (r *RedisPresenceRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.client.ZRemRangeByScore(ctx, presenceKey, "-inf", exclusiveMaxScore(cutoff)).Result()
}

func presenceMember(tgID int64) string {
	return strconv.FormatInt(tgID, 10)
}

// exclusiveMaxScore строит верхнюю границу ZREMRANGEBYSCORE:
// "(" делает её строгой, удаляется только score < cutoff.
func exclusiveMaxScore(cutoff time.Time) string {
	return "(" + strconv.FormatInt(cutoff.Unix(), 10)
}
