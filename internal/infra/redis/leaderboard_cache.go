package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// LeaderboardCache mirrors best scores per difficulty in a Redis ZSET. It is
// a fast path for rank lookups; the relational store stays authoritative.
type LeaderboardCache struct {
	client *redis.Client
}

func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{client: client}
}

// Record keeps the player's highest score for the difficulty.
func (c *LeaderboardCache) Record(ctx context.Context, result domain.QuizResult) error {
	return c.client.ZAddGT(ctx, c.key(result.Difficulty), redis.Z{
		Score:  float64(result.Score),
		Member: result.PlayerID,
	}).Err()
}

// Rank returns the player's 1-indexed position for the difficulty, or -1
// when the player has no recorded score.
func (c *LeaderboardCache) Rank(ctx context.Context, difficulty domain.Difficulty, playerID string) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, c.key(difficulty), playerID).Result()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return rank + 1, nil
}

func (c *LeaderboardCache) key(difficulty domain.Difficulty) string {
	return "leaderboard:" + string(difficulty)
}
