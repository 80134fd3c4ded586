package questions

import (
	"math/rand"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// Ratio of easy and hard items mixed into a medium selection, as a share of
// the requested count.
const (
	mediumEasyShare = 0.3
	mediumHardShare = 0.2
)

// Select draws count questions from pool for the given difficulty, freshly
// shuffled on every call.
//
// Easy and hard draw only from their own band. Medium unions easy items
// truncated to 30% of count, every medium item, and hard items truncated to
// 20% of count, then shuffles the union and truncates to count.
//
// If the filtered pool is smaller than count the result is shorter than
// requested; callers must check the length and shrink their quota (see
// ReduceQuota).
func Select(r *rand.Rand, pool []domain.Question, difficulty domain.Difficulty, count int) []domain.Question {
	switch difficulty {
	case domain.DifficultyEasy, domain.DifficultyHard:
		return Sample(r, filter(pool, difficulty), count)
	default:
		easy := Sample(r, filter(pool, domain.DifficultyEasy), int(float64(count)*mediumEasyShare))
		hard := Sample(r, filter(pool, domain.DifficultyHard), int(float64(count)*mediumHardShare))
		mixed := append(append(filter(pool, domain.DifficultyMedium), easy...), hard...)
		return Sample(r, mixed, count)
	}
}

// ReduceQuota shrinks the per-player question quota so that
// players*quota never exceeds the available pool.
func ReduceQuota(quota, players, poolSize int) int {
	if players <= 0 {
		return quota
	}
	for quota > 1 && players*quota > poolSize {
		quota--
	}
	return quota
}

func filter(pool []domain.Question, difficulty domain.Difficulty) []domain.Question {
	out := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}
