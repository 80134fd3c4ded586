package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// PlayerRepository persists player records.
type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player domain.Player) (domain.Player, error)
}

// ResultRepository persists and queries final quiz results.
type ResultRepository interface {
	SaveResult(ctx context.Context, result domain.QuizResult) error
	TopResults(ctx context.Context, difficulty domain.Difficulty, limit int) ([]domain.QuizResult, error)
}

// LeaderboardCache is an optional fast path for leaderboard reads; writes to
// it are best-effort.
type LeaderboardCache interface {
	Record(ctx context.Context, result domain.QuizResult) error
}

const (
	leaderboardReadAttempts = 3
	leaderboardRetryDelay   = 2 * time.Second
)

// ResultService registers players, reports session outcomes and serves
// leaderboards.
type ResultService struct {
	players PlayerRepository
	results ResultRepository
	cache   LeaderboardCache

	retryDelay time.Duration
	now        func() time.Time
}

func NewResultService(players PlayerRepository, results ResultRepository, cache LeaderboardCache) *ResultService {
	return &ResultService{
		players:    players,
		results:    results,
		cache:      cache,
		retryDelay: leaderboardRetryDelay,
		now:        time.Now,
	}
}

// RegisterPlayers validates a roster (no blank names, no duplicates) and
// persists each player, returning them with durable ids.
func (s *ResultService) RegisterPlayers(ctx context.Context, roster []domain.Player) ([]domain.Player, error) {
	seen := make(map[string]struct{}, len(roster))
	for _, player := range roster {
		name := strings.TrimSpace(player.Name)
		if name == "" {
			return nil, domain.ErrBlankPlayerName
		}
		if _, dup := seen[name]; dup {
			return nil, domain.ErrDuplicatePlayerName
		}
		seen[name] = struct{}{}
	}

	out := make([]domain.Player, 0, len(roster))
	for _, player := range roster {
		player.Name = strings.TrimSpace(player.Name)
		created, err := s.players.CreatePlayer(ctx, player)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// Report persists one QuizResult per player. Players without a durable id
// are skipped silently; they were never persisted and have nothing to
// reference.
func (s *ResultService) Report(ctx context.Context, results []domain.QuizResult) error {
	for _, result := range results {
		if result.PlayerID == "" {
			continue
		}
		if err := s.results.SaveResult(ctx, result); err != nil {
			return err
		}
		if s.cache != nil {
			_ = s.cache.Record(ctx, result)
		}
	}
	return nil
}

// Leaderboard reads the top results for a difficulty and ranks them. The
// read is retried a bounded number of times with a fixed delay before the
// error surfaces.
func (s *ResultService) Leaderboard(ctx context.Context, difficulty domain.Difficulty, limit int) (domain.Leaderboard, error) {
	if limit <= 0 {
		limit = 10
	}

	var results []domain.QuizResult
	var err error
	for attempt := 0; attempt < leaderboardReadAttempts; attempt++ {
		results, err = s.results.TopResults(ctx, difficulty, limit)
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return domain.Leaderboard{}, ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return BuildLeaderboard(results, difficulty, s.now()), nil
}

// BuildLeaderboard orders results by score descending with a stable sort (no
// secondary key) and assigns ranks. Every entry sharing the top score is
// marked joint first when there is more than one of them.
func BuildLeaderboard(results []domain.QuizResult, difficulty domain.Difficulty, now time.Time) domain.Leaderboard {
	ordered := make([]domain.QuizResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	lb := domain.Leaderboard{
		Difficulty: difficulty,
		Entries:    make([]domain.LeaderboardEntry, 0, len(ordered)),
		UpdatedAt:  now,
	}
	if len(ordered) == 0 {
		return lb
	}
	topCount := 0
	for _, r := range ordered {
		if r.Score == ordered[0].Score {
			topCount++
		}
	}
	rank := 0
	for i, r := range ordered {
		if i > 0 && r.Score < ordered[i-1].Score {
			rank = i
		}
		lb.Entries = append(lb.Entries, domain.LeaderboardEntry{
			Rank:       rank,
			PlayerName: r.PlayerName,
			AvatarURL:  r.AvatarURL,
			Score:      r.Score,
			Total:      r.TotalQuestions,
			JointFirst: rank == 0 && topCount > 1,
		})
	}
	return lb
}
