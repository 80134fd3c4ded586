package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// ResultStore keeps players and quiz results in memory. It implements both
// app.PlayerRepository and app.ResultRepository and backs database-less runs.
type ResultStore struct {
	mu      sync.RWMutex
	players map[string]domain.Player
	results []domain.QuizResult
}

func NewResultStore() *ResultStore {
	return &ResultStore{
		players: make(map[string]domain.Player),
	}
}

func (s *ResultStore) CreatePlayer(_ context.Context, player domain.Player) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	s.players[player.ID] = player
	return player, nil
}

func (s *ResultStore) SaveResult(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	s.results = append(s.results, result)
	return nil
}

func (s *ResultStore) TopResults(_ context.Context, difficulty domain.Difficulty, limit int) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.QuizResult, 0, len(s.results))
	for _, r := range s.results {
		if difficulty != "" && r.Difficulty != difficulty {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
