package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// ResultStore persists players and quiz results in Postgres. It implements
// app.PlayerRepository and app.ResultRepository.
type ResultStore struct {
	pool *pgxpool.Pool
}

func NewResultStore(pool *pgxpool.Pool) *ResultStore {
	return &ResultStore{pool: pool}
}

func (s *ResultStore) CreatePlayer(ctx context.Context, player domain.Player) (domain.Player, error) {
	if player.ID == "" {
		player.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO players (id, name, avatar_url) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url`,
		player.ID, player.Name, player.AvatarURL)
	if err != nil {
		return domain.Player{}, fmt.Errorf("create player: %w", err)
	}
	return player, nil
}

func (s *ResultStore) SaveResult(ctx context.Context, result domain.QuizResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO quiz_results (id, player_id, score, total_questions, difficulty, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		result.ID, result.PlayerID, result.Score, result.TotalQuestions, result.Difficulty, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *ResultStore) TopResults(ctx context.Context, difficulty domain.Difficulty, limit int) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT r.id, r.player_id, p.name, p.avatar_url, r.score, r.total_questions, r.difficulty, r.created_at
		 FROM quiz_results r
		 JOIN players p ON p.id = r.player_id
		 WHERE ($1 = '' OR r.difficulty = $1)
		 ORDER BY r.score DESC, r.created_at ASC
		 LIMIT $2`,
		string(difficulty), limit)
	if err != nil {
		return nil, fmt.Errorf("top results: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizResult
	for rows.Next() {
		var r domain.QuizResult
		if err := rows.Scan(&r.ID, &r.PlayerID, &r.PlayerName, &r.AvatarURL, &r.Score, &r.TotalQuestions, &r.Difficulty, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
