package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/config"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/questions"
)

// NewSeedCmd loads the built-in question bank into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the question bank into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	seeded := 0
	for _, q := range questions.Bank() {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return err
		}
		tag, err := pool.Exec(ctx,
			`INSERT INTO questions (id, prompt, image_url, options, answer, difficulty, hint)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Prompt, q.ImageURL, options, q.Answer, q.Difficulty, q.Hint)
		if err != nil {
			return fmt.Errorf("seed question %s: %w", q.ID, err)
		}
		seeded += int(tag.RowsAffected())
	}
	logrus.WithField("questions", seeded).Info("question bank seeded")
	return nil
}
