package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/memory"
	pgstore "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/postgres"
	pgmigrations "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/postgres/migrations"
	infraredis "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/redis"
)

func TestRoomGameEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL, sampleQuestions(12))

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgstore.NewQuestionLoader(pool)
	questionRepo := infraredis.NewQuestionRepository(redisClient, loader, 5*time.Minute)
	resultStore := pgstore.NewResultStore(pool)
	rankCache := infraredis.NewLeaderboardCache(redisClient)
	results := app.NewResultService(resultStore, resultStore, rankCache)
	games := app.NewGameService(memory.NewSessionStore(), questionRepo, results, 3, 0)
	rooms := app.NewRoomService(
		infraredis.NewRoomStore(redisClient, 5*time.Minute),
		pgstore.NewRoomArchiver(pool),
		games, 4)

	// Users register before playing; the durable id is what rooms refer to.
	registered, err := results.RegisterPlayers(ctx, []domain.Player{
		{ID: "u-owner", Name: "لوفي"},
		{ID: "u-guest", Name: "زورو"},
	})
	if err != nil {
		t.Fatalf("register players: %v", err)
	}
	owner, guest := registered[0], registered[1]

	snap, err := rooms.Create(ctx, "غرفة القبعة", domain.DifficultyEasy, 4, owner)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	roomID := snap.Room.ID

	if _, err := rooms.Join(ctx, roomID, guest); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := rooms.ToggleReady(ctx, roomID, owner.ID); err != nil {
		t.Fatalf("ready owner: %v", err)
	}
	if _, err := rooms.ToggleReady(ctx, roomID, guest.ID); err != nil {
		t.Fatalf("ready guest: %v", err)
	}

	session, err := rooms.Start(ctx, roomID, owner.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 50 && !session.Over(); i++ {
		view := session.View()
		if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if !session.Over() {
		t.Fatal("session never finished")
	}

	after, err := rooms.Snapshot(roomID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if after.Room.Status != domain.RoomFinished {
		t.Fatalf("expected finished room, got %q", after.Room.Status)
	}

	// Results landed in Postgres and the leaderboard reads them back.
	lb, err := results.Leaderboard(ctx, domain.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected 2 leaderboard entries, got %+v", lb.Entries)
	}
	for _, entry := range lb.Entries {
		if entry.Score != 3 || entry.Total != 3 {
			t.Fatalf("expected perfect 3/3 scores, got %+v", entry)
		}
		if !entry.JointFirst {
			t.Fatalf("tied winners must be joint first: %+v", entry)
		}
	}

	// The Redis ZSET mirrors the scores for rank lookups.
	rank, err := rankCache.Rank(ctx, domain.DifficultyEasy, owner.ID)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if rank < 1 || rank > 2 {
		t.Fatalf("expected owner ranked 1 or 2, got %d", rank)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuestions(t *testing.T, ctx context.Context, dsn string, questions []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			t.Fatalf("marshal options: %v", err)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO questions (id, prompt, image_url, options, answer, difficulty, hint)
			 VALUES (?, ?, ?, ?::jsonb, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
			q.ID, q.Prompt, q.ImageURL, string(options), q.Answer, string(q.Difficulty), q.Hint)
		if err != nil {
			t.Fatalf("insert question: %v", err)
		}
	}
}

func sampleQuestions(n int) []domain.Question {
	out := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Question{
			ID:         fmt.Sprintf("q-%02d", i),
			Prompt:     "من هو قائد قراصنة قبعة القش؟",
			Options:    []string{"زورو", "لوفي", "سانجي", "نامي"},
			Answer:     1,
			Difficulty: domain.DifficultyEasy,
			Hint:       "صاحب القبعة",
		})
	}
	return out
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
