package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/config"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/memory"
	pgstore "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/postgres"
	redisstore "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/redis"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/notify"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/questions"
	transport "github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/transport/http"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/worker"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var loader memory.QuestionLoader = memory.NewStaticQuestionLoader(questions.Bank())
	if pool != nil {
		loader = pgstore.NewQuestionLoader(pool)
	}

	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var questionRepo app.PoolRepository
	if redisClient != nil {
		questionRepo = redisstore.NewQuestionRepository(redisClient, loader, questionTTL)
	} else {
		questionRepo = memory.NewQuestionRepository(loader, questionTTL)
	}

	var players app.PlayerRepository
	var resultRepo app.ResultRepository
	if pool != nil {
		store := pgstore.NewResultStore(pool)
		players, resultRepo = store, store
	} else {
		store := memory.NewResultStore()
		players, resultRepo = store, store
	}

	var lbCache *redisstore.LeaderboardCache
	var cache app.LeaderboardCache
	if redisClient != nil {
		lbCache = redisstore.NewLeaderboardCache(redisClient)
		cache = lbCache
	}
	results := app.NewResultService(players, resultRepo, cache)

	quota := config.IntOr(cfg.Game.QuestionsPerPlayer, 10)
	questionTimer := config.TTLDuration(cfg.Game.QuestionTimer, 30*time.Second)
	games := app.NewGameService(memory.NewSessionStore(), questionRepo, results, quota, questionTimer)

	var roomRepo app.RoomRepository = memory.NewRoomStore()
	if redisClient != nil {
		roomRepo = redisstore.NewRoomStore(redisClient, redisTTL)
	}
	var archiver app.RoomArchiver = memory.NewNoopArchiver()
	if pool != nil {
		archiver = pgstore.NewRoomArchiver(pool)
	}
	rooms := app.NewRoomService(roomRepo, archiver, games, config.IntOr(cfg.Rooms.DefaultMaxPlayers, 4))

	mailer := notify.NewMailer(cfg.Mailer.Endpoint, cfg.Mailer.Token, logger)

	var ranks transport.RankCache
	if lbCache != nil {
		ranks = lbCache
	}
	rest := transport.NewRestHandler(rooms, games, results, ranks, mailer, logger)
	ws := transport.NewWSHandler(rooms, games, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(rest, ws),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if redisClient != nil {
		staleAfter := config.TTLDuration(cfg.Rooms.StaleAfter, 2*time.Hour)
		sweepEvery := config.TTLDuration(cfg.Rooms.SweepEvery, 5*time.Minute)
		sweeper, err := worker.NewSweeper(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, rooms, games, staleAfter, sweepEvery, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := sweeper.Run(runCtx); err != nil {
				logger.WithError(err).Error("sweeper stopped")
			}
		}()
	}

	go func() {
		logger.WithField("port", finalPort).Info("starting trivia service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
