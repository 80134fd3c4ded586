package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
)

// TypeRoomSweep is the periodic task that expires stale rooms and prunes
// finished game sessions.
const TypeRoomSweep = "rooms:sweep"

// Sweeper runs the background maintenance loop over Redis via asynq.
type Sweeper struct {
	server     *asynq.Server
	scheduler  *asynq.Scheduler
	rooms      *app.RoomService
	games      *app.GameService
	staleAfter time.Duration
	log        *logrus.Entry
}

func NewSweeper(redisOpt asynq.RedisClientOpt, rooms *app.RoomService, games *app.GameService, staleAfter, every time.Duration, logger *logrus.Logger) (*Sweeper, error) {
	log := logger.WithField("component", "sweeper")

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.WithError(err).WithField("task_type", task.Type()).Warn("sweep task failed")
		}),
	})

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})
	if _, err := scheduler.Register(fmt.Sprintf("@every %s", every), asynq.NewTask(TypeRoomSweep, nil)); err != nil {
		return nil, fmt.Errorf("register sweep schedule: %w", err)
	}

	return &Sweeper{
		server:     server,
		scheduler:  scheduler,
		rooms:      rooms,
		games:      games,
		staleAfter: staleAfter,
		log:        log,
	}, nil
}

// Run starts the scheduler and the worker and blocks until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRoomSweep, s.handleSweep)

	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	if err := s.server.Start(mux); err != nil {
		s.scheduler.Shutdown()
		return fmt.Errorf("start sweep worker: %w", err)
	}

	<-ctx.Done()
	s.scheduler.Shutdown()
	s.server.Shutdown()
	return nil
}

func (s *Sweeper) handleSweep(ctx context.Context, _ *asynq.Task) error {
	swept := s.rooms.ExpireStale(ctx, s.staleAfter)
	pruned := s.games.PruneFinished()
	if swept > 0 || pruned > 0 {
		s.log.WithFields(logrus.Fields{"rooms": swept, "sessions": pruned}).Info("sweep completed")
	}
	return nil
}
