package app

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/questions"
)

// SessionStore abstracts how live game sessions are stored.
type SessionStore interface {
	Put(session *GameSession)
	Get(sessionID string) (*GameSession, bool)
	List() []*GameSession
	Remove(sessionID string)
}

// PoolRepository loads the question catalog (from cache/backing store).
type PoolRepository interface {
	Pool(ctx context.Context) ([]domain.Question, error)
}

// GameService creates and tracks game sessions, for rooms and for local
// pass-the-device rosters alike.
type GameService struct {
	sessions SessionStore
	pool     PoolRepository
	results  *ResultService

	quotaPerPlayer  int
	questionTimeout time.Duration
	now             func() time.Time
	newRand         func() *rand.Rand
}

func NewGameService(sessions SessionStore, pool PoolRepository, results *ResultService, quotaPerPlayer int, questionTimeout time.Duration) *GameService {
	return &GameService{
		sessions:        sessions,
		pool:            pool,
		results:         results,
		quotaPerPlayer:  quotaPerPlayer,
		questionTimeout: questionTimeout,
		now:             time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Start boots a session for a room roster. The per-player quota shrinks
// uniformly when the difficulty band cannot supply players*quota questions.
func (g *GameService) Start(ctx context.Context, roomID string, roster []domain.Player, difficulty domain.Difficulty, onRoomFinish func()) (*GameSession, error) {
	return g.startSession(ctx, roomID, roomID, roster, difficulty, g.quotaPerPlayer, onRoomFinish)
}

// StartLocal boots a session for an ad-hoc roster with no room: the solo and
// same-device multiplayer path. Player records are persisted before play
// starts so results can reference them.
func (g *GameService) StartLocal(ctx context.Context, roster []domain.Player, difficulty domain.Difficulty, quota int) (*GameSession, error) {
	persisted, err := g.results.RegisterPlayers(ctx, roster)
	if err != nil {
		return nil, err
	}
	if quota <= 0 {
		quota = g.quotaPerPlayer
	}
	return g.startSession(ctx, uuid.NewString(), "", persisted, difficulty, quota, nil)
}

func (g *GameService) startSession(ctx context.Context, sessionID, roomID string, roster []domain.Player, difficulty domain.Difficulty, quota int, onRoomFinish func()) (*GameSession, error) {
	if len(roster) == 0 {
		return nil, domain.ErrNoPlayers
	}
	if !difficulty.Valid() {
		difficulty = domain.DifficultyMedium
	}

	pool, err := g.pool.Pool(ctx)
	if err != nil {
		return nil, err
	}

	rnd := g.newRand()
	selected := questions.Select(rnd, pool, difficulty, quota*len(roster))
	if len(selected) < len(roster) {
		return nil, domain.ErrEmptyPool
	}
	quota = questions.ReduceQuota(quota, len(roster), len(selected))
	selected = selected[:quota*len(roster)]

	session := newGameSession(sessionID, roomID, difficulty, roster, selected, quota, g.questionTimeout, rnd, g.now, func(results []domain.QuizResult) {
		// Best-effort: a failed result write must not wedge game-over delivery.
		_ = g.results.Report(context.Background(), results)
		if onRoomFinish != nil {
			onRoomFinish()
		}
	})
	g.sessions.Put(session)
	session.start()
	return session, nil
}

// Get returns a live session by id.
func (g *GameService) Get(sessionID string) (*GameSession, bool) {
	return g.sessions.Get(sessionID)
}

// PruneFinished drops sessions that reached game over and returns how many
// were removed.
func (g *GameService) PruneFinished() int {
	pruned := 0
	for _, session := range g.sessions.List() {
		if session.Over() {
			g.sessions.Remove(session.ID())
			pruned++
		}
	}
	return pruned
}
