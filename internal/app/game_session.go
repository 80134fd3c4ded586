package app

import (
	"math/rand"
	"sync"
	"time"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/questions"
)

// PlayerState is one player's progress through a session: their carved
// question slice, their pointer into it, their score and the one-shot
// helpers they have spent.
type PlayerState struct {
	Player      domain.Player
	Questions   []domain.Question
	Index       int
	Score       int
	helpersUsed map[domain.HelperKind]bool
}

func (p *PlayerState) remaining() int {
	return len(p.Questions) - p.Index
}

// QuestionView is the client-facing form of the current question. The
// correct-answer index never leaves the server.
type QuestionView struct {
	ID       string   `json:"id"`
	Number   int      `json:"number"`
	Total    int      `json:"total"`
	Prompt   string   `json:"prompt"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Options  []string `json:"options"`
	Hidden   []int    `json:"hidden,omitempty"`
	Hint     string   `json:"hint,omitempty"`
}

// ScoreView is one player's public progress line.
type ScoreView struct {
	PlayerID    string              `json:"playerId"`
	Name        string              `json:"name"`
	AvatarURL   string              `json:"avatarUrl,omitempty"`
	Score       int                 `json:"score"`
	Answered    int                 `json:"answered"`
	Total       int                 `json:"total"`
	HelpersUsed []domain.HelperKind `json:"helpersUsed,omitempty"`
}

// GameView is the full session snapshot broadcast after every transition.
type GameView struct {
	SessionID     string            `json:"sessionId"`
	RoomID        string            `json:"roomId,omitempty"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	CurrentPlayer string            `json:"currentPlayer,omitempty"`
	Question      *QuestionView     `json:"question,omitempty"`
	Players       []ScoreView       `json:"players"`
	Over          bool              `json:"over"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// AnswerOutcome reports how a single submission scored.
type AnswerOutcome struct {
	PlayerID      string `json:"playerId"`
	QuestionID    string `json:"questionId"`
	Correct       bool   `json:"correct"`
	CorrectOption int    `json:"correctOption"`
	Score         int    `json:"score"`
	GameOver      bool   `json:"gameOver"`
}

// HelperOutcome reports the effect of spending a one-shot helper.
type HelperOutcome struct {
	Kind     domain.HelperKind `json:"kind"`
	Hint     string            `json:"hint,omitempty"`
	Hidden   []int             `json:"hidden,omitempty"`
	GameOver bool              `json:"gameOver"`
}

// GameSession is the turn-based quiz state machine for one room or one local
// roster. Turn order is uniform random among players with questions left;
// each question runs on a countdown whose expiry scores as a wrong answer.
type GameSession struct {
	id         string
	roomID     string
	difficulty domain.Difficulty

	mu          sync.RWMutex
	players     map[string]*PlayerState
	order       []string
	current     string
	hidden      []int
	hintShown   bool
	over        bool
	rnd         *rand.Rand
	now         func() time.Time
	timeout     time.Duration
	timer       *time.Timer
	timerGen    int
	subscribers map[chan GameView]struct{}

	finishOnce sync.Once
	onFinish   func([]domain.QuizResult)
}

func newGameSession(id, roomID string, difficulty domain.Difficulty, roster []domain.Player, pool []domain.Question, quota int, timeout time.Duration, rnd *rand.Rand, now func() time.Time, onFinish func([]domain.QuizResult)) *GameSession {
	s := &GameSession{
		id:          id,
		roomID:      roomID,
		difficulty:  difficulty,
		players:     make(map[string]*PlayerState, len(roster)),
		order:       make([]string, 0, len(roster)),
		rnd:         rnd,
		now:         now,
		timeout:     timeout,
		subscribers: make(map[chan GameView]struct{}),
		onFinish:    onFinish,
	}

	// One shuffled pool, carved into disjoint per-player sub-sequences.
	deck := make([]domain.Question, len(pool))
	copy(deck, pool)
	questions.Shuffle(rnd, deck)
	for i, player := range roster {
		s.players[player.ID] = &PlayerState{
			Player:      player,
			Questions:   deck[i*quota : (i+1)*quota],
			helpersUsed: make(map[domain.HelperKind]bool),
		}
		s.order = append(s.order, player.ID)
	}
	s.current = s.order[rnd.Intn(len(s.order))]
	return s
}

// ID returns the session id.
func (s *GameSession) ID() string { return s.id }

func (s *GameSession) start() {
	s.mu.Lock()
	s.armTimerLocked()
	s.broadcastLocked()
	s.mu.Unlock()
}

// Answer scores one submission from the current player and rotates the turn.
// Submissions carrying a question id that no longer matches the live question
// are rejected, so duplicated messages cannot consume a second question.
func (s *GameSession) Answer(playerID, questionID string, option int) (AnswerOutcome, error) {
	s.mu.Lock()

	ps, err := s.currentTurnLocked(playerID)
	if err != nil {
		s.mu.Unlock()
		return AnswerOutcome{}, err
	}
	question := ps.Questions[ps.Index]
	if questionID != "" && questionID != question.ID {
		s.mu.Unlock()
		return AnswerOutcome{}, domain.ErrQuestionLocked
	}

	outcome := s.resolveAnswerLocked(ps, question, option)
	finished := s.over
	s.mu.Unlock()

	if finished {
		s.fireFinish()
	}
	return outcome, nil
}

// UseHelper spends one of the three per-player one-shot aids. A second use of
// the same kind fails with ErrHelperUsed and mutates nothing.
func (s *GameSession) UseHelper(playerID string, kind domain.HelperKind) (HelperOutcome, error) {
	s.mu.Lock()

	ps, err := s.currentTurnLocked(playerID)
	if err != nil {
		s.mu.Unlock()
		return HelperOutcome{}, err
	}
	if ps.helpersUsed[kind] {
		s.mu.Unlock()
		return HelperOutcome{}, domain.ErrHelperUsed
	}

	question := ps.Questions[ps.Index]
	outcome := HelperOutcome{Kind: kind}

	switch kind {
	case domain.HelperShowHint:
		ps.helpersUsed[kind] = true
		s.hintShown = true
		outcome.Hint = question.Hint
	case domain.HelperRemoveOptions:
		ps.helpersUsed[kind] = true
		wrong := make([]int, 0, len(question.Options)-1)
		for i := range question.Options {
			if i != question.Answer {
				wrong = append(wrong, i)
			}
		}
		questions.Shuffle(s.rnd, wrong)
		s.hidden = wrong[:2]
		outcome.Hidden = append([]int(nil), s.hidden...)
	case domain.HelperChangeQuestion:
		ps.helpersUsed[kind] = true
		s.stopTimerLocked()
		ps.Index++
		s.clearQuestionStateLocked()
		if ps.remaining() == 0 {
			// Skipping the last allotted question ends the whole session early.
			s.over = true
			s.current = ""
		} else {
			s.armTimerLocked()
		}
	default:
		s.mu.Unlock()
		return HelperOutcome{}, domain.ErrHelperUsed
	}

	s.broadcastLocked()
	outcome.GameOver = s.over
	finished := s.over
	s.mu.Unlock()

	if finished {
		s.fireFinish()
	}
	return outcome, nil
}

// View returns the current snapshot.
func (s *GameSession) View() GameView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewLocked()
}

// Over reports whether the session reached game over.
func (s *GameSession) Over() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.over
}

// Results builds the final per-player outcomes.
func (s *GameSession) Results() []domain.QuizResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultsLocked()
}

// Subscribe returns a channel of session snapshots. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *GameSession) Subscribe() (<-chan GameView, func()) {
	ch := make(chan GameView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.viewLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *GameSession) currentTurnLocked(playerID string) (*PlayerState, error) {
	if s.over {
		return nil, domain.ErrSessionOver
	}
	ps, ok := s.players[playerID]
	if !ok {
		return nil, domain.ErrPlayerNotFound
	}
	if playerID != s.current {
		return nil, domain.ErrNotPlayersTurn
	}
	return ps, nil
}

func (s *GameSession) resolveAnswerLocked(ps *PlayerState, question domain.Question, option int) AnswerOutcome {
	s.stopTimerLocked()

	correct := option == question.Answer
	if correct {
		ps.Score++
	}
	ps.Index++
	s.clearQuestionStateLocked()
	s.advanceTurnLocked()
	s.broadcastLocked()

	return AnswerOutcome{
		PlayerID:      ps.Player.ID,
		QuestionID:    question.ID,
		Correct:       correct,
		CorrectOption: question.Answer,
		Score:         ps.Score,
		GameOver:      s.over,
	}
}

// advanceTurnLocked picks the next player uniformly at random among the
// other players with questions left, repeats the current player when nobody
// else is eligible, and ends the session when every quota is exhausted.
func (s *GameSession) advanceTurnLocked() {
	candidates := make([]string, 0, len(s.order))
	for _, id := range s.order {
		if id != s.current && s.players[id].remaining() > 0 {
			candidates = append(candidates, id)
		}
	}
	switch {
	case len(candidates) > 0:
		s.current = candidates[s.rnd.Intn(len(candidates))]
		s.armTimerLocked()
	case s.players[s.current].remaining() > 0:
		s.armTimerLocked()
	default:
		s.over = true
		s.current = ""
	}
}

func (s *GameSession) clearQuestionStateLocked() {
	s.hidden = nil
	s.hintShown = false
}

func (s *GameSession) armTimerLocked() {
	if s.timeout <= 0 {
		return
	}
	s.timerGen++
	gen := s.timerGen
	s.timer = time.AfterFunc(s.timeout, func() { s.expire(gen) })
}

func (s *GameSession) stopTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// expire fires when the countdown for a question runs out. A stale generation
// means the question was already answered or skipped and the expiry is a no-op.
func (s *GameSession) expire(gen int) {
	s.mu.Lock()
	if s.over || gen != s.timerGen || s.current == "" {
		s.mu.Unlock()
		return
	}
	ps := s.players[s.current]
	question := ps.Questions[ps.Index]
	s.resolveAnswerLocked(ps, question, -1)
	finished := s.over
	s.mu.Unlock()

	if finished {
		s.fireFinish()
	}
}

func (s *GameSession) fireFinish() {
	s.finishOnce.Do(func() {
		if s.onFinish != nil {
			s.onFinish(s.Results())
		}
	})
}

func (s *GameSession) broadcastLocked() GameView {
	view := s.viewLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the stale view so a slow subscriber never blocks the game.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *GameSession) viewLocked() GameView {
	view := GameView{
		SessionID:     s.id,
		RoomID:        s.roomID,
		Difficulty:    s.difficulty,
		CurrentPlayer: s.current,
		Over:          s.over,
		UpdatedAt:     s.now(),
	}

	for _, id := range s.order {
		ps := s.players[id]
		used := make([]domain.HelperKind, 0, len(ps.helpersUsed))
		for kind := range ps.helpersUsed {
			used = append(used, kind)
		}
		view.Players = append(view.Players, ScoreView{
			PlayerID:    ps.Player.ID,
			Name:        ps.Player.Name,
			AvatarURL:   ps.Player.AvatarURL,
			Score:       ps.Score,
			Answered:    ps.Index,
			Total:       len(ps.Questions),
			HelpersUsed: used,
		})
	}

	if !s.over && s.current != "" {
		ps := s.players[s.current]
		q := ps.Questions[ps.Index]
		qv := &QuestionView{
			ID:       q.ID,
			Number:   ps.Index + 1,
			Total:    len(ps.Questions),
			Prompt:   q.Prompt,
			ImageURL: q.ImageURL,
			Options:  append([]string(nil), q.Options...),
			Hidden:   append([]int(nil), s.hidden...),
		}
		if s.hintShown {
			qv.Hint = q.Hint
		}
		view.Question = qv
	}
	return view
}

func (s *GameSession) resultsLocked() []domain.QuizResult {
	results := make([]domain.QuizResult, 0, len(s.order))
	for _, id := range s.order {
		ps := s.players[id]
		results = append(results, domain.QuizResult{
			PlayerID:       ps.Player.ID,
			PlayerName:     ps.Player.Name,
			AvatarURL:      ps.Player.AvatarURL,
			Score:          ps.Score,
			TotalQuestions: len(ps.Questions),
			Difficulty:     s.difficulty,
			CreatedAt:      s.now(),
		})
	}
	return results
}
