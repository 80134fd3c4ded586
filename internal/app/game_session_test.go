package app_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/memory"
)

// fixturePool builds n easy questions whose correct option is always index 1.
func fixturePool(n int) []domain.Question {
	pool := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, domain.Question{
			ID:         fmt.Sprintf("q-%02d", i),
			Prompt:     "سؤال",
			Options:    []string{"أ", "ب", "ج", "د"},
			Answer:     1,
			Difficulty: domain.DifficultyEasy,
			Hint:       "تلميح",
		})
	}
	return pool
}

func newTestGames(t *testing.T, pool []domain.Question, quota int, timeout time.Duration) (*app.GameService, *memory.ResultStore) {
	t.Helper()
	store := memory.NewResultStore()
	results := app.NewResultService(store, store, nil)
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(pool), time.Minute)
	return app.NewGameService(memory.NewSessionStore(), repo, results, quota, timeout), store
}

func playUntilOver(t *testing.T, session *app.GameSession, option int) {
	t.Helper()
	for i := 0; i < 200 && !session.Over(); i++ {
		view := session.View()
		if view.Question == nil {
			t.Fatalf("expected a live question, got none: %+v", view)
		}
		if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, option); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}
	if !session.Over() {
		t.Fatalf("session never reached game over")
	}
}

func TestSoloHappyPath(t *testing.T) {
	ctx := context.Background()
	games, store := newTestGames(t, fixturePool(12), 10, 0)

	session, err := games.StartLocal(ctx, []domain.Player{{Name: "لوفي", AvatarURL: "luffy.png"}}, domain.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	playUntilOver(t, session, 1)

	results := session.Results()
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Score != 10 || results[0].TotalQuestions != 10 {
		t.Fatalf("expected 10/10, got %d/%d", results[0].Score, results[0].TotalQuestions)
	}

	saved, err := store.TopResults(ctx, domain.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("top results: %v", err)
	}
	if len(saved) != 1 || saved[0].Score != 10 || saved[0].Difficulty != domain.DifficultyEasy {
		t.Fatalf("expected persisted 10-point easy result, got %+v", saved)
	}
}

func TestWrongAnswersDoNotScore(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 5, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "زورو"}}, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	playUntilOver(t, session, 0)

	results := session.Results()
	if results[0].Score != 0 {
		t.Fatalf("expected score 0, got %d", results[0].Score)
	}
	if results[0].Score < 0 || results[0].Score > results[0].TotalQuestions {
		t.Fatalf("score out of bounds: %+v", results[0])
	}
}

func TestOnlyCurrentPlayerMayAnswer(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(20), 5, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "نامي"}, {Name: "أوسوب"}}, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	view := session.View()
	var other string
	for _, p := range view.Players {
		if p.PlayerID != view.CurrentPlayer {
			other = p.PlayerID
		}
	}
	if _, err := session.Answer(other, view.Question.ID, 1); err != domain.ErrNotPlayersTurn {
		t.Fatalf("expected turn error, got %v", err)
	}
	if _, err := session.Answer("ghost", view.Question.ID, 1); err != domain.ErrPlayerNotFound {
		t.Fatalf("expected player error, got %v", err)
	}
}

func TestStaleQuestionIDRejected(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 5, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "سانجي"}}, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	view := session.View()
	if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	// Replay the same frame: the question moved on.
	if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != domain.ErrQuestionLocked {
		t.Fatalf("expected locked error, got %v", err)
	}
}

func TestHelperOneShot(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 5, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "روبن"}}, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := session.View()
	player := view.CurrentPlayer

	outcome, err := session.UseHelper(player, domain.HelperShowHint)
	if err != nil {
		t.Fatalf("first hint: %v", err)
	}
	if outcome.Hint == "" {
		t.Fatalf("expected hint text")
	}
	if session.View().Question.Hint == "" {
		t.Fatalf("expected hint visible in view")
	}

	before := session.View()
	if _, err := session.UseHelper(player, domain.HelperShowHint); err != domain.ErrHelperUsed {
		t.Fatalf("expected one-shot rejection, got %v", err)
	}
	after := session.View()
	if after.Players[0].Score != before.Players[0].Score || after.Players[0].Answered != before.Players[0].Answered {
		t.Fatalf("rejected helper mutated state: before=%+v after=%+v", before.Players[0], after.Players[0])
	}
}

func TestRemoveOptionsHidesTwoWrongOnes(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 5, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "فرانكي"}}, domain.DifficultyEasy, 5)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := session.View()

	outcome, err := session.UseHelper(view.CurrentPlayer, domain.HelperRemoveOptions)
	if err != nil {
		t.Fatalf("remove options: %v", err)
	}
	if len(outcome.Hidden) != 2 {
		t.Fatalf("expected 2 hidden options, got %v", outcome.Hidden)
	}
	for _, idx := range outcome.Hidden {
		if idx == 1 {
			t.Fatalf("helper hid the correct option")
		}
	}

	// Hidden options reset when the question advances.
	view = session.View()
	if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if next := session.View(); len(next.Question.Hidden) != 0 {
		t.Fatalf("hidden options leaked into next question: %v", next.Question.Hidden)
	}
}

func TestChangeQuestionConsumesQuota(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 3, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "بروك"}}, domain.DifficultyEasy, 3)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := session.View()

	if _, err := session.UseHelper(view.CurrentPlayer, domain.HelperChangeQuestion); err != nil {
		t.Fatalf("skip: %v", err)
	}
	next := session.View()
	if next.Players[0].Answered != 1 {
		t.Fatalf("skip did not consume quota: %+v", next.Players[0])
	}
	if next.Players[0].Score != 0 {
		t.Fatalf("skip must not score: %+v", next.Players[0])
	}
	if next.Question.ID == view.Question.ID {
		t.Fatalf("skip did not advance the question")
	}
}

func TestSkipOnLastQuestionEndsGame(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 2, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "جينبي"}}, domain.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	view := session.View()
	if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}

	outcome, err := session.UseHelper(view.CurrentPlayer, domain.HelperChangeQuestion)
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if !outcome.GameOver || !session.Over() {
		t.Fatalf("skipping the last question should end the session")
	}
}

func TestQuotaReducedForShortPool(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(6), 10, 0)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "شانكس"}, {Name: "ميهوك"}}, domain.DifficultyEasy, 10)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for _, p := range session.View().Players {
		if p.Total != 3 {
			t.Fatalf("expected quota reduced to 3, got %d", p.Total)
		}
	}
}

func TestRosterValidation(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(12), 5, 0)
	ctx := context.Background()

	if _, err := games.StartLocal(ctx, []domain.Player{{Name: "  "}}, domain.DifficultyEasy, 5); err != domain.ErrBlankPlayerName {
		t.Fatalf("expected blank-name error, got %v", err)
	}
	if _, err := games.StartLocal(ctx, []domain.Player{{Name: "لوفي"}, {Name: "لوفي"}}, domain.DifficultyEasy, 5); err != domain.ErrDuplicatePlayerName {
		t.Fatalf("expected duplicate-name error, got %v", err)
	}
	if _, err := games.StartLocal(ctx, nil, domain.DifficultyEasy, 5); err != domain.ErrNoPlayers {
		t.Fatalf("expected empty-roster error, got %v", err)
	}
}

func TestQuestionTimerExpiryScoresAsWrong(t *testing.T) {
	games, _ := newTestGames(t, fixturePool(4), 2, 30*time.Millisecond)

	session, err := games.StartLocal(context.Background(), []domain.Player{{Name: "باغي"}}, domain.DifficultyEasy, 2)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for !session.Over() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !session.Over() {
		t.Fatalf("expected timer to exhaust the session")
	}
	if score := session.Results()[0].Score; score != 0 {
		t.Fatalf("timeouts must score as wrong, got %d", score)
	}
}
