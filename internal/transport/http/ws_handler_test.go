package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/infra/memory"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/notify"
)

func testPool(n int) []domain.Question {
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

func newTestServer(t *testing.T, quota int) (*httptest.Server, *app.GameService) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.NewResultStore()
	results := app.NewResultService(store, store, nil)
	repo := memory.NewQuestionRepository(memory.NewStaticQuestionLoader(testPool(24)), time.Minute)
	games := app.NewGameService(memory.NewSessionStore(), repo, results, quota, 0)
	rooms := app.NewRoomService(memory.NewRoomStore(), memory.NewNoopArchiver(), games, 4)

	rest := NewRestHandler(rooms, games, results, nil, notify.NewMailer("", "", logger), logger)
	ws := NewWSHandler(rooms, games, logger)

	srv := httptest.NewServer(NewRouter(rest, ws))
	t.Cleanup(srv.Close)
	return srv, games
}

func postJSON(t *testing.T, srv *httptest.Server, path string, body any, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

type wsFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func dialRoom(t *testing.T, srv *httptest.Server, roomID, userID, name string) *websocket.Conn {
	t.Helper()
	q := url.Values{}
	q.Set("roomId", roomID)
	q.Set("userId", userID)
	q.Set("name", name)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// awaitFrame reads frames until one of the wanted type arrives.
func awaitFrame(t *testing.T, conn *websocket.Conn, wanted string) wsFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("waiting for %q frame: %v", wanted, err)
		}
		if frame.Type == "error" {
			var payload struct {
				Message string `json:"message"`
			}
			_ = json.Unmarshal(frame.Payload, &payload)
			t.Fatalf("waiting for %q frame, got error: %s", wanted, payload.Message)
		}
		if frame.Type == wanted {
			return frame
		}
	}
}

func sendFrame(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": json.RawMessage(raw)}); err != nil {
		t.Fatalf("send %s: %v", typ, err)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, 5)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestLocalSessionOverREST(t *testing.T) {
	srv, games := newTestServer(t, 3)

	var player domain.Player
	if code := postJSON(t, srv, "/api/players", map[string]string{"name": "لوفي"}, &player); code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", code)
	}
	if player.ID == "" {
		t.Fatal("expected a durable player id")
	}

	var started struct {
		SessionID string       `json:"sessionId"`
		View      app.GameView `json:"view"`
	}
	code := postJSON(t, srv, "/api/sessions", map[string]any{
		"players":            []domain.Player{{Name: "لوفي"}, {Name: "زورو"}},
		"difficulty":         "easy",
		"questionsPerPlayer": 3,
	}, &started)
	if code != http.StatusCreated {
		t.Fatalf("start session: expected 201, got %d", code)
	}
	if started.View.Question == nil || started.View.CurrentPlayer == "" {
		t.Fatalf("expected a live first question, got %+v", started.View)
	}

	// Results are not served while the session is still running.
	if code := getJSON(t, srv, "/api/sessions/"+started.SessionID+"/results", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for running session results, got %d", code)
	}

	session, ok := games.Get(started.SessionID)
	if !ok {
		t.Fatal("session missing from store")
	}
	for i := 0; i < 50 && !session.Over(); i++ {
		view := session.View()
		if _, err := session.Answer(view.CurrentPlayer, view.Question.ID, 1); err != nil {
			t.Fatalf("answer: %v", err)
		}
	}

	var lb domain.Leaderboard
	if code := getJSON(t, srv, "/api/sessions/"+started.SessionID+"/results", &lb); code != http.StatusOK {
		t.Fatalf("results: expected 200, got %d", code)
	}
	if len(lb.Entries) != 2 {
		t.Fatalf("expected 2 ranked entries, got %+v", lb.Entries)
	}
	if lb.Entries[0].Score == lb.Entries[1].Score && !(lb.Entries[0].JointFirst && lb.Entries[1].JointFirst) {
		t.Fatalf("tied scores must be joint first: %+v", lb.Entries)
	}

	var all domain.Leaderboard
	if code := getJSON(t, srv, "/api/leaderboard?difficulty=easy", &all); code != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", code)
	}
	if len(all.Entries) != 2 {
		t.Fatalf("expected persisted results on the leaderboard, got %+v", all.Entries)
	}
}

func TestRoomWebsocketFlow(t *testing.T) {
	srv, _ := newTestServer(t, 2)

	var created domain.RoomSnapshot
	code := postJSON(t, srv, "/api/rooms", map[string]any{
		"name":       "غرفة القبعة",
		"difficulty": "easy",
		"maxPlayers": 4,
		"owner":      domain.Player{ID: "u-owner", Name: "لوفي"},
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create room: expected 201, got %d", code)
	}
	roomID := created.Room.ID

	owner := dialRoom(t, srv, roomID, "u-owner", "لوفي")
	awaitFrame(t, owner, "joined")
	guest := dialRoom(t, srv, roomID, "u-guest", "زورو")
	awaitFrame(t, guest, "joined")

	sendFrame(t, owner, "ready", struct{}{})
	sendFrame(t, guest, "ready", struct{}{})

	// Wait until the owner sees both members ready.
	deadline := time.Now().Add(3 * time.Second)
	for {
		frame := awaitFrame(t, owner, "room")
		var snap domain.RoomSnapshot
		if err := json.Unmarshal(frame.Payload, &snap); err != nil {
			t.Fatalf("decode room frame: %v", err)
		}
		ready := 0
		for _, m := range snap.Members {
			if m.Ready {
				ready++
			}
		}
		if len(snap.Members) == 2 && ready == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("room never became ready: %+v", snap)
		}
	}

	sendFrame(t, owner, "start", struct{}{})

	frame := awaitFrame(t, owner, "game")
	var view app.GameView
	if err := json.Unmarshal(frame.Payload, &view); err != nil {
		t.Fatalf("decode game frame: %v", err)
	}
	if view.Question == nil || view.CurrentPlayer == "" {
		t.Fatalf("expected a live question after start, got %+v", view)
	}

	sendFrame(t, owner, "answer", map[string]any{
		"playerId":   view.CurrentPlayer,
		"questionId": view.Question.ID,
		"option":     1,
	})
	result := awaitFrame(t, owner, "answerResult")
	var outcome app.AnswerOutcome
	if err := json.Unmarshal(result.Payload, &outcome); err != nil {
		t.Fatalf("decode outcome: %v", err)
	}
	if !outcome.Correct || outcome.Score != 1 {
		t.Fatalf("expected a scored correct answer, got %+v", outcome)
	}

	// The chat path still works while playing.
	sendFrame(t, guest, "chat", map[string]string{"text": "بالتوفيق"})
	for {
		frame := awaitFrame(t, guest, "room")
		var snap domain.RoomSnapshot
		if err := json.Unmarshal(frame.Payload, &snap); err != nil {
			t.Fatalf("decode room frame: %v", err)
		}
		if len(snap.Messages) > 0 {
			if snap.Messages[0].Text != "بالتوفيق" {
				t.Fatalf("unexpected chat log: %+v", snap.Messages)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("chat message never broadcast")
		}
	}
}

func TestWSRequiresTarget(t *testing.T) {
	srv, _ := newTestServer(t, 5)
	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRankEndpointWithoutCache(t *testing.T) {
	srv, _ := newTestServer(t, 5)
	resp, err := http.Get(srv.URL + "/api/leaderboard/easy/rank/p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}
