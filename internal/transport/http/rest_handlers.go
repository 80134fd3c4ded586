package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/notify"
)

// RankCache is the optional fast path for rank lookups.
type RankCache interface {
	Rank(ctx context.Context, difficulty domain.Difficulty, playerID string) (int64, error)
}

// RestHandler serves the non-realtime API: player registration, room CRUD,
// local sessions and leaderboards.
type RestHandler struct {
	rooms   *app.RoomService
	games   *app.GameService
	results *app.ResultService
	ranks   RankCache
	mailer  *notify.Mailer
	log     *logrus.Entry
}

func NewRestHandler(rooms *app.RoomService, games *app.GameService, results *app.ResultService, ranks RankCache, mailer *notify.Mailer, logger *logrus.Logger) *RestHandler {
	return &RestHandler{
		rooms:   rooms,
		games:   games,
		results: results,
		ranks:   ranks,
		mailer:  mailer,
		log:     logger.WithField("component", "rest"),
	}
}

type registerPlayerRequest struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Email     string `json:"email"`
}

func (h *RestHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var req registerPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New("invalid request body"))
		return
	}

	players, err := h.results.RegisterPlayers(r.Context(), []domain.Player{{Name: req.Name, AvatarURL: req.AvatarURL}})
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Email != "" && h.mailer.Enabled() {
		// Fire-and-forget; a mailer failure must not fail registration.
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = h.mailer.SendWelcome(ctx, email, name)
		}(req.Email, players[0].Name)
	}

	writeJSON(w, http.StatusCreated, players[0])
}

type createRoomRequest struct {
	Name       string            `json:"name"`
	Difficulty domain.Difficulty `json:"difficulty"`
	MaxPlayers int               `json:"maxPlayers"`
	Owner      domain.Player     `json:"owner"`
}

func (h *RestHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New("invalid request body"))
		return
	}
	if req.Owner.ID == "" || req.Owner.Name == "" {
		writeError(w, errors.New("owner id and name are required"))
		return
	}

	snap, err := h.rooms.Create(r.Context(), req.Name, req.Difficulty, req.MaxPlayers, req.Owner)
	if err != nil {
		h.log.WithError(err).Warn("room create failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (h *RestHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rooms.ListOpen())
}

func (h *RestHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	snap, err := h.rooms.Snapshot(chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type startSessionRequest struct {
	Players            []domain.Player   `json:"players"`
	Difficulty         domain.Difficulty `json:"difficulty"`
	QuestionsPerPlayer int               `json:"questionsPerPlayer"`
}

type startSessionResponse struct {
	SessionID string       `json:"sessionId"`
	View      app.GameView `json:"view"`
}

func (h *RestHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New("invalid request body"))
		return
	}

	session, err := h.games.StartLocal(r.Context(), req.Players, req.Difficulty, req.QuestionsPerPlayer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID: session.ID(),
		View:      session.View(),
	})
}

func (h *RestHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.games.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, domain.ErrSessionNotFound)
		return
	}
	writeJSON(w, http.StatusOK, session.View())
}

// GetSessionResults ranks a finished session's scores, marking joint first
// places for ties.
func (h *RestHandler) GetSessionResults(w http.ResponseWriter, r *http.Request) {
	session, ok := h.games.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, domain.ErrSessionNotFound)
		return
	}
	if !session.Over() {
		writeError(w, domain.ErrSessionNotFound)
		return
	}
	view := session.View()
	writeJSON(w, http.StatusOK, app.BuildLeaderboard(session.Results(), view.Difficulty, time.Now()))
}

func (h *RestHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	difficulty := domain.Difficulty(r.URL.Query().Get("difficulty"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	lb, err := h.results.Leaderboard(r.Context(), difficulty, limit)
	if err != nil {
		h.log.WithError(err).Warn("leaderboard read failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *RestHandler) GetRank(w http.ResponseWriter, r *http.Request) {
	if h.ranks == nil {
		http.Error(w, "rank cache not configured", http.StatusServiceUnavailable)
		return
	}
	difficulty := domain.Difficulty(chi.URLParam(r, "difficulty"))
	rank, err := h.ranks.Rank(r.Context(), difficulty, chi.URLParam(r, "playerID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"rank": rank})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrPlayerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRoomFull),
		errors.Is(err, domain.ErrRoomNotWaiting),
		errors.Is(err, domain.ErrRoomFinished),
		errors.Is(err, domain.ErrNotRoomOwner),
		errors.Is(err, domain.ErrMembersNotReady),
		errors.Is(err, domain.ErrNotEnoughMembers),
		errors.Is(err, domain.ErrHelperUsed),
		errors.Is(err, domain.ErrNotPlayersTurn),
		errors.Is(err, domain.ErrQuestionLocked),
		errors.Is(err, domain.ErrSessionOver):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrBlankPlayerName),
		errors.Is(err, domain.ErrDuplicatePlayerName),
		errors.Is(err, domain.ErrNoPlayers),
		errors.Is(err, domain.ErrEmptyPool):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
