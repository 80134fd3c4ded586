package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// WSHandler upgrades room and session connections and speaks the JSON
// envelope protocol: every frame is {type, payload}.
type WSHandler struct {
	rooms    *app.RoomService
	games    *app.GameService
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewWSHandler(rooms *app.RoomService, games *app.GameService, logger *logrus.Logger) *WSHandler {
	return &WSHandler{
		rooms: rooms,
		games: games,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logger.WithField("component", "ws"),
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type chatPayload struct {
	Text string `json:"text"`
}

type answerPayload struct {
	PlayerID   string `json:"playerId,omitempty"`
	QuestionID string `json:"questionId"`
	Option     int    `json:"option"`
}

type helperPayload struct {
	PlayerID string            `json:"playerId,omitempty"`
	Kind     domain.HelperKind `json:"kind"`
}

// ServeWS dispatches on query params: roomId+userId joins a room,
// sessionId+playerId attaches to a running local session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if roomID := r.URL.Query().Get("roomId"); roomID != "" {
		h.serveRoom(w, r, roomID)
		return
	}
	if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
		h.serveSession(w, r, sessionID)
		return
	}
	http.Error(w, "missing roomId or sessionId", http.StatusBadRequest)
}

func (h *WSHandler) serveRoom(w http.ResponseWriter, r *http.Request, roomID string) {
	userID := r.URL.Query().Get("userId")
	name := r.URL.Query().Get("name")
	avatar := r.URL.Query().Get("avatar")
	if userID == "" || name == "" {
		http.Error(w, "missing userId or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	// Viewing a room joins it; the join is idempotent across reconnects.
	joined, err := h.rooms.Join(r.Context(), roomID, domain.Player{ID: userID, Name: name, AvatarURL: avatar})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel, err := h.rooms.Subscribe(roomID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go h.writePump(conn, send, writerDone)
	go h.forwardRoom(roomID, updates, send, closeSignals, updatesDone)

	send <- outboundMessage[any]{Type: "joined", Payload: joined}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handleRoomMessage(r, roomID, userID, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) handleRoomMessage(r *http.Request, roomID, userID string, inbound inboundMessage, send chan<- outboundMessage[any]) {
	switch inbound.Type {
	case "ready":
		if _, err := h.rooms.ToggleReady(r.Context(), roomID, userID); err != nil {
			send <- errMsg(err)
		}
	case "chat":
		var payload chatPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errMsg(errors.New("invalid chat payload"))
			return
		}
		if _, err := h.rooms.SendMessage(r.Context(), roomID, userID, payload.Text); err != nil {
			send <- errMsg(err)
		}
	case "start":
		if _, err := h.rooms.Start(r.Context(), roomID, userID); err != nil {
			send <- errMsg(err)
		}
	case "answer":
		h.handleAnswer(roomID, userID, inbound.Payload, send)
	case "helper":
		h.handleHelper(roomID, userID, inbound.Payload, send)
	default:
		send <- errMsg(errors.New("unsupported message type"))
	}
}

func (h *WSHandler) handleAnswer(sessionID, fallbackPlayer string, raw json.RawMessage, send chan<- outboundMessage[any]) {
	var payload answerPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		send <- errMsg(errors.New("invalid answer payload"))
		return
	}
	session, ok := h.games.Get(sessionID)
	if !ok {
		send <- errMsg(domain.ErrSessionNotFound)
		return
	}
	playerID := payload.PlayerID
	if playerID == "" {
		playerID = fallbackPlayer
	}
	outcome, err := session.Answer(playerID, payload.QuestionID, payload.Option)
	if err != nil {
		send <- errMsg(err)
		return
	}
	send <- outboundMessage[any]{Type: "answerResult", Payload: outcome}
}

func (h *WSHandler) handleHelper(sessionID, fallbackPlayer string, raw json.RawMessage, send chan<- outboundMessage[any]) {
	var payload helperPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		send <- errMsg(errors.New("invalid helper payload"))
		return
	}
	session, ok := h.games.Get(sessionID)
	if !ok {
		send <- errMsg(domain.ErrSessionNotFound)
		return
	}
	playerID := payload.PlayerID
	if playerID == "" {
		playerID = fallbackPlayer
	}
	outcome, err := session.UseHelper(playerID, payload.Kind)
	if err != nil {
		send <- errMsg(err)
		return
	}
	send <- outboundMessage[any]{Type: "helperResult", Payload: outcome}
}

func (h *WSHandler) serveSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	playerID := r.URL.Query().Get("playerId")

	session, ok := h.games.Get(sessionID)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go h.writePump(conn, send, writerDone)
	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "game", Payload: view}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			h.handleAnswer(sessionID, playerID, inbound.Payload, send)
		case "helper":
			h.handleHelper(sessionID, playerID, inbound.Payload, send)
		default:
			send <- errMsg(errors.New("unsupported message type"))
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// forwardRoom pushes room snapshots to the client and, once the room flips
// to playing, attaches to the game session and pushes its views as well.
func (h *WSHandler) forwardRoom(roomID string, updates <-chan domain.RoomSnapshot, send chan<- outboundMessage[any], closeSignals <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var gameUpdates <-chan app.GameView
	var gameCancel func()
	defer func() {
		if gameCancel != nil {
			gameCancel()
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			if gameUpdates == nil && snap.Room.Status == domain.RoomPlaying {
				if session, ok := h.games.Get(roomID); ok {
					gameUpdates, gameCancel = session.Subscribe()
				}
			}
			select {
			case send <- outboundMessage[any]{Type: "room", Payload: snap}:
			case <-closeSignals:
				return
			}
		case view, ok := <-gameUpdates:
			if !ok {
				gameUpdates = nil
				continue
			}
			select {
			case send <- outboundMessage[any]{Type: "game", Payload: view}:
			case <-closeSignals:
				return
			}
		case <-closeSignals:
			return
		}
	}
}

func (h *WSHandler) writePump(conn *websocket.Conn, send <-chan outboundMessage[any], done chan<- struct{}) {
	defer close(done)
	for msg := range send {
		if err := conn.WriteJSON(msg); err != nil {
			h.log.WithError(err).Debug("ws write error")
			return
		}
	}
}

func errMsg(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
