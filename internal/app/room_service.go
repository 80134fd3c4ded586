package app

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// RoomRepository abstracts how live room state is stored (in-memory, Redis-backed).
type RoomRepository interface {
	Put(room *RoomState)
	Get(roomID string) (*RoomState, bool)
	List() []*RoomState
	Remove(roomID string)
}

// RoomArchiver persists the durable side of a room (the room row, its
// memberships, its chat log). Implementations may be a no-op when no
// database is configured.
type RoomArchiver interface {
	SaveRoom(ctx context.Context, room domain.Room) error
	SaveMember(ctx context.Context, member domain.RoomMember) error
	SaveMessage(ctx context.Context, msg domain.RoomMessage) error
}

// RoomService owns the room lifecycle: create, join, ready, chat, start,
// finish. Every precondition (ready gate, owner check, capacity) is evaluated
// under the room lock, atomically with the status write.
type RoomService struct {
	rooms    RoomRepository
	archiver RoomArchiver
	games    *GameService

	defaultMaxPlayers int
	now               func() time.Time
}

func NewRoomService(rooms RoomRepository, archiver RoomArchiver, games *GameService, defaultMaxPlayers int) *RoomService {
	return &RoomService{
		rooms:             rooms,
		archiver:          archiver,
		games:             games,
		defaultMaxPlayers: defaultMaxPlayers,
		now:               time.Now,
	}
}

// Create inserts the room and then the owner's membership. The two writes are
// deliberately not transactional; a failure between them leaves the room
// without members and the error is propagated as-is.
func (s *RoomService) Create(ctx context.Context, name string, difficulty domain.Difficulty, maxPlayers int, owner domain.Player) (domain.RoomSnapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = owner.Name
	}
	if !difficulty.Valid() {
		difficulty = domain.DifficultyMedium
	}
	if maxPlayers < 2 {
		maxPlayers = s.defaultMaxPlayers
	}

	room := domain.Room{
		ID:         uuid.NewString(),
		Name:       name,
		OwnerID:    owner.ID,
		Difficulty: difficulty,
		MaxPlayers: maxPlayers,
		Status:     domain.RoomWaiting,
		CreatedAt:  s.now(),
	}

	state := newRoomState(room, s.now)
	s.rooms.Put(state)
	if err := s.archiver.SaveRoom(ctx, room); err != nil {
		return domain.RoomSnapshot{}, err
	}

	member := domain.RoomMember{
		RoomID:      room.ID,
		UserID:      owner.ID,
		DisplayName: owner.Name,
		AvatarURL:   owner.AvatarURL,
		Ready:       false,
		JoinedAt:    s.now(),
	}
	state.addMember(member)
	if err := s.archiver.SaveMember(ctx, member); err != nil {
		return domain.RoomSnapshot{}, err
	}
	return state.snapshot(), nil
}

// Join adds the user to the room. It is idempotent: joining a room the user
// is already a member of returns the current snapshot without a second row.
func (s *RoomService) Join(ctx context.Context, roomID string, user domain.Player) (domain.RoomSnapshot, error) {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}

	member := domain.RoomMember{
		RoomID:      roomID,
		UserID:      user.ID,
		DisplayName: user.Name,
		AvatarURL:   user.AvatarURL,
		JoinedAt:    s.now(),
	}
	snap, added, err := state.join(member)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	if added {
		if err := s.archiver.SaveMember(ctx, member); err != nil {
			return domain.RoomSnapshot{}, err
		}
	}
	return snap, nil
}

// ToggleReady flips the member's ready flag.
func (s *RoomService) ToggleReady(ctx context.Context, roomID, userID string) (domain.RoomSnapshot, error) {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	snap, member, err := state.toggleReady(userID)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	if err := s.archiver.SaveMember(ctx, member); err != nil {
		return domain.RoomSnapshot{}, err
	}
	return snap, nil
}

// SendMessage appends a chat line and broadcasts the new snapshot.
func (s *RoomService) SendMessage(ctx context.Context, roomID, userID, text string) (domain.RoomSnapshot, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.RoomSnapshot{}, domain.ErrMemberNotFound
	}
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	msg := domain.RoomMessage{
		ID:     uuid.NewString(),
		RoomID: roomID,
		UserID: userID,
		SentAt: s.now(),
	}
	snap, full, err := state.appendMessage(userID, text, msg)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	if err := s.archiver.SaveMessage(ctx, full); err != nil {
		return domain.RoomSnapshot{}, err
	}
	return snap, nil
}

// Start transitions the room to playing and boots the game session. The gate
// (caller owns the room, every member ready, at least two members) and the
// status write happen under one lock, so a second concurrent start observes
// playing and gets ErrRoomNotWaiting with no side effects.
func (s *RoomService) Start(ctx context.Context, roomID, userID string) (*GameSession, error) {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	room, roster, err := state.beginStart(userID)
	if err != nil {
		return nil, err
	}

	session, err := s.games.Start(ctx, roomID, roster, room.Difficulty, func() {
		s.Finish(context.Background(), roomID)
	})
	if err != nil {
		state.abortStart()
		return nil, err
	}

	if err := s.archiver.SaveRoom(ctx, room); err != nil {
		// The in-memory transition already happened and clients were notified;
		// the archive write is surfaced but not rolled back.
		return session, err
	}
	return session, nil
}

// Finish moves a playing room to its terminal state. Finished rooms accept no
// further transitions.
func (s *RoomService) Finish(ctx context.Context, roomID string) error {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	room, changed := state.finish()
	if !changed {
		return nil
	}
	return s.archiver.SaveRoom(ctx, room)
}

// Snapshot returns the authoritative view of a room.
func (s *RoomService) Snapshot(roomID string) (domain.RoomSnapshot, error) {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return state.snapshot(), nil
}

// ListOpen returns snapshots of all rooms still waiting for players.
func (s *RoomService) ListOpen() []domain.RoomSnapshot {
	states := s.rooms.List()
	out := make([]domain.RoomSnapshot, 0, len(states))
	for _, state := range states {
		snap := state.snapshot()
		if snap.Room.Status == domain.RoomWaiting {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Room.CreatedAt.After(out[j].Room.CreatedAt)
	})
	return out
}

// Subscribe returns a channel of room snapshots. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(roomID string) (<-chan domain.RoomSnapshot, func(), error) {
	state, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	ch, cancel := state.subscribe()
	return ch, cancel, nil
}

// ExpireStale finishes rooms whose last activity is older than maxAge and
// drops finished rooms from the live set. It returns how many rooms it swept.
func (s *RoomService) ExpireStale(ctx context.Context, maxAge time.Duration) int {
	cutoff := s.now().Add(-maxAge)
	swept := 0
	for _, state := range s.rooms.List() {
		status, lastActive := state.activity()
		if status == domain.RoomFinished {
			s.rooms.Remove(state.id())
			continue
		}
		if lastActive.Before(cutoff) {
			if room, changed := state.finish(); changed {
				_ = s.archiver.SaveRoom(ctx, room)
				swept++
			}
			s.rooms.Remove(state.id())
		}
	}
	return swept
}
