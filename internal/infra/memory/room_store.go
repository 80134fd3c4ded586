package memory

import (
	"sync"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/app"
)

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.RoomState
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.RoomState),
	}
}

func (s *RoomStore) Put(room *app.RoomState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID()] = room
}

func (s *RoomStore) Get(roomID string) (*app.RoomState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	return room, ok
}

func (s *RoomStore) List() []*app.RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*app.RoomState, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room)
	}
	return out
}

func (s *RoomStore) Remove(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
}
