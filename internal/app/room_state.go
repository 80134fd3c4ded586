package app

import (
	"sort"
	"sync"
	"time"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// RoomState is the live, in-process representation of a room. All reads and
// writes go through its mutex; subscribers receive a full snapshot after
// every mutation rather than a delta.
type RoomState struct {
	mu          sync.RWMutex
	room        domain.Room
	members     map[string]*domain.RoomMember
	messages    []domain.RoomMessage
	subscribers map[chan domain.RoomSnapshot]struct{}
	lastActive  time.Time
	now         func() time.Time
}

// NewRoomState is exported for infrastructure layers that need to seed rooms.
func NewRoomState(room domain.Room) *RoomState {
	return newRoomState(room, time.Now)
}

func newRoomState(room domain.Room, now func() time.Time) *RoomState {
	return &RoomState{
		room:        room,
		members:     make(map[string]*domain.RoomMember),
		subscribers: make(map[chan domain.RoomSnapshot]struct{}),
		lastActive:  now(),
		now:         now,
	}
}

// ID returns the room id.
func (s *RoomState) ID() string { return s.id() }

func (s *RoomState) id() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.ID
}

func (s *RoomState) activity() (domain.RoomStatus, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room.Status, s.lastActive
}

func (s *RoomState) addMember(member domain.RoomMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := member
	s.members[member.UserID] = &m
	s.touchLocked()
	s.broadcastLocked()
}

func (s *RoomState) join(member domain.RoomMember) (domain.RoomSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[member.UserID]; ok {
		return s.snapshotLocked(), false, nil
	}
	if s.room.Status != domain.RoomWaiting {
		return domain.RoomSnapshot{}, false, domain.ErrRoomNotWaiting
	}
	if len(s.members) >= s.room.MaxPlayers {
		return domain.RoomSnapshot{}, false, domain.ErrRoomFull
	}

	m := member
	s.members[member.UserID] = &m
	s.touchLocked()
	return s.broadcastLocked(), true, nil
}

func (s *RoomState) toggleReady(userID string) (domain.RoomSnapshot, domain.RoomMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[userID]
	if !ok {
		return domain.RoomSnapshot{}, domain.RoomMember{}, domain.ErrMemberNotFound
	}
	if s.room.Status != domain.RoomWaiting {
		return domain.RoomSnapshot{}, domain.RoomMember{}, domain.ErrRoomNotWaiting
	}
	member.Ready = !member.Ready
	s.touchLocked()
	return s.broadcastLocked(), *member, nil
}

func (s *RoomState) appendMessage(userID, text string, msg domain.RoomMessage) (domain.RoomSnapshot, domain.RoomMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[userID]
	if !ok {
		return domain.RoomSnapshot{}, domain.RoomMessage{}, domain.ErrMemberNotFound
	}
	if s.room.Status == domain.RoomFinished {
		return domain.RoomSnapshot{}, domain.RoomMessage{}, domain.ErrRoomFinished
	}
	msg.Sender = member.DisplayName
	msg.Text = text
	s.messages = append(s.messages, msg)
	s.touchLocked()
	return s.broadcastLocked(), msg, nil
}

// beginStart validates the ready gate and flips the room to playing in one
// critical section. It returns the updated room row and the roster to seed
// the game session with.
func (s *RoomState) beginStart(userID string) (domain.Room, []domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Status != domain.RoomWaiting {
		return domain.Room{}, nil, domain.ErrRoomNotWaiting
	}
	if userID != s.room.OwnerID {
		return domain.Room{}, nil, domain.ErrNotRoomOwner
	}
	if len(s.members) < 2 {
		return domain.Room{}, nil, domain.ErrNotEnoughMembers
	}
	for _, member := range s.members {
		if !member.Ready {
			return domain.Room{}, nil, domain.ErrMembersNotReady
		}
	}

	s.room.Status = domain.RoomPlaying
	s.touchLocked()
	s.broadcastLocked()

	roster := make([]domain.Player, 0, len(s.members))
	for _, member := range s.members {
		roster = append(roster, domain.Player{
			ID:        member.UserID,
			Name:      member.DisplayName,
			AvatarURL: member.AvatarURL,
		})
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].ID < roster[j].ID })
	return s.room, roster, nil
}

// abortStart rolls the status back to waiting when the game session could not
// be created. This is the only backwards transition and it never leaves the
// process.
func (s *RoomState) abortStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Status == domain.RoomPlaying {
		s.room.Status = domain.RoomWaiting
		s.broadcastLocked()
	}
}

func (s *RoomState) finish() (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room.Status == domain.RoomFinished {
		return s.room, false
	}
	s.room.Status = domain.RoomFinished
	s.touchLocked()
	s.broadcastLocked()
	return s.room, true
}

func (s *RoomState) snapshot() domain.RoomSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *RoomState) subscribe() (<-chan domain.RoomSnapshot, func()) {
	ch := make(chan domain.RoomSnapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
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

func (s *RoomState) broadcastLocked() domain.RoomSnapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow subscriber never blocks the room.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *RoomState) snapshotLocked() domain.RoomSnapshot {
	members := make([]domain.RoomMember, 0, len(s.members))
	for _, member := range s.members {
		members = append(members, *member)
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].JoinedAt.Equal(members[j].JoinedAt) {
			return members[i].JoinedAt.Before(members[j].JoinedAt)
		}
		return members[i].UserID < members[j].UserID
	})

	messages := make([]domain.RoomMessage, len(s.messages))
	copy(messages, s.messages)

	return domain.RoomSnapshot{
		Room:     s.room,
		Members:  members,
		Messages: messages,
		SentAt:   s.now(),
	}
}

func (s *RoomState) touchLocked() {
	s.lastActive = s.now()
}
