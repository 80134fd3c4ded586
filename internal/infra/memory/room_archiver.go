package memory

import (
	"context"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// NoopArchiver satisfies app.RoomArchiver when no database is configured.
// Live room state stays purely in memory.
type NoopArchiver struct{}

func NewNoopArchiver() NoopArchiver { return NoopArchiver{} }

func (NoopArchiver) SaveRoom(context.Context, domain.Room) error          { return nil }
func (NoopArchiver) SaveMember(context.Context, domain.RoomMember) error  { return nil }
func (NoopArchiver) SaveMessage(context.Context, domain.RoomMessage) error { return nil }
