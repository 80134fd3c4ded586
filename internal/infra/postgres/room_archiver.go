package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/slmiksa/onepiece-quiz-adventure-sub000/internal/domain"
)

// RoomArchiver writes the durable side of rooms: the room row, memberships
// and the chat log. Live coordination stays in memory; these rows are the
// system of record.
type RoomArchiver struct {
	pool *pgxpool.Pool
}

func NewRoomArchiver(pool *pgxpool.Pool) *RoomArchiver {
	return &RoomArchiver{pool: pool}
}

func (a *RoomArchiver) SaveRoom(ctx context.Context, room domain.Room) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO rooms (id, name, owner_id, difficulty, max_players, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status`,
		room.ID, room.Name, room.OwnerID, room.Difficulty, room.MaxPlayers, room.Status, room.CreatedAt)
	if err != nil {
		return fmt.Errorf("save room: %w", err)
	}
	return nil
}

func (a *RoomArchiver) SaveMember(ctx context.Context, member domain.RoomMember) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO room_players (room_id, user_id, display_name, avatar_url, ready, joined_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (room_id, user_id) DO UPDATE SET ready = EXCLUDED.ready`,
		member.RoomID, member.UserID, member.DisplayName, member.AvatarURL, member.Ready, member.JoinedAt)
	if err != nil {
		return fmt.Errorf("save room member: %w", err)
	}
	return nil
}

func (a *RoomArchiver) SaveMessage(ctx context.Context, msg domain.RoomMessage) error {
	_, err := a.pool.Exec(ctx,
		`INSERT INTO room_messages (id, room_id, user_id, sender, body, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.RoomID, msg.UserID, msg.Sender, msg.Text, msg.SentAt)
	if err != nil {
		return fmt.Errorf("save room message: %w", err)
	}
	return nil
}
