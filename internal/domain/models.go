package domain

import "time"

// Difficulty selects which band of the question bank a session draws from.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known bands.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a single multiple-choice trivia item. Options always has four
// entries; Answer is the index of the correct one.
type Question struct {
	ID         string     `json:"id"`
	Prompt     string     `json:"prompt"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	Options    []string   `json:"options"`
	Answer     int        `json:"answer"`
	Difficulty Difficulty `json:"difficulty"`
	Hint       string     `json:"hint,omitempty"`
}

// RoomStatus is the lifecycle state of a multiplayer room.
// Transitions only move forward: waiting -> playing -> finished.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomPlaying  RoomStatus = "playing"
	RoomFinished RoomStatus = "finished"
)

// Room is a multiplayer lobby.
type Room struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	OwnerID    string     `json:"ownerId"`
	Difficulty Difficulty `json:"difficulty"`
	MaxPlayers int        `json:"maxPlayers"`
	Status     RoomStatus `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// RoomMember is one user's membership in a room, with their ready flag.
type RoomMember struct {
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Ready       bool      `json:"ready"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// RoomMessage is one chat line in a room. Messages are append-only.
type RoomMessage struct {
	ID     string    `json:"id"`
	RoomID string    `json:"roomId"`
	UserID string    `json:"userId"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}

// RoomSnapshot is the full authoritative view of a room pushed to every
// subscriber on any change. Clients replace their local state with it
// wholesale instead of applying deltas.
type RoomSnapshot struct {
	Room     Room          `json:"room"`
	Members  []RoomMember  `json:"members"`
	Messages []RoomMessage `json:"messages"`
	SentAt   time.Time     `json:"sentAt"`
}

// Player is a quiz participant registered with a display name and avatar
// only. A Player with an empty ID is ephemeral and never persisted.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// HelperKind is one of the three one-shot aids a player may spend per session.
type HelperKind string

const (
	HelperShowHint       HelperKind = "showHint"
	HelperRemoveOptions  HelperKind = "removeOptions"
	HelperChangeQuestion HelperKind = "changeQuestion"
)

// QuizResult is one player's final outcome for one completed session.
type QuizResult struct {
	ID             string     `json:"id"`
	PlayerID       string     `json:"playerId"`
	PlayerName     string     `json:"playerName"`
	AvatarURL      string     `json:"avatarUrl,omitempty"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Difficulty     Difficulty `json:"difficulty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// LeaderboardEntry is a ranked result row. Rank is zero-based; tied scores at
// the top share rank 0 and are all reported as joint first.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"playerName"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	JointFirst bool   `json:"jointFirst"`
}

// Leaderboard is an ordered scoreboard, optionally filtered by difficulty.
type Leaderboard struct {
	Difficulty Difficulty         `json:"difficulty,omitempty"`
	Entries    []LeaderboardEntry `json:"entries"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}
