package domain

import "errors"

var (
	// ErrRoomNotFound is returned when the room id resolves to nothing.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomFull is returned when a join would exceed the room's capacity.
	ErrRoomFull = errors.New("room is full")
	// ErrRoomNotWaiting is returned when a lobby operation hits a room that
	// already started or finished.
	ErrRoomNotWaiting = errors.New("room is not waiting")
	// ErrRoomFinished guards the terminal state against further writes.
	ErrRoomFinished = errors.New("room already finished")
	// ErrNotRoomOwner is returned when a non-owner tries to start the game.
	ErrNotRoomOwner = errors.New("only the room owner may start the game")
	// ErrMembersNotReady is returned when the start gate fails the all-ready check.
	ErrMembersNotReady = errors.New("not all members are ready")
	// ErrNotEnoughMembers is returned when the start gate fails the minimum-two check.
	ErrNotEnoughMembers = errors.New("at least two members are required to start")
	// ErrMemberNotFound is returned when a user acts in a room they never joined.
	ErrMemberNotFound = errors.New("member not found in room")

	// ErrSessionNotFound is returned when a game session has not been started.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrSessionOver is returned for actions after the session reached game over.
	ErrSessionOver = errors.New("game session is over")
	// ErrPlayerNotFound is returned when a player id is not part of the session.
	ErrPlayerNotFound = errors.New("player not found in session")
	// ErrNotPlayersTurn is returned when someone other than the current player acts.
	ErrNotPlayersTurn = errors.New("not this player's turn")
	// ErrQuestionLocked is returned when the current question was already answered.
	ErrQuestionLocked = errors.New("question already answered")
	// ErrHelperUsed is returned on a second use of the same one-shot helper.
	ErrHelperUsed = errors.New("helper already used")
	// ErrEmptyPool indicates the difficulty filter left no questions to play.
	ErrEmptyPool = errors.New("no questions available for difficulty")
	// ErrNoPlayers indicates a session start with an empty roster.
	ErrNoPlayers = errors.New("no players in session")
	// ErrBlankPlayerName rejects a roster entry with an empty display name.
	ErrBlankPlayerName = errors.New("player name must not be blank")
	// ErrDuplicatePlayerName rejects two roster entries sharing a name.
	ErrDuplicatePlayerName = errors.New("player names must be unique")
)
