package sim

import "errors"

var (
	// ErrProtocolViolation marks a game whose algorithm returned an
	// off-board coordinate, repeated a shot, or stopped before the
	// fleet was sunk. The batch keeps running; the game is recorded
	// as failed.
	ErrProtocolViolation = errors.New("algorithm violated shot protocol")

	// ErrNoGames is returned for a batch request with num_games < 1.
	ErrNoGames = errors.New("batch must run at least one game")
)
