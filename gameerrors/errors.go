package gameerrors

import "errors"

// Rule and lookup sentinel errors. Used by both game and api packages so the
// HTTP layer can match on them without importing game internals.
var (
	ErrNotYourTurn      = errors.New("it is not your turn")
	ErrInvalidCard      = errors.New("invalid card")
	ErrMustPlayCountess = errors.New("you must play the Countess (7)")
	ErrInvalidGuess     = errors.New("guess must be a rank between 2 and 8")
	ErrLobbyFull        = errors.New("lobby is full or the game already started")
	ErrGameStarted      = errors.New("the game already started")
	ErrNotEnoughPlayers = errors.New("at least 2 players are required")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrLobbyNotFound    = errors.New("lobby not found")
)
