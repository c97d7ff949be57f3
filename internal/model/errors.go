package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("connection is already seated in room")

	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Secret errors
	ErrInvalidSecret    = errors.New("invalid secret")
	ErrSecretAlreadySet = errors.New("secret has already been submitted")

	// Guess errors
	ErrInvalidGuess      = errors.New("invalid guess")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrGameNotInProgress = errors.New("game is not in progress")
)
