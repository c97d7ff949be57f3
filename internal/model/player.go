package model

import "time"

// PlayerID uniquely identifies a player within a room
type PlayerID string

// ConnectionID identifies a live client connection.
// The transport layer assigns one per WebSocket connection; the
// coordinator uses it to map inbound actions back to a seated player.
type ConnectionID string

// Player represents a seated game participant
type Player struct {
	ID           PlayerID
	ConnectionID ConnectionID
	DisplayName  string
	Secret       string // empty until submitted, immutable afterwards
	Guesses      []GuessRecord
	JoinedAt     time.Time
}

// HasSecret reports whether the player has committed a secret
func (p *Player) HasSecret() bool {
	return p.Secret != ""
}

// GuessRecord is one scored guess in a player's history
type GuessRecord struct {
	Sequence int // insertion order within this player's history, from 0
	Guess    string
	Bulls    int
	Cows     int
	PlayerID PlayerID
	At       time.Time
}
