package model

import "time"

// RoomCode is the human-readable identifier players use to join a room
type RoomCode string

// RoomStatus represents the current phase of a room
type RoomStatus string

const (
	RoomStatusWaitingForPlayers RoomStatus = "waiting_for_players" // Host seated, awaiting opponent
	RoomStatusWaitingForSecrets RoomStatus = "waiting_for_secrets" // Both seated, awaiting secrets
	RoomStatusInProgress        RoomStatus = "in_progress"         // Alternating guesses
	RoomStatusFinished          RoomStatus = "finished"            // Game over
)

// MaxPlayers is the fixed room capacity
const MaxPlayers = 2

// Room is an isolated two-player game session.
//
// Status transitions are monotonic: waiting_for_players →
// waiting_for_secrets → in_progress → finished, never backwards.
// Players are kept in join order; index 0 is the room creator.
type Room struct {
	Code    RoomCode
	Status  RoomStatus
	Players []Player
	// TurnIdx indexes Players for the player whose guess is accepted
	// next. Meaningful only while Status is in_progress.
	TurnIdx   int
	Winner    PlayerID // set when Status is finished by a winning guess or forfeit
	Rules     Rules
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFull reports whether the room has reached capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}

// GetPlayer returns the player with the given ID, or nil if not seated
func (r *Room) GetPlayer(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// GetPlayerByConnection returns the player seated on the given
// connection, or nil if the connection is not part of this room
func (r *Room) GetPlayerByConnection(conn ConnectionID) *Player {
	for i := range r.Players {
		if r.Players[i].ConnectionID == conn {
			return &r.Players[i]
		}
	}
	return nil
}

// Opponent returns the other seated player, or nil if the room is not full
func (r *Room) Opponent(id PlayerID) *Player {
	for i := range r.Players {
		if r.Players[i].ID != id {
			return &r.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the player holding the turn pointer, or nil
// before the game starts
func (r *Room) CurrentPlayer() *Player {
	if len(r.Players) == 0 || r.TurnIdx < 0 || r.TurnIdx >= len(r.Players) {
		return nil
	}
	return &r.Players[r.TurnIdx]
}

// BothSecretsSet reports whether every seated player has a secret
func (r *Room) BothSecretsSet() bool {
	if !r.IsFull() {
		return false
	}
	for i := range r.Players {
		if !r.Players[i].HasSecret() {
			return false
		}
	}
	return true
}

// PlayerNames returns display names in join order
func (r *Room) PlayerNames() []string {
	names := make([]string, len(r.Players))
	for i, p := range r.Players {
		names[i] = p.DisplayName
	}
	return names
}
