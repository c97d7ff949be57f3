package model

// ActionType identifies an inbound client action
type ActionType string

const (
	ActionCreateRoom   ActionType = "create_room"
	ActionJoinRoom     ActionType = "join_room"
	ActionSubmitSecret ActionType = "submit_secret"
	ActionSubmitGuess  ActionType = "submit_guess"
)

// EventType identifies an outbound server event
type EventType string

const (
	EventRoomCreated EventType = "room_created"
	EventRoomUpdate  EventType = "room_update"
	EventSecretSaved EventType = "secret_saved"
	EventStartGame   EventType = "start_game"
	EventYourTurn    EventType = "your_turn"
	EventWaitTurn    EventType = "wait_turn"
	EventGuessResult EventType = "guess_result"
	EventGameOver    EventType = "game_over"

	// Rejection events, addressed to the originating connection only
	EventRoomError   EventType = "room_error"
	EventSecretError EventType = "secret_error"
	EventInvalidTurn EventType = "invalid_turn"
)

// Outbound is a single server event addressed to explicit connections.
// Handlers return these; the transport layer delivers them without
// knowing anything about rooms or players.
type Outbound struct {
	To    []ConnectionID
	Event EventType
	Data  any
}

// RoomCreatedPayload is sent to the creator
type RoomCreatedPayload struct {
	RoomID string `json:"room_id"`
}

// RoomUpdatePayload carries the roster in join order
type RoomUpdatePayload struct {
	Players []string `json:"players"`
}

// StartGamePayload names the player who guesses first
type StartGamePayload struct {
	CurrentPlayer string `json:"current_player"`
}

// GuessResultPayload is broadcast to the whole room after a scored guess
type GuessResultPayload struct {
	PlayerID string `json:"player_id"`
	Guess    string `json:"guess"`
	Bulls    int    `json:"bulls"`
	Cows     int    `json:"cows"`
}

// GameOverPayload is recipient-specific: each player sees their own
// secret and the opponent's
type GameOverPayload struct {
	Winner         string `json:"winner"`
	YourSecret     string `json:"your_secret"`
	OpponentSecret string `json:"opponent_secret"`
}

// ErrorPayload carries a rejection message back to the originator
type ErrorPayload struct {
	Message string `json:"message"`
}
