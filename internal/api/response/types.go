package response

import (
	"time"

	"bullscows/internal/model"
)

// GuessRecord is one scored guess in API responses
type GuessRecord struct {
	Sequence int    `json:"sequence"`
	Guess    string `json:"guess"`
	Bulls    int    `json:"bulls"`
	Cows     int    `json:"cows"`
}

// Player represents a seated player. Secrets are never exposed.
type Player struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"display_name"`
	HasSecret   bool          `json:"has_secret"`
	Guesses     []GuessRecord `json:"guesses,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	guesses := make([]GuessRecord, len(p.Guesses))
	for i, g := range p.Guesses {
		guesses[i] = GuessRecord{
			Sequence: g.Sequence,
			Guess:    g.Guess,
			Bulls:    g.Bulls,
			Cows:     g.Cows,
		}
	}
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		HasSecret:   p.HasSecret(),
		Guesses:     guesses,
	}
}

// Rules represents the room's code policy
type Rules struct {
	CodeLength   int    `json:"code_length"`
	Digits       string `json:"digits"`
	AllowRepeats bool   `json:"allow_repeats"`
}

// Room is a secret-free room snapshot
type Room struct {
	Code          string    `json:"code"`
	Status        string    `json:"status"`
	Players       []Player  `json:"players"`
	CurrentPlayer *string   `json:"current_player,omitempty"`
	Winner        *string   `json:"winner,omitempty"`
	Rules         Rules     `json:"rules"`
	CreatedAt     time.Time `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	players := make([]Player, len(r.Players))
	for i := range r.Players {
		players[i] = PlayerFromModel(&r.Players[i])
	}

	var current *string
	if r.Status == model.RoomStatusInProgress {
		if cp := r.CurrentPlayer(); cp != nil {
			name := cp.DisplayName
			current = &name
		}
	}

	var winner *string
	if r.Winner != "" {
		if w := r.GetPlayer(r.Winner); w != nil {
			name := w.DisplayName
			winner = &name
		}
	}

	return Room{
		Code:          string(r.Code),
		Status:        string(r.Status),
		Players:       players,
		CurrentPlayer: current,
		Winner:        winner,
		Rules: Rules{
			CodeLength:   r.Rules.CodeLength,
			Digits:       r.Rules.Digits,
			AllowRepeats: r.Rules.AllowRepeats,
		},
		CreatedAt: r.CreatedAt,
	}
}
