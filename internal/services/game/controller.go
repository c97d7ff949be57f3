package game

import (
	"context"
	"errors"
	"log/slog"

	"bullscows/internal/dependencies/clock"
	"bullscows/internal/model"
	"bullscows/internal/scoring"
	"bullscows/internal/storage"
)

// Controller drives the per-room game state machine: secret
// submission, turn-ordered guessing, win detection, and forfeits.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new game controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "game")),
	}
}

// SecretResult reports the effect of a secret submission
type SecretResult struct {
	Room   *model.Room
	Player *model.Player
	// Started is true when this submission was the second secret and
	// the room transitioned to in_progress
	Started bool
}

// GuessOutcome reports the effect of an accepted guess
type GuessOutcome struct {
	Room     *model.Room
	Player   *model.Player
	Opponent *model.Player
	Record   model.GuessRecord
	// Finished is true when the guess matched the opponent's secret
	// and the room transitioned to finished
	Finished bool
}

// SubmitSecret records a player's secret. The secret is immutable
// once accepted. When both players have secrets the room moves to
// in_progress with the turn pointer on the room creator: the host
// always guesses first, so game starts are deterministic and
// replayable.
func (c *Controller) SubmitSecret(ctx context.Context, code model.RoomCode, conn model.ConnectionID, secret string) (*SecretResult, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayerByConnection(conn)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	if player.HasSecret() {
		return nil, model.ErrSecretAlreadySet
	}
	if room.Status == model.RoomStatusFinished {
		return nil, model.ErrGameNotInProgress
	}

	if err := scoring.ValidateCode(secret, room.Rules); err != nil {
		return nil, err
	}

	player.Secret = secret
	room.UpdatedAt = c.clock.Now()

	result := &SecretResult{Room: room, Player: player}

	if room.BothSecretsSet() {
		room.Status = model.RoomStatusInProgress
		room.TurnIdx = 0
		result.Started = true

		c.logger.Info("game started",
			slog.String("room_code", string(code)),
			slog.String("first_turn", room.Players[0].DisplayName),
		)
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return result, nil
}

// SubmitGuess scores a guess against the opponent's secret.
//
// Every accepted guess flips the turn pointer exactly once. A full
// match finishes the room; the room stays in storage so the
// coordinator can deliver game_over before tearing it down.
func (c *Controller) SubmitGuess(ctx context.Context, code model.RoomCode, conn model.ConnectionID, guess string) (*GuessOutcome, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayerByConnection(conn)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	if room.Status != model.RoomStatusInProgress {
		return nil, model.ErrGameNotInProgress
	}

	current := room.CurrentPlayer()
	if current == nil || current.ID != player.ID {
		return nil, model.ErrNotYourTurn
	}

	if err := scoring.ValidateCode(guess, room.Rules); err != nil {
		if errors.Is(err, model.ErrInvalidSecret) {
			return nil, model.ErrInvalidGuess
		}
		return nil, err
	}

	opponent := room.Opponent(player.ID)
	bulls, cows := scoring.Score(opponent.Secret, guess)

	record := model.GuessRecord{
		Sequence: len(player.Guesses),
		Guess:    guess,
		Bulls:    bulls,
		Cows:     cows,
		PlayerID: player.ID,
		At:       c.clock.Now(),
	}
	player.Guesses = append(player.Guesses, record)
	room.UpdatedAt = record.At

	outcome := &GuessOutcome{
		Room:     room,
		Player:   player,
		Opponent: opponent,
		Record:   record,
	}

	if bulls == room.Rules.CodeLength {
		room.Status = model.RoomStatusFinished
		room.Winner = player.ID
		outcome.Finished = true

		c.logger.Info("game finished",
			slog.String("room_code", string(code)),
			slog.String("winner", player.DisplayName),
			slog.Int("guesses", len(player.Guesses)),
		)
	} else {
		room.TurnIdx = 1 - room.TurnIdx
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	return outcome, nil
}

// DisconnectResult reports how a dropped connection was resolved
type DisconnectResult struct {
	Room     *model.Room
	Departed *model.Player
	Opponent *model.Player
	// Forfeited is true when the disconnect ended an in-progress game
	// with the remaining player as winner
	Forfeited bool
	// RoomRemoved is true when the room was deleted from storage
	RoomRemoved bool
}

// HandleDisconnect resolves a dropped connection. Mid-game the
// remaining player wins by forfeit and the room is removed; before
// the game starts the seat is freed, and an empty room is removed.
// There is no reconnection grace period.
func (c *Controller) HandleDisconnect(ctx context.Context, code model.RoomCode, conn model.ConnectionID) (*DisconnectResult, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayerByConnection(conn)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}

	result := &DisconnectResult{Room: room, Departed: player}

	switch room.Status {
	case model.RoomStatusInProgress:
		opponent := room.Opponent(player.ID)
		room.Status = model.RoomStatusFinished
		room.Winner = opponent.ID
		room.UpdatedAt = c.clock.Now()
		result.Opponent = opponent
		result.Forfeited = true
		result.RoomRemoved = true

		c.logger.Info("game forfeited on disconnect",
			slog.String("room_code", string(code)),
			slog.String("departed", player.DisplayName),
			slog.String("winner", opponent.DisplayName),
		)

		if err := c.storage.DeleteRoom(ctx, code); err != nil {
			return nil, err
		}

	case model.RoomStatusFinished:
		result.RoomRemoved = true
		if err := c.storage.DeleteRoom(ctx, code); err != nil {
			return nil, err
		}

	default:
		// Game not started: free the seat. Copy the departed player
		// first; removing their element shifts the slice under the
		// pointer GetPlayerByConnection returned.
		departed := *player
		result.Departed = &departed
		for i := range room.Players {
			if room.Players[i].ConnectionID == conn {
				room.Players = append(room.Players[:i], room.Players[i+1:]...)
				break
			}
		}
		room.UpdatedAt = c.clock.Now()

		if len(room.Players) == 0 {
			result.RoomRemoved = true
			if err := c.storage.DeleteRoom(ctx, code); err != nil {
				return nil, err
			}
		} else {
			result.Opponent = &room.Players[0]
			if err := c.storage.SaveRoom(ctx, room); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}
