package coordinator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"bullscows/internal/model"
)

// Inbound action payloads

// CreateRoomRequest is the payload for create_room
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// JoinRoomRequest is the payload for join_room
type JoinRoomRequest struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// SubmitSecretRequest is the payload for submit_secret
type SubmitSecretRequest struct {
	RoomID string `json:"room_id"`
	Secret string `json:"secret"`
}

// SubmitGuessRequest is the payload for submit_guess
type SubmitGuessRequest struct {
	RoomID string `json:"room_id"`
	Guess  string `json:"guess"`
}

func (c *Coordinator) handleCreateRoom(ctx context.Context, conn model.ConnectionID, data json.RawMessage) ([]model.Outbound, error) {
	var req CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("malformed create_room payload: %w", err)
	}
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	room, err := c.registry.CreateRoom(ctx, req.Name, conn, c.rules)
	if err != nil {
		return nil, err
	}

	c.track(conn, room.Code)

	return []model.Outbound{
		{
			To:    []model.ConnectionID{conn},
			Event: model.EventRoomCreated,
			Data:  model.RoomCreatedPayload{RoomID: string(room.Code)},
		},
		{
			To:    roomConns(room),
			Event: model.EventRoomUpdate,
			Data:  model.RoomUpdatePayload{Players: room.PlayerNames()},
		},
	}, nil
}

func (c *Coordinator) handleJoinRoom(ctx context.Context, conn model.ConnectionID, data json.RawMessage) ([]model.Outbound, error) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("malformed join_room payload: %w", err)
	}
	if req.Name == "" {
		return nil, errors.New("name is required")
	}

	code := model.RoomCode(req.RoomID)
	unlock := c.lockRoom(code)
	defer unlock()

	room, err := c.registry.JoinRoom(ctx, code, req.Name, conn)
	if err != nil {
		return nil, err
	}

	c.track(conn, room.Code)

	return []model.Outbound{
		{
			To:    roomConns(room),
			Event: model.EventRoomUpdate,
			Data:  model.RoomUpdatePayload{Players: room.PlayerNames()},
		},
	}, nil
}

func (c *Coordinator) handleSubmitSecret(ctx context.Context, conn model.ConnectionID, data json.RawMessage) ([]model.Outbound, error) {
	var req SubmitSecretRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("malformed submit_secret payload: %w", err)
	}

	code := model.RoomCode(req.RoomID)
	unlock := c.lockRoom(code)
	defer unlock()

	result, err := c.games.SubmitSecret(ctx, code, conn, req.Secret)
	if err != nil {
		return nil, err
	}

	out := []model.Outbound{
		{
			To:    []model.ConnectionID{conn},
			Event: model.EventSecretSaved,
			Data:  struct{}{},
		},
	}

	if result.Started {
		room := result.Room
		current := room.CurrentPlayer()
		waiting := room.Opponent(current.ID)

		out = append(out,
			model.Outbound{
				To:    roomConns(room),
				Event: model.EventStartGame,
				Data:  model.StartGamePayload{CurrentPlayer: current.DisplayName},
			},
			model.Outbound{
				To:    []model.ConnectionID{current.ConnectionID},
				Event: model.EventYourTurn,
				Data:  struct{}{},
			},
			model.Outbound{
				To:    []model.ConnectionID{waiting.ConnectionID},
				Event: model.EventWaitTurn,
				Data:  struct{}{},
			},
		)
	}

	return out, nil
}

func (c *Coordinator) handleSubmitGuess(ctx context.Context, conn model.ConnectionID, data json.RawMessage) ([]model.Outbound, error) {
	var req SubmitGuessRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("malformed submit_guess payload: %w", err)
	}

	code := model.RoomCode(req.RoomID)
	unlock := c.lockRoom(code)
	defer unlock()

	outcome, err := c.games.SubmitGuess(ctx, code, conn, req.Guess)
	if err != nil {
		return nil, err
	}

	room := outcome.Room

	if outcome.Finished {
		winner := outcome.Player
		loser := outcome.Opponent

		// Each recipient sees their own secret and the opponent's
		out := []model.Outbound{
			{
				To:    []model.ConnectionID{winner.ConnectionID},
				Event: model.EventGameOver,
				Data: model.GameOverPayload{
					Winner:         winner.DisplayName,
					YourSecret:     winner.Secret,
					OpponentSecret: loser.Secret,
				},
			},
			{
				To:    []model.ConnectionID{loser.ConnectionID},
				Event: model.EventGameOver,
				Data: model.GameOverPayload{
					Winner:         winner.DisplayName,
					YourSecret:     loser.Secret,
					OpponentSecret: winner.Secret,
				},
			},
		}

		// The game is over: tear the room down. Teardown failure must
		// not swallow the game_over events; the finished room is
		// unplayable either way.
		c.untrack(winner.ConnectionID)
		c.untrack(loser.ConnectionID)
		if err := c.registry.RemoveRoom(ctx, code); err != nil {
			c.logger.Error("room teardown failed",
				slog.String("room_code", string(code)),
				slog.String("error", err.Error()),
			)
		}
		c.dropRoomLock(code)

		return out, nil
	}

	next := room.CurrentPlayer()
	waiting := room.Opponent(next.ID)

	return []model.Outbound{
		{
			To:    roomConns(room),
			Event: model.EventGuessResult,
			Data: model.GuessResultPayload{
				PlayerID: string(outcome.Player.ID),
				Guess:    outcome.Record.Guess,
				Bulls:    outcome.Record.Bulls,
				Cows:     outcome.Record.Cows,
			},
		},
		{
			To:    []model.ConnectionID{next.ConnectionID},
			Event: model.EventYourTurn,
			Data:  struct{}{},
		},
		{
			To:    []model.ConnectionID{waiting.ConnectionID},
			Event: model.EventWaitTurn,
			Data:  struct{}{},
		},
	}, nil
}

// rejection maps a handler error to the action's rejection event,
// addressed to the originator only
func rejection(conn model.ConnectionID, action model.ActionType, err error) model.Outbound {
	event := model.EventRoomError
	switch action {
	case model.ActionSubmitSecret:
		event = model.EventSecretError
	case model.ActionSubmitGuess:
		event = model.EventInvalidTurn
	}

	return model.Outbound{
		To:    []model.ConnectionID{conn},
		Event: event,
		Data:  model.ErrorPayload{Message: errorMessage(err)},
	}
}

// errorMessage renders client-facing text for known failures
func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return "Room does not exist"
	case errors.Is(err, model.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, model.ErrAlreadyInRoom):
		return "Already in this room"
	case errors.Is(err, model.ErrInvalidSecret):
		return "Invalid secret"
	case errors.Is(err, model.ErrSecretAlreadySet):
		return "Secret already submitted"
	case errors.Is(err, model.ErrInvalidGuess):
		return "Invalid guess"
	case errors.Is(err, model.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, model.ErrGameNotInProgress):
		return "Game is not in progress"
	case errors.Is(err, model.ErrPlayerNotFound):
		return "You are not in this room"
	default:
		return err.Error()
	}
}

// roomConns collects the connection IDs of all seated players
func roomConns(room *model.Room) []model.ConnectionID {
	conns := make([]model.ConnectionID, 0, len(room.Players))
	for _, p := range room.Players {
		conns = append(conns, p.ConnectionID)
	}
	return conns
}
