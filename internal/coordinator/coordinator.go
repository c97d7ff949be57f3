// Package coordinator translates inbound client actions into room
// mutations and outbound events.
//
// Handlers are pure with respect to the transport: they take a decoded
// action and return the events to deliver, so the whole event flow is
// testable without a live connection. The WebSocket layer only decodes
// envelopes and delivers Outbound messages.
package coordinator

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"bullscows/internal/model"
	"bullscows/internal/services/game"
	"bullscows/internal/services/registry"
)

// handlerFunc processes one decoded action for a connection
type handlerFunc func(ctx context.Context, conn model.ConnectionID, data json.RawMessage) ([]model.Outbound, error)

// Coordinator routes actions to handlers and owns the
// connection-to-room bookkeeping.
//
// Actions for the same room are serialized through a per-room lock, so
// turn alternation and secret submission can never interleave. Actions
// for different rooms proceed concurrently.
type Coordinator struct {
	registry *registry.Controller
	games    *game.Controller
	rules    model.Rules
	logger   *slog.Logger

	handlers map[model.ActionType]handlerFunc

	mu         sync.Mutex
	roomByConn map[model.ConnectionID]model.RoomCode
	roomLocks  map[model.RoomCode]*sync.Mutex
}

// New creates a coordinator wired to the given controllers
func New(reg *registry.Controller, games *game.Controller, rules model.Rules, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		registry:   reg,
		games:      games,
		rules:      rules,
		logger:     logger.With(slog.String("component", "coordinator")),
		roomByConn: make(map[model.ConnectionID]model.RoomCode),
		roomLocks:  make(map[model.RoomCode]*sync.Mutex),
	}

	c.handlers = map[model.ActionType]handlerFunc{
		model.ActionCreateRoom:   c.handleCreateRoom,
		model.ActionJoinRoom:     c.handleJoinRoom,
		model.ActionSubmitSecret: c.handleSubmitSecret,
		model.ActionSubmitGuess:  c.handleSubmitGuess,
	}

	return c
}

// Dispatch handles one inbound action and returns the events to
// deliver. Errors never escape: operation failures become a rejection
// event addressed to the originating connection, and malformed or
// unknown actions are dropped with a logged warning.
func (c *Coordinator) Dispatch(ctx context.Context, conn model.ConnectionID, action model.ActionType, data json.RawMessage) []model.Outbound {
	handler, ok := c.handlers[action]
	if !ok {
		c.logger.Warn("unknown action dropped",
			slog.String("action", string(action)),
			slog.String("conn", string(conn)),
		)
		return nil
	}

	out, err := handler(ctx, conn, data)
	if err != nil {
		c.logger.Info("action rejected",
			slog.String("action", string(action)),
			slog.String("conn", string(conn)),
			slog.String("reason", err.Error()),
		)
		return []model.Outbound{rejection(conn, action, err)}
	}
	return out
}

// HandleDisconnect resolves a dropped connection: mid-game the
// remaining player wins by forfeit, otherwise the seat is freed. The
// returned events notify the remaining player, if any.
func (c *Coordinator) HandleDisconnect(ctx context.Context, conn model.ConnectionID) []model.Outbound {
	code, ok := c.roomOf(conn)
	if !ok {
		// Connection never joined a room
		return nil
	}

	unlock := c.lockRoom(code)
	defer unlock()

	c.untrack(conn)

	result, err := c.games.HandleDisconnect(ctx, code, conn)
	if err != nil {
		// Stale connection or already-removed room: nothing to do
		c.logger.Warn("disconnect cleanup skipped",
			slog.String("room_code", string(code)),
			slog.String("conn", string(conn)),
			slog.String("reason", err.Error()),
		)
		return nil
	}

	if result.RoomRemoved {
		c.dropRoomLock(code)
	}

	if result.Forfeited {
		opp := result.Opponent
		c.untrack(opp.ConnectionID)
		return []model.Outbound{{
			To:    []model.ConnectionID{opp.ConnectionID},
			Event: model.EventGameOver,
			Data: model.GameOverPayload{
				Winner:         opp.DisplayName,
				YourSecret:     opp.Secret,
				OpponentSecret: result.Departed.Secret,
			},
		}}
	}

	if result.Opponent != nil {
		return []model.Outbound{{
			To:    []model.ConnectionID{result.Opponent.ConnectionID},
			Event: model.EventRoomUpdate,
			Data:  model.RoomUpdatePayload{Players: result.Room.PlayerNames()},
		}}
	}

	return nil
}

// roomOf returns the room a connection is seated in
func (c *Coordinator) roomOf(conn model.ConnectionID) (model.RoomCode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code, ok := c.roomByConn[conn]
	return code, ok
}

// track records a connection's room membership
func (c *Coordinator) track(conn model.ConnectionID, code model.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomByConn[conn] = code
}

// untrack forgets a connection
func (c *Coordinator) untrack(conn model.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roomByConn, conn)
}

// lockRoom serializes action handling per room. The returned func
// releases the lock.
func (c *Coordinator) lockRoom(code model.RoomCode) func() {
	c.mu.Lock()
	lock, ok := c.roomLocks[code]
	if !ok {
		lock = &sync.Mutex{}
		c.roomLocks[code] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// dropRoomLock forgets the lock for a removed room
func (c *Coordinator) dropRoomLock(code model.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.roomLocks, code)
}
