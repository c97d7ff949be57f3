package registry

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"bullscows/internal/dependencies/clock"
	"bullscows/internal/dependencies/random"
	"bullscows/internal/model"
	"bullscows/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 5
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Controller owns room creation and membership.
//
// It is an injected instance with explicit lifecycle, not a
// module-level singleton: created once at process start, torn down
// with the process.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new room registry controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "registry")),
	}
}

// CreateRoom creates a room with the host as its sole player.
// Always succeeds on valid input; codes are regenerated on collision.
func (c *Controller) CreateRoom(ctx context.Context, hostName string, hostConn model.ConnectionID, rules model.Rules) (*model.Room, error) {
	now := c.clock.Now()

	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	room := &model.Room{
		Code:   code,
		Status: model.RoomStatusWaitingForPlayers,
		Rules:  rules,
		Players: []model.Player{
			{
				ID:           model.PlayerID(uuid.NewString()),
				ConnectionID: hostConn,
				DisplayName:  hostName,
				JoinedAt:     now,
			},
		},
		TurnIdx:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_code", string(code)),
		slog.String("host", hostName),
	)

	return room, nil
}

// GetRoom retrieves a room by code
func (c *Controller) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// JoinRoom seats a player in an existing room. The second join
// transitions the room to waiting_for_secrets; callers can check
// IsFull on the returned room to broadcast the updated roster.
func (c *Controller) JoinRoom(ctx context.Context, code model.RoomCode, name string, conn model.ConnectionID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.GetPlayerByConnection(conn) != nil {
		return nil, model.ErrAlreadyInRoom
	}

	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	now := c.clock.Now()
	room.Players = append(room.Players, model.Player{
		ID:           model.PlayerID(uuid.NewString()),
		ConnectionID: conn,
		DisplayName:  name,
		JoinedAt:     now,
	})

	if room.IsFull() {
		room.Status = model.RoomStatusWaitingForSecrets
	}
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player joined room",
		slog.String("room_code", string(code)),
		slog.String("player", name),
		slog.Int("seated", len(room.Players)),
	)

	return room, nil
}

// RemoveRoom deletes a room from storage
func (c *Controller) RemoveRoom(ctx context.Context, code model.RoomCode) error {
	return c.storage.DeleteRoom(ctx, code)
}
