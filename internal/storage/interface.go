package storage

import (
	"context"

	"bullscows/internal/model"
)

// Storage defines the interface for room persistence.
//
// Rooms are small and room-scoped; implementations only need
// whole-room reads and writes keyed by room code.
type Storage interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
}
