package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"bullscows/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		Code:   "ABCDE",
		Status: model.RoomStatusWaitingForPlayers,
		Rules:  model.DefaultRules(),
	}

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.Equal(room.Code, got.Code)
	s.Equal(model.RoomStatusWaitingForPlayers, got.Status)
}

func (s *StorageSuite) TestGetRoomReturnsIsolatedCopy() {
	room := &model.Room{
		Code:   "ABCDE",
		Status: model.RoomStatusInProgress,
		Rules:  model.DefaultRules(),
		Players: []model.Player{
			{ID: "p-1", DisplayName: "Alice", Guesses: []model.GuessRecord{{Guess: "1234"}}},
			{ID: "p-2", DisplayName: "Bob"},
		},
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.Require().NoError(err)

	// Mutating the returned room must not change the stored one
	got.Status = model.RoomStatusFinished
	got.Players[0].DisplayName = "Mallory"
	got.Players[0].Guesses = append(got.Players[0].Guesses, model.GuessRecord{Guess: "5678"})

	again, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.Equal(model.RoomStatusInProgress, again.Status)
	s.Equal("Alice", again.Players[0].DisplayName)
	s.Len(again.Players[0].Guesses, 1)
}

func (s *StorageSuite) TestSaveRoomDetachesFromCaller() {
	room := &model.Room{
		Code:    "ABCDE",
		Status:  model.RoomStatusWaitingForPlayers,
		Players: []model.Player{{ID: "p-1", DisplayName: "Alice"}},
	}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	// Later mutations of the caller's pointer do not leak into storage
	room.Players[0].DisplayName = "Mallory"

	got, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.Equal("Alice", got.Players[0].DisplayName)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPES")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{Code: "ABCDE"}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABCDE"))

	_, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteMissingRoomIsNoop() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "NOPES"))
}

func (s *StorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABCDE"}))

	exists, err = s.storage.RoomExists(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.True(exists)
}
