package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"bullscows/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.RoomTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		Code:   "ABCDE",
		Status: model.RoomStatusWaitingForSecrets,
		Rules:  model.DefaultRules(),
		Players: []model.Player{
			{ID: "player-1", ConnectionID: "conn-1", DisplayName: "Alice", Secret: "1234"},
			{ID: "player-2", ConnectionID: "conn-2", DisplayName: "Bob"},
		},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.Require().NoError(err)
	s.Equal(room.Code, got.Code)
	s.Equal(model.RoomStatusWaitingForSecrets, got.Status)
	s.Len(got.Players, 2)
	s.Equal("Alice", got.Players[0].DisplayName)
	s.Equal("1234", got.Players[0].Secret)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPES")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABCDE"}))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABCDE"))

	_, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.ErrorIs(err, model.ErrRoomNotFound)
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

func (s *StorageSuite) TestRoomTTLApplied() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, &model.Room{Code: "ABCDE"}))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetRoom(s.ctx, "ABCDE")
	s.ErrorIs(err, model.ErrRoomNotFound)
}
