package factory

import (
	"errors"
	"io"
	"log/slog"

	"bullscows/internal/coordinator"
	"bullscows/internal/dependencies/clock"
	"bullscows/internal/dependencies/random"
	"bullscows/internal/model"
	"bullscows/internal/services/game"
	"bullscows/internal/services/registry"
	"bullscows/internal/storage"
	"bullscows/internal/storage/memory"
	redisstorage "bullscows/internal/storage/redis"
	"bullscows/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	Registry       *registry.Controller
	GameController *game.Controller
	Coordinator    *coordinator.Coordinator
	Hub            *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// Rules is the code policy applied to new rooms
	// If zero value, defaults to model.DefaultRules()
	Rules model.Rules
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	rules := cfg.Rules
	if rules.CodeLength == 0 {
		rules = model.DefaultRules()
	}

	return newWithDependencies(store, clock.New(), random.New(), rules, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, rules model.Rules, logger *slog.Logger) *App {
	reg := registry.NewController(store, clk, rnd, logger)
	games := game.NewController(store, clk, logger)
	coord := coordinator.New(reg, games, rules, logger)
	hub := ws.NewHub(coord, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Registry:       reg,
		GameController: games,
		Coordinator:    coord,
		Hub:            hub,
	}
}
