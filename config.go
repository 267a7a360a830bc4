package archecs

import (
	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/archecs/alloc"
	"github.com/edwinsyarief/archecs/internal/strtable"
)

const (
	// DefaultChunkBytes is the default byte budget of one chunk.
	DefaultChunkBytes = 16 * 1024
	// DefaultInitialEntities is the default initial directory capacity.
	DefaultInitialEntities = 1024
)

// Config sizes a World.
//
// LoadConfig fills it from the environment; field names map to
// ECS_-prefixed snake case variables.
type Config struct {
	// ChunkBytes is the fixed byte budget of every chunk.
	ChunkBytes int `config:"ECS_CHUNK_BYTES"`
	// InitialEntities is the starting capacity of the entity directory.
	InitialEntities int `config:"ECS_INITIAL_ENTITIES"`
	// WorldID is stamped into every EntityID the World creates (0-65535).
	WorldID int `config:"ECS_WORLD_ID"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkBytes:      DefaultChunkBytes,
		InitialEntities: DefaultInitialEntities,
	}
}

// LoadConfig returns DefaultConfig overlaid with any ECS_CHUNK_BYTES,
// ECS_INITIAL_ENTITIES and ECS_WORLD_ID environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if err := jlconfig.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load config from environment")
	}
	return cfg, cfg.Validate()
}

// Validate reports whether the configuration can back a World.
func (c Config) Validate() error {
	if c.ChunkBytes < entityIDSize {
		return eris.Wrapf(ErrInvalidConfig, "chunk budget %d is smaller than one entity id", c.ChunkBytes)
	}
	if c.InitialEntities <= 0 {
		return eris.Wrapf(ErrInvalidConfig, "initial entity capacity %d must be positive", c.InitialEntities)
	}
	if c.WorldID < 0 || c.WorldID > 0xFFFF {
		return eris.Wrapf(ErrInvalidConfig, "world id %d does not fit in 16 bits", c.WorldID)
	}
	return nil
}

// Option customises a World at construction.
type Option func(*World)

// WithAllocator makes the World allocate all storage through a.
func WithAllocator(a alloc.Allocator) Option {
	return func(w *World) {
		w.allocator = a
	}
}

// WithLogger sets the World's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(w *World) {
		w.logger = l
	}
}

// WithHasher replaces the hash function of the archetype key table.
func WithHasher(h strtable.Hasher) Option {
	return func(w *World) {
		w.hasher = h
	}
}
