package archecs

import "github.com/rotisserie/eris"

var (
	// ErrRegistryFull is returned when MaxComponents types are already registered.
	ErrRegistryFull = eris.New("component registry is full")
	// ErrInvalidComponentSize is returned for zero-sized components.
	ErrInvalidComponentSize = eris.New("component size must be greater than zero")
	// ErrInvalidAlignment is returned for alignments that are not a power of
	// two or exceed alloc.MaxAlign.
	ErrInvalidAlignment = eris.New("component alignment must be a power of two no greater than 64")
	// ErrComponentHasPointers is returned by Register for Go types that hold
	// pointers, which chunk storage cannot keep alive.
	ErrComponentHasPointers = eris.New("component type contains pointers")
	// ErrEntityNotAlive is returned by mutations on destroyed or foreign ids.
	ErrEntityNotAlive = eris.New("entity is not alive")
	// ErrInvalidConfig is returned by NewWorld for unusable configuration.
	ErrInvalidConfig = eris.New("invalid world config")
)
