// Package strtable is an open-addressing hash table keyed by strings.
//
// Collisions are resolved by linear probing and deletions leave tombstones.
// The table grows before an insert would push occupancy (live entries plus
// tombstones) past three quarters of its slots. Independently of load, no
// insert probes more than MaxProbes slots: a key whose probe window is full
// is rejected with ErrProbeLimit rather than stored further away.
package strtable

import (
	"github.com/cespare/xxhash/v2"
	"github.com/rotisserie/eris"
)

const (
	// DefaultMaxProbes is the probe ceiling used when none is given.
	DefaultMaxProbes = 32

	minCapacity = 16
	loadNum     = 3
	loadDen     = 4
)

// ErrProbeLimit is returned by Put when every slot in a key's probe window
// holds another key.
var ErrProbeLimit = eris.New("strtable: probe limit reached")

// Hasher maps a key to a 64-bit hash.
type Hasher func(key string) uint64

// DefaultHasher is xxhash64.
func DefaultHasher(key string) uint64 {
	return xxhash.Sum64String(key)
}

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

type slot[V any] struct {
	key   string
	value V
	hash  uint64
	state slotState
}

// Table maps strings to values of type V.
type Table[V any] struct {
	hasher     Hasher
	slots      []slot[V]
	count      int
	tombstones int
	maxProbes  int
}

// New creates a table with room for at least capacity slots. A zero
// maxProbes selects DefaultMaxProbes and a nil hasher selects DefaultHasher.
func New[V any](capacity, maxProbes int, hasher Hasher) *Table[V] {
	if hasher == nil {
		hasher = DefaultHasher
	}
	if maxProbes <= 0 {
		maxProbes = DefaultMaxProbes
	}
	return &Table[V]{
		hasher:    hasher,
		slots:     make([]slot[V], roundCapacity(capacity)),
		maxProbes: maxProbes,
	}
}

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	return t.count
}

// Cap returns the number of slots.
func (t *Table[V]) Cap() int {
	return len(t.slots)
}

// MaxProbes returns the probe ceiling.
func (t *Table[V]) MaxProbes() int {
	return t.maxProbes
}

// Get looks up key.
func (t *Table[V]) Get(key string) (V, bool) {
	if i := t.find(key, t.hasher(key)); i >= 0 {
		return t.slots[i].value, true
	}
	var zero V
	return zero, false
}

// Put stores value under key, replacing any previous value.
func (t *Table[V]) Put(key string, value V) error {
	h := t.hasher(key)
	if i := t.find(key, h); i >= 0 {
		t.slots[i].value = value
		return nil
	}
	if (t.count+t.tombstones+1)*loadDen > len(t.slots)*loadNum {
		t.rehash()
	}
	if !t.insert(key, value, h, t.maxProbes) {
		return eris.Wrapf(ErrProbeLimit, "key %q after %d probes (%d/%d slots used)", key, t.maxProbes, t.count, len(t.slots))
	}
	return nil
}

// Delete removes key, leaving a tombstone. It reports whether key was present.
func (t *Table[V]) Delete(key string) bool {
	i := t.find(key, t.hasher(key))
	if i < 0 {
		return false
	}
	var zero V
	t.slots[i] = slot[V]{value: zero, state: slotTombstone}
	t.count--
	t.tombstones++
	return true
}

// Range calls fn for every entry in slot order until fn returns false.
func (t *Table[V]) Range(fn func(key string, value V) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.state == slotOccupied && !fn(s.key, s.value) {
			return
		}
	}
}

// find returns the slot index of key or -1. The scan runs to the end of the
// cluster: rehash may have placed an entry past its probe window.
func (t *Table[V]) find(key string, h uint64) int {
	mask := uint64(len(t.slots) - 1)
	idx := h & mask
	for range len(t.slots) {
		s := &t.slots[idx]
		switch s.state {
		case slotEmpty:
			return -1
		case slotOccupied:
			if s.hash == h && s.key == key {
				return int(idx)
			}
		}
		idx = (idx + 1) & mask
	}
	return -1
}

func (t *Table[V]) insert(key string, value V, h uint64, limit int) bool {
	mask := uint64(len(t.slots) - 1)
	idx := h & mask
	for range min(limit, len(t.slots)) {
		s := &t.slots[idx]
		if s.state != slotOccupied {
			if s.state == slotTombstone {
				t.tombstones--
			}
			*s = slot[V]{key: key, value: value, hash: h, state: slotOccupied}
			t.count++
			return true
		}
		idx = (idx + 1) & mask
	}
	return false
}

// rehash doubles the slot count when live entries alone would exceed the
// load factor, otherwise rebuilds at the same size to drop tombstones.
func (t *Table[V]) rehash() {
	size := len(t.slots)
	if (t.count+1)*loadDen > size*loadNum {
		size *= 2
	}
	old := t.slots
	t.slots = make([]slot[V], size)
	t.count = 0
	t.tombstones = 0
	for i := range old {
		s := &old[i]
		if s.state == slotOccupied {
			// Entries that fit before must survive the rebuild, so the
			// window is unbounded here.
			t.insert(s.key, s.value, s.hash, len(t.slots))
		}
	}
}

func roundCapacity(n int) int {
	c := minCapacity
	for c < n {
		c <<= 1
	}
	return c
}
