// Package ids mints entity identifiers and supplies the wall clock.
package ids

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator mints unique identifiers.
type Generator interface {
	NewID() string
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// UUIDv7 generates time-sortable UUIDv7 identifiers.
//
// UUIDv7 embeds a millisecond timestamp in the most significant bits, so IDs
// minted later sort later. Collisions within a session are negligible.
//
// Thread-safety: UUIDv7 is stateless and safe for concurrent use.
type UUIDv7 struct{}

// NewID returns a hyphenated UUIDv7 string.
//
// Panics if the random source fails (should never happen in practice).
func (UUIDv7) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Sequence returns prefix-1, prefix-2, ... for deterministic tests and
// golden snapshots.
//
// Thread-safety: Sequence is safe for concurrent use via internal mutex.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence creates a Sequence. An empty prefix defaults to "id".
func NewSequence(prefix string) *Sequence {
	if prefix == "" {
		prefix = "id"
	}
	return &Sequence{prefix: prefix}
}

// NewID returns the next identifier in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}

// Fixed returns predetermined identifiers in order.
//
// Panics once all identifiers are consumed. A test that mints more IDs than
// it declared is misconfigured.
type Fixed struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixed creates a generator that returns ids in order.
func NewFixed(ids ...string) *Fixed {
	return &Fixed{ids: ids}
}

// NewID returns the next predetermined identifier.
func (f *Fixed) NewID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.idx >= len(f.ids) {
		panic("ids.Fixed: all identifiers exhausted")
	}
	id := f.ids[f.idx]
	f.idx++
	return id
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }
