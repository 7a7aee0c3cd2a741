// Package idgen generates UMF message identifiers.
//
// Long-form messages carry a random (version 4) UUID in canonical string form.
// Short-form messages carry a compact base-36 rendering of a random 64-bit
// integer. Neither is cryptographically secure; both have negligible
// collision probability over the lifetime of a process.
package idgen

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator produces message identifiers. Implementations must be safe for
// concurrent use.
type Generator interface {
	// MessageID returns a long unique identifier.
	MessageID() string
	// ShortID returns a shorter unique identifier.
	ShortID() string
}

// Random is the default Generator.
type Random struct{}

// MessageID returns a new random UUID.
func (Random) MessageID() string {
	return uuid.New().String()
}

// ShortID returns a base-36 encoded random 64-bit value.
func (Random) ShortID() string {
	return strconv.FormatUint(rand.Uint64(), 36)
}

// Default is the process-wide generator used when none is injected.
var Default Generator = Random{}

// MessageID returns a long identifier from the default generator.
func MessageID() string {
	return Default.MessageID()
}

// ShortID returns a short identifier from the default generator.
func ShortID() string {
	return Default.ShortID()
}

// Sequence is a deterministic Generator for tests. It returns the values in
// order and then repeats the last one. It is safe for concurrent use; IDs and
// ShortIDs must not be modified after the first call.
type Sequence struct {
	IDs      []string
	ShortIDs []string

	mu    sync.Mutex
	next  int
	nextS int
}

// MessageID returns the next configured long ID.
func (s *Sequence) MessageID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pick(s.IDs, &s.next)
}

// ShortID returns the next configured short ID.
func (s *Sequence) ShortID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pick(s.ShortIDs, &s.nextS)
}

func pick(values []string, i *int) string {
	if len(values) == 0 {
		return ""
	}
	if *i >= len(values) {
		return values[len(values)-1]
	}
	v := values[*i]
	*i++
	return v
}
