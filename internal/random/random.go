// Package random provides the generators rounds draw their secrets and
// hints from.
//
// Each round gets its own PCG generator seeded from crypto/rand, so no
// generator is shared between sessions.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed reads two 64-bit words from crypto/rand.
func NewSeed() (uint64, uint64, error) {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]), nil
}

// New returns a freshly seeded generator. If the system entropy source
// fails it falls back to the runtime-seeded global source.
func New() *rand.Rand {
	s1, s2, err := NewSeed()
	if err != nil {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(s1, s2))
}

// Seeded returns a deterministic generator, for replays and tests.
func Seeded(s1, s2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(s1, s2))
}
