// Package random supplies the bounded integer sources dungeon generation
// samples from.
//
// Two sources are provided: a crypto/rand backed source for one-off
// layouts, and a seeded math/rand source for layouts that must be
// reproducible from a stored seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// NewSeed generates a random seed using crypto/rand.
//
// Zero is never returned so callers can keep using 0 as "no seed chosen".
func NewSeed() (int64, error) {
	return newSeedFrom(crand.Reader)
}

func newSeedFrom(r io.Reader) (int64, error) {
	var b [8]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, fmt.Errorf("%w: read random seed: %w", ErrEntropy, err)
		}
		if seed := int64(binary.LittleEndian.Uint64(b[:])); seed != 0 {
			return seed, nil
		}
	}
}
