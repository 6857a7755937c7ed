package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
)

var (
	// ErrEntropy indicates random bits could not be read from the backing reader.
	ErrEntropy = errors.New("entropy unavailable")
	// ErrInvalidRange indicates a sample was requested with max <= min.
	ErrInvalidRange = errors.New("max must be greater than min")
)

// CryptoSource draws uniform integers from a cryptographic reader.
type CryptoSource struct {
	reader io.Reader
}

// NewCryptoSource returns a source reading from r, or crypto/rand when r is nil.
func NewCryptoSource(r io.Reader) *CryptoSource {
	if r == nil {
		r = crand.Reader
	}
	return &CryptoSource{reader: r}
}

// IntBetween returns a uniformly distributed integer in [min, max).
func (s *CryptoSource) IntBetween(min, max int) (int, error) {
	if max <= min {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, min, max)
	}
	span := uint64(max - min)
	// Rejection sampling: discard draws from the incomplete final block.
	limit := math.MaxUint64 - math.MaxUint64%span
	var b [8]byte
	for {
		if _, err := io.ReadFull(s.reader, b[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrEntropy, err)
		}
		if v := binary.LittleEndian.Uint64(b[:]); v < limit {
			return min + int(v%span), nil
		}
	}
}

// SeededSource draws integers from a seeded math/rand generator.
//
// Two sources built from the same seed return the same sequence for the
// same sequence of calls.
type SeededSource struct {
	seed int64
	rng  *rand.Rand
}

// NewSeededSource creates a deterministic source for seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the source was created with.
func (s *SeededSource) Seed() int64 {
	return s.seed
}

// IntBetween returns a uniformly distributed integer in [min, max).
func (s *SeededSource) IntBetween(min, max int) (int, error) {
	if max <= min {
		return 0, fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, min, max)
	}
	return min + s.rng.Intn(max-min), nil
}
