package sampler

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RandomSource abstracts where shuffles get their randomness.
type RandomSource interface {
	IntN(n int) int // [0, n)
}

// crypto random: default for interactive draws
type cryptoRNG struct{}

func (cryptoRNG) IntN(n int) int {
	if n <= 0 {
		panic("sampler: IntN argument must be positive")
	}
	// rejection sampling keeps the result unbiased
	bound := uint64(n)
	limit := ^uint64(0) - ^uint64(0)%bound
	var buf [8]byte
	for {
		if _, err := cryptoRand.Read(buf[:]); err != nil {
			// back to math/rand/v2
			return rand.IntN(n)
		}
		if v := binary.BigEndian.Uint64(buf[:]); v < limit {
			return int(v % bound)
		}
	}
}

// DefaultRNG is the source used when callers pass nil.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (tests, Monte Carlo with a fixed seed)
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a deterministic PCG-backed source.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) IntN(n int) int { return s.r.IntN(n) }
