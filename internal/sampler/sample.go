// Package sampler plays single random cascades. It exists to cross-check the
// exact results of package cascade statistically; nothing here is exact.
package sampler

import (
	"errors"

	"github.com/xtding233/raisehell/internal/cascade"
)

// ErrPoolTooSmall is returned when a single draw needs more cards than exist.
var ErrPoolTooSmall = errors.New("pool holds fewer cards than one draw")

// SampleHit exiles DrawSize cards at random from a pool of poolSize cards,
// hits of them marked, and reports whether any marked card was among them.
func SampleHit(hits, poolSize uint32, rng RandomSource) (bool, error) {
	if err := cascade.CheckHits(hits, poolSize); err != nil {
		return false, err
	}
	if poolSize < cascade.DrawSize {
		return false, ErrPoolTooSmall
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	got := drawFrom(rng, []uint32{hits, poolSize - hits})
	return got[0] > 0, nil
}

// SimulateOutcome plays one whole cascade with real draws and returns the
// outcome it reached. It applies the same state transitions as the exact
// enumeration, so the two can only disagree through sampling noise.
func SimulateOutcome(triggers uint32, pool cascade.Pool, rng RandomSource) (uint32, error) {
	if err := pool.Validate(); err != nil {
		return 0, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	s := cascade.Start(triggers, pool)
	for !s.Terminal() {
		p := s.Pool
		got := drawFrom(rng, []uint32{p.Primary, p.Toggle, p.Secondary, p.Filler()})
		s = s.Next(cascade.Split{Primary: got[0], Toggle: got[1], Secondary: got[2], Filler: got[3]}, 1)
	}
	return s.Outcome, nil
}

// drawFrom removes DrawSize cards uniformly without replacement from a
// multiset with the given category sizes and counts how many came from each.
// Picking card by card with weights equal to what is left is the same as
// shuffling and taking the top three.
func drawFrom(rng RandomSource, counts []uint32) []uint32 {
	left := append([]uint32(nil), counts...)
	var total uint32
	for _, c := range left {
		total += c
	}
	got := make([]uint32, len(counts))
	for range cascade.DrawSize {
		r := uint32(rng.IntN(int(total)))
		for i, c := range left {
			if r < c {
				got[i]++
				left[i]--
				break
			}
			r -= c
		}
		total--
	}
	return got
}
