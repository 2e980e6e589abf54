package cascade

import "fmt"

// CheckHits validates a marked-card count against a pool size, and the
// pool size against the exact draw count.
func CheckHits(hits, poolSize uint32) error {
	if hits > poolSize {
		return &PreconditionError{
			Field:  "hits",
			Reason: fmt.Sprintf("%d marked cards exceed pool size %d", hits, poolSize),
		}
	}
	return checkDrawable(poolSize)
}

// SequentialHitProbability is the chance that at least one of triggers
// draws finds a marked card, with the pool shrinking by DrawSize per draw
// whatever was found. Once fewer than DrawSize cards remain the answer is
// settled: certain when any marked card is left, impossible otherwise.
func SequentialHitProbability(hits, poolSize, triggers uint32) (float64, error) {
	if err := CheckHits(hits, poolSize); err != nil {
		return 0, err
	}
	miss := 1.0
	size := poolSize
	for range triggers {
		if size < DrawSize {
			if hits != 0 {
				miss = 0
			} else {
				miss = 1
			}
			break
		}
		miss *= float64(Binomial(uint64(size-hits), DrawSize)) / float64(Binomial(uint64(size), DrawSize))
		if miss == 0 {
			// size-hits would underflow on a later step
			break
		}
		size -= DrawSize
	}
	return 1 - miss, nil
}
