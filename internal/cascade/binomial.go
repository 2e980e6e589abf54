package cascade

import (
	"fmt"
	"math/bits"
)

// Binomial returns C(n, k) exactly. Every intermediate value is itself a
// binomial coefficient, so the division never truncates. It panics on
// uint64 overflow instead of returning a wrong count.
func Binomial(n, k uint64) uint64 {
	c, ok := binomial(n, k)
	if !ok {
		panic(fmt.Sprintf("cascade: C(%d,%d) overflows uint64", n, k))
	}
	return c
}

// binomial is Binomial reporting overflow instead of panicking.
func binomial(n, k uint64) (uint64, bool) {
	if k > n {
		return 0, true
	}
	if k > n-k {
		k = n - k
	}
	c := uint64(1)
	for i := uint64(0); i < k; i++ {
		hi, lo := bits.Mul64(c, n-i)
		if hi != 0 {
			return 0, false
		}
		c = lo / (i + 1)
	}
	return c, true
}

// checkDrawable rejects pools whose number of possible draws does not fit in
// uint64. Every split weight and every smaller pool's count is bounded by
// C(size, DrawSize), so passing this check rules out overflow later.
func checkDrawable(size uint32) error {
	if _, ok := binomial(uint64(size), DrawSize); !ok {
		return &PreconditionError{
			Field:  "pool_size",
			Reason: fmt.Sprintf("pool size %d is too large: C(%d,%d) overflows uint64", size, size, DrawSize),
		}
	}
	return nil
}
