package sampler

import (
	"errors"
	"math"

	"github.com/xtding233/raisehell/internal/cascade"
)

// ErrInvalidTrials is returned for a non-positive trial count.
var ErrInvalidTrials = errors.New("trials must be positive")

// Stats summarizes simulation results.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Report is the outcome of RunMonteCarlo.
type Report struct {
	Trials int   `json:"trials"`
	Stats  Stats `json:"stats"`
	// Histogram holds observed frequencies on the same index range as the
	// exact distribution, so the two can be compared entry by entry.
	Histogram cascade.Distribution `json:"histogram"`
}

// calcStats computes mean/variance/percentiles from per-outcome counts:
// counts[v] is the number of trials that scored v.
func calcStats(counts []int) Stats {
	var n int
	var sum float64
	for v, c := range counts {
		n += c
		sum += float64(v) * float64(c)
	}
	if n == 0 {
		return Stats{}
	}
	mean := sum / float64(n)

	// variance (population)
	var acc float64
	for v, c := range counts {
		d := float64(v) - mean
		acc += d * d * float64(c)
	}
	variance := acc / float64(n)

	// at returns the i-th smallest sample.
	at := func(i int) float64 {
		for v, c := range counts {
			if i < c {
				return float64(v)
			}
			i -= c
		}
		return float64(len(counts) - 1)
	}
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return at(0)
		}
		if p >= 1 {
			return at(n - 1)
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return at(i)
		}
		return at(i)*(1-f) + at(i+1)*f
	}

	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    percentile(0.50),
		P90:    percentile(0.90),
		P99:    percentile(0.99),
	}
}

// RunMonteCarlo plays trials independent cascades and summarizes their
// outcomes.
func RunMonteCarlo(triggers uint32, pool cascade.Pool, trials int, rng RandomSource) (Report, error) {
	if trials <= 0 {
		return Report{}, ErrInvalidTrials
	}
	if err := pool.Validate(); err != nil {
		return Report{}, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	counts := make([]int, pool.MaxOutcome()+1)
	for range trials {
		v, err := SimulateOutcome(triggers, pool, rng)
		if err != nil {
			return Report{}, err
		}
		counts[v]++
	}
	hist := cascade.NewDistribution(pool.MaxOutcome())
	for v, c := range counts {
		hist[v] = float64(c) / float64(trials)
	}
	return Report{Trials: trials, Stats: calcStats(counts), Histogram: hist}, nil
}

// HitRate is the observed frequency of SampleHit over trials draws.
func HitRate(hits, poolSize uint32, trials int, rng RandomSource) (float64, error) {
	if trials <= 0 {
		return 0, ErrInvalidTrials
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	n := 0
	for range trials {
		ok, err := SampleHit(hits, poolSize, rng)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return float64(n) / float64(trials), nil
}
