package cascade

import (
	"fmt"
	"math"
)

// Distribution maps an outcome count (the index) to its probability.
type Distribution []float64

// NewDistribution returns an empty histogram covering 0..maxOutcome.
func NewDistribution(maxOutcome uint32) Distribution {
	return make(Distribution, int(maxOutcome)+1)
}

// deposit adds mass at outcome. An out-of-range outcome is a defect in the
// enumeration and panics; it is never clamped.
func (d Distribution) deposit(outcome uint32, mass float64) {
	if int(outcome) >= len(d) {
		panic(fmt.Sprintf("cascade: outcome %d outside distribution 0..%d", outcome, len(d)-1))
	}
	d[outcome] += mass
}

// Merge adds other into d. Both must cover the same outcome range.
func (d Distribution) Merge(other Distribution) {
	if len(other) != len(d) {
		panic(fmt.Sprintf("cascade: merging distributions of length %d and %d", len(d), len(other)))
	}
	for i, p := range other {
		d[i] += p
	}
}

// Sum is the total mass, 1 for a completed computation up to rounding.
func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d {
		s += p
	}
	return s
}

// Mean is the expected outcome.
func (d Distribution) Mean() float64 {
	var m float64
	for i, p := range d {
		m += float64(i) * p
	}
	return m
}

// Mode is the most likely outcome; ties resolve to the smaller one.
func (d Distribution) Mode() int {
	best := 0
	for i, p := range d {
		if p > d[best] {
			best = i
		}
	}
	return best
}

// Support lists the outcomes with non-zero probability in ascending order.
func (d Distribution) Support() []int {
	var out []int
	for i, p := range d {
		if p != 0 {
			out = append(out, i)
		}
	}
	return out
}

// AtLeast is the probability of reaching n or more.
func (d Distribution) AtLeast(n int) float64 {
	var s float64
	for i := max(n, 0); i < len(d); i++ {
		s += d[i]
	}
	return s
}

// Tolerance is the absolute error allowed on Sum after accumulating the
// given number of terminal branches.
func Tolerance(terminalBranches uint64) float64 {
	return math.Max(1e-12, 1e-9*float64(terminalBranches))
}
