// Package cascade computes exact outcome distributions for the Hellraiser
// cascade: every trigger exiles three cards from a shrinking graveyard and
// the cards it finds decide how many more triggers follow.
package cascade

import "fmt"

// DrawSize is the number of cards one trigger removes from the pool.
const DrawSize = 3

// Category indexes the distinguished card kinds tracked in a Pool.
type Category int

const (
	Primary   Category = iota // Season: scores 2, doubled by an armed modifier
	Toggle                    // Beacon: arms the modifier when no Primary is drawn
	Secondary                 // Flameshaper: scores 1 when no Primary is drawn
	numCategories
)

func (c Category) String() string {
	switch c {
	case Primary:
		return "primary"
	case Toggle:
		return "toggle"
	case Secondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// Pool is the remaining graveyard. Size counts every card, tracked or not;
// whatever the three categories do not account for is filler.
type Pool struct {
	Size      uint32 `json:"pool_size" yaml:"pool_size" mapstructure:"pool_size"`
	Primary   uint32 `json:"primary" yaml:"primary" mapstructure:"primary"`
	Toggle    uint32 `json:"toggle" yaml:"toggle" mapstructure:"toggle"`
	Secondary uint32 `json:"secondary" yaml:"secondary" mapstructure:"secondary"`
}

// Validate reports a PreconditionError when the categories do not fit in Size.
func (p Pool) Validate() error {
	tracked := uint64(p.Primary) + uint64(p.Toggle) + uint64(p.Secondary)
	if tracked > uint64(p.Size) {
		return &PreconditionError{
			Field:  "pool_size",
			Reason: fmt.Sprintf("primary+toggle+secondary=%d exceeds pool size %d", tracked, p.Size),
		}
	}
	return checkDrawable(p.Size)
}

// Filler is the number of untracked cards. Callers must Validate first.
func (p Pool) Filler() uint32 {
	return p.Size - p.Primary - p.Toggle - p.Secondary
}

// MaxOutcome is the largest outcome any draw sequence can reach from p.
func (p Pool) MaxOutcome() uint32 {
	return 2*p.Primary + 2*p.Toggle + p.Secondary
}

// bounds lists the per-category counts in Category order followed by filler.
func (p Pool) bounds() [numCategories + 1]uint32 {
	return [numCategories + 1]uint32{p.Primary, p.Toggle, p.Secondary, p.Filler()}
}

// remove takes a split out of the pool. A count going negative means a
// defect upstream, so it panics rather than wrapping around.
func (p Pool) remove(s Split) Pool {
	if s.Primary > p.Primary || s.Toggle > p.Toggle || s.Secondary > p.Secondary || p.Size < DrawSize {
		panic(fmt.Sprintf("cascade: split %+v drawn from pool %+v", s, p))
	}
	return Pool{
		Size:      p.Size - DrawSize,
		Primary:   p.Primary - s.Primary,
		Toggle:    p.Toggle - s.Toggle,
		Secondary: p.Secondary - s.Secondary,
	}
}
