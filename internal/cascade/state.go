package cascade

// State is one point of the cascade. It is a value: every branch of the
// enumeration owns its copy, so the modifier flag never leaks between
// siblings.
type State struct {
	Triggers       uint32
	Pool           Pool
	ModifierActive bool
	Outcome        uint32
	Probability    float64
}

// Start is the root state for a cascade with the given trigger budget.
func Start(triggers uint32, pool Pool) State {
	return State{Triggers: triggers, Pool: pool, Probability: 1}
}

// Terminal reports whether the cascade stops here. The checks run in
// priority order: no triggers left, nothing left that can score, too few
// cards to draw.
func (s State) Terminal() bool {
	switch {
	case s.Triggers == 0:
		return true
	case s.Pool.Primary == 0 && s.Pool.Secondary == 0:
		return true
	case s.Pool.Size < DrawSize:
		return true
	}
	return false
}

// Next resolves one trigger whose draw was split, reached with probability
// p. A Primary hit takes precedence: Secondary only scores, and Toggle only
// arms the modifier, on rounds without one. Every outcome point is also a
// new trigger.
func (s State) Next(split Split, p float64) State {
	var delta uint32
	modifier := s.ModifierActive
	if split.Primary > 0 {
		delta += 2
		if modifier {
			delta += 2
			modifier = false
		}
	} else if split.Secondary > 0 {
		delta++
	}
	if split.Toggle > 0 && split.Primary == 0 {
		modifier = true
	}
	return State{
		Triggers:       s.Triggers + delta - 1,
		Pool:           s.Pool.remove(split),
		ModifierActive: modifier,
		Outcome:        s.Outcome + delta,
		Probability:    s.Probability * p,
	}
}
