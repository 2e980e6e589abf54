// resolve.go
package preset

import "fmt"

// Overrides carries per-request values that win over every preset file.
type Overrides struct {
	Triggers  *uint32
	PoolSize  *uint32
	Primary   *uint32
	Toggle    *uint32
	Secondary *uint32
	Trials    *int
	Seed      *uint64
}

// Resolver turns a deck name plus overrides into calculator parameters.
type Resolver interface {
	// Returns merged RawPreset and normalized Params
	Resolve(deck string, o Overrides) (RawPreset, Params, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges default → deck → overrides, validates, and normalizes.
func (l *Loader) Resolve(deck string, o Overrides) (RawPreset, Params, error) {
	raw, err := l.LoadMerged(deck)
	if err != nil {
		return RawPreset{}, Params{}, err
	}
	raw = mergeRaw(raw, o.asRaw())
	if err := ValidateRaw(raw); err != nil {
		return raw, Params{}, fmt.Errorf("preset %q: %w", deck, err)
	}
	return raw, normalize(deck, raw), nil
}

func (o Overrides) asRaw() RawPreset {
	raw := RawPreset{Cascade: CascadeConfig{
		Triggers:  o.Triggers,
		PoolSize:  o.PoolSize,
		Primary:   o.Primary,
		Toggle:    o.Toggle,
		Secondary: o.Secondary,
	}}
	if o.Trials != nil || o.Seed != nil {
		raw.Simulation = &SimulationConfig{Trials: o.Trials, Seed: o.Seed}
	}
	return raw
}

// normalize fills defaults: one trigger, no Beacons, no Flameshapers.
func normalize(deck string, raw RawPreset) Params {
	p := Params{Deck: deck, Triggers: defaultTriggers, Trials: defaultTrials, Version: raw.Version}
	c := raw.Cascade
	if c.Triggers != nil {
		p.Triggers = *c.Triggers
	}
	p.Pool.Size = deref(c.PoolSize)
	p.Pool.Primary = deref(c.Primary)
	p.Pool.Toggle = deref(c.Toggle)
	p.Pool.Secondary = deref(c.Secondary)
	if s := raw.Simulation; s != nil {
		if s.Trials != nil {
			p.Trials = *s.Trials
		}
		p.Seed = s.Seed
	}
	return p
}

func deref(v *uint32) uint32 {
	if v == nil {
		return 0
	}
	return *v
}
