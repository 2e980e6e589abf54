package service

import (
	"github.com/xtding233/raisehell/internal/cascade"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/sampler"
)

// PoolRequest names a graveyard. Preset selects a deck file; the remaining
// fields override it. Without a preset, PoolSize and Primary are required.
type PoolRequest struct {
	Preset    string  `json:"preset,omitempty" mapstructure:"preset"`
	Triggers  *uint32 `json:"triggers,omitempty" mapstructure:"triggers"`
	PoolSize  *uint32 `json:"pool_size,omitempty" mapstructure:"pool_size"`
	Primary   *uint32 `json:"primary,omitempty" mapstructure:"primary"`
	Toggle    *uint32 `json:"toggle,omitempty" mapstructure:"toggle"`
	Secondary *uint32 `json:"secondary,omitempty" mapstructure:"secondary"`
}

func (r PoolRequest) overrides() preset.Overrides {
	return preset.Overrides{
		Triggers:  r.Triggers,
		PoolSize:  r.PoolSize,
		Primary:   r.Primary,
		Toggle:    r.Toggle,
		Secondary: r.Secondary,
	}
}

// Inputs echoes the resolved parameters a result was computed from.
type Inputs struct {
	Deck     string       `json:"deck,omitempty"`
	Triggers uint32       `json:"triggers"`
	Pool     cascade.Pool `json:"pool"`
}

type DistributionRequest struct {
	PoolRequest `mapstructure:",squash"`
	// Parallel spreads the enumeration over the configured worker count.
	Parallel bool `json:"parallel,omitempty" mapstructure:"parallel"`
}

type DistributionResult struct {
	Inputs           Inputs               `json:"params"`
	MaxOutcome       uint32               `json:"max_outcome"`
	Probabilities    cascade.Distribution `json:"probabilities"`
	Rows             []report.Row         `json:"rows"`
	Mean             float64              `json:"mean"`
	TerminalBranches uint64               `json:"terminal_branches"`
}

type HitChanceRequest struct {
	Hits     uint32  `json:"hits" mapstructure:"hits"`
	PoolSize uint32  `json:"pool_size" mapstructure:"pool_size"`
	Triggers *uint32 `json:"triggers,omitempty" mapstructure:"triggers"`
}

type HitChanceResult struct {
	Hits        uint32  `json:"hits"`
	PoolSize    uint32  `json:"pool_size"`
	Triggers    uint32  `json:"triggers"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
}

type SimulateRequest struct {
	Hits     uint32  `json:"hits" mapstructure:"hits"`
	PoolSize uint32  `json:"pool_size" mapstructure:"pool_size"`
	Seed     *uint64 `json:"seed,omitempty" mapstructure:"seed"`
}

type SimulateResult struct {
	Hit     bool   `json:"hit"`
	Message string `json:"message"`
}

type CascadeSimRequest struct {
	PoolRequest `mapstructure:",squash"`
	Trials      *int    `json:"trials,omitempty" mapstructure:"trials"`
	Seed        *uint64 `json:"seed,omitempty" mapstructure:"seed"`
}

type CascadeSimResult struct {
	Inputs    Inputs               `json:"params"`
	Trials    int                  `json:"trials"`
	Stats     sampler.Stats        `json:"stats"`
	Histogram cascade.Distribution `json:"histogram"`
	Rows      []report.Row         `json:"rows"`
}
