// types.go
package preset

import "github.com/xtding233/raisehell/internal/cascade"

// RawPreset is a preset file as written on disk. Every field is optional so
// that deck files only need to state what differs from default.yaml.
type RawPreset struct {
	Version    string            `yaml:"version"`
	Name       string            `yaml:"name,omitempty"`
	Cascade    CascadeConfig     `yaml:"cascade"`
	Simulation *SimulationConfig `yaml:"simulation,omitempty"`
	Notes      string            `yaml:"notes,omitempty"`
}

type CascadeConfig struct {
	Triggers  *uint32 `yaml:"triggers"`
	PoolSize  *uint32 `yaml:"pool_size"`
	Primary   *uint32 `yaml:"primary"`   // Seasons
	Toggle    *uint32 `yaml:"toggle"`    // Beacons
	Secondary *uint32 `yaml:"secondary"` // Flameshapers
}

type SimulationConfig struct {
	Trials *int    `yaml:"trials"`
	Seed   *uint64 `yaml:"seed,omitempty"`
}

// Params is a fully resolved preset, ready for the calculator.
type Params struct {
	Deck     string
	Triggers uint32
	Pool     cascade.Pool
	Trials   int
	Seed     *uint64 // nil means a fresh crypto seed per run
	Version  string  // effective config version for tracing
}

const (
	defaultTriggers = 1
	defaultTrials   = 10000
)
