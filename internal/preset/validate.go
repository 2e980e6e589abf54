package preset

import (
	"fmt"
	"strings"

	"github.com/xtding233/raisehell/internal/cascade"
)

// ValidateRaw checks semantic constraints of a merged RawPreset.
func ValidateRaw(cfg RawPreset) error {
	var errs []string
	c := cfg.Cascade

	if c.PoolSize == nil {
		errs = append(errs, "cascade.pool_size is required")
	}
	if c.Primary == nil {
		errs = append(errs, "cascade.primary is required")
	}
	if c.PoolSize != nil {
		pool := cascade.Pool{Size: *c.PoolSize}
		if c.Primary != nil {
			pool.Primary = *c.Primary
		}
		if c.Toggle != nil {
			pool.Toggle = *c.Toggle
		}
		if c.Secondary != nil {
			pool.Secondary = *c.Secondary
		}
		if err := pool.Validate(); err != nil {
			errs = append(errs, "cascade: primary + toggle + secondary must not exceed pool_size")
		}
	}

	if cfg.Simulation != nil && cfg.Simulation.Trials != nil && *cfg.Simulation.Trials <= 0 {
		errs = append(errs, "simulation.trials must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPreset, strings.Join(errs, "; "))
	}
	return nil
}
