// Package service is the application layer shared by every transport. It
// resolves presets, enforces request limits, and runs the exact engine or
// the sampler with metrics, tracing, and logging around each call.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xtding233/raisehell/internal/cascade"
	"github.com/xtding233/raisehell/internal/logging"
	"github.com/xtding233/raisehell/internal/metrics"
	"github.com/xtding233/raisehell/internal/preset"
	"github.com/xtding233/raisehell/internal/report"
	"github.com/xtding233/raisehell/internal/sampler"
)

const tracerName = "github.com/xtding233/raisehell/internal/service"

// Limits bounds request size. A zero field means no limit.
type Limits struct {
	// PoolSize caps exact enumeration, whose call tree grows
	// combinatorially with the pool.
	PoolSize uint32
	// SimPoolSize caps sampled cascades, whose cost is linear in the pool
	// per trial.
	SimPoolSize uint32
	Triggers    uint32
	Trials      int
}

// Calculator serves the three calculator operations.
type Calculator struct {
	presets preset.Resolver
	limits  Limits
	workers int
	metrics *metrics.Recorder
	logger  *slog.Logger
	tracer  trace.Tracer
	rng     func(seed *uint64) sampler.RandomSource
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithPresets sets where named decks are looked up.
func WithPresets(r preset.Resolver) Option {
	return func(c *Calculator) { c.presets = r }
}

// WithLimits sets the request limits.
func WithLimits(l Limits) Option {
	return func(c *Calculator) { c.limits = l }
}

// WithWorkers sets the goroutine count used for parallel requests.
func WithWorkers(n int) Option {
	return func(c *Calculator) { c.workers = max(n, 1) }
}

// WithMetrics records every operation on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Calculator) { c.metrics = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

// New builds a Calculator. Without WithPresets it resolves requests against
// an empty preset directory, so callers must spell out the pool.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		presets: preset.NewLoader(""),
		workers: 1,
		logger:  logging.NewNop(),
		tracer:  otel.Tracer(tracerName),
		rng:     seededOrCrypto,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func seededOrCrypto(seed *uint64) sampler.RandomSource {
	if seed != nil {
		return sampler.NewSeededRNG(*seed)
	}
	return sampler.DefaultRNG()
}

// Distribution computes the exact outcome distribution for a cascade.
func (c *Calculator) Distribution(ctx context.Context, req DistributionRequest) (res DistributionResult, err error) {
	const op = "distribution"
	ctx, span, done := c.begin(ctx, op)
	defer func() { done(err) }()

	_, params, err := c.presets.Resolve(req.Preset, req.overrides())
	if err != nil {
		return res, err
	}
	if err := c.checkSize(op, params.Triggers, params.Pool.Size, c.limits.PoolSize); err != nil {
		return res, err
	}
	span.SetAttributes(poolAttrs(params.Triggers, params.Pool)...)

	var (
		dist  cascade.Distribution
		stats cascade.Stats
	)
	if req.Parallel && c.workers > 1 {
		dist, stats, err = cascade.ComputeParallel(ctx, params.Triggers, params.Pool, c.workers)
	} else {
		dist, stats, err = cascade.ComputeContext(ctx, params.Triggers, params.Pool)
	}
	if err != nil {
		return res, err
	}
	c.metrics.ObserveBranches(stats.TerminalBranches)
	span.SetAttributes(attribute.Int64("cascade.terminal_branches", int64(stats.TerminalBranches)))

	c.logger.Info("distribution computed",
		"deck", params.Deck,
		"triggers", params.Triggers,
		"pool_size", params.Pool.Size,
		"primary", params.Pool.Primary,
		"toggle", params.Pool.Toggle,
		"secondary", params.Pool.Secondary,
		"terminal_branches", stats.TerminalBranches,
		"max_depth", stats.MaxDepth,
	)

	return DistributionResult{
		Inputs:           Inputs{Deck: params.Deck, Triggers: params.Triggers, Pool: params.Pool},
		MaxOutcome:       params.Pool.MaxOutcome(),
		Probabilities:    dist,
		Rows:             report.Rows(dist),
		Mean:             dist.Mean(),
		TerminalBranches: stats.TerminalBranches,
	}, nil
}

// HitChance is the closed-form chance that any of the triggers finds one of
// the marked cards.
func (c *Calculator) HitChance(ctx context.Context, req HitChanceRequest) (res HitChanceResult, err error) {
	const op = "hit_chance"
	_, span, done := c.begin(ctx, op)
	defer func() { done(err) }()

	triggers := uint32(1)
	if req.Triggers != nil {
		triggers = *req.Triggers
	}
	// Closed form: only the trigger count is bounded.
	if err := c.checkSize(op, triggers, req.PoolSize, 0); err != nil {
		return res, err
	}
	span.SetAttributes(
		attribute.Int64("cascade.hits", int64(req.Hits)),
		attribute.Int64("cascade.pool_size", int64(req.PoolSize)),
		attribute.Int64("cascade.triggers", int64(triggers)),
	)

	p, err := cascade.SequentialHitProbability(req.Hits, req.PoolSize, triggers)
	if err != nil {
		return res, err
	}
	c.logger.Debug("hit chance computed", "hits", req.Hits, "pool_size", req.PoolSize, "triggers", triggers, "p", p)
	return HitChanceResult{
		Hits:        req.Hits,
		PoolSize:    req.PoolSize,
		Triggers:    triggers,
		Probability: p,
		Percent:     report.Percent(p),
	}, nil
}

// Simulate exiles one random draw and reports whether it hit.
func (c *Calculator) Simulate(ctx context.Context, req SimulateRequest) (res SimulateResult, err error) {
	const op = "simulate"
	_, _, done := c.begin(ctx, op)
	defer func() { done(err) }()

	hit, err := sampler.SampleHit(req.Hits, req.PoolSize, c.rng(req.Seed))
	if err != nil {
		return res, err
	}
	c.metrics.AddSimulated(1)
	return SimulateResult{Hit: hit, Message: report.SimulationText(hit)}, nil
}

// SimulateCascade plays whole cascades at random and summarizes them.
func (c *Calculator) SimulateCascade(ctx context.Context, req CascadeSimRequest) (res CascadeSimResult, err error) {
	const op = "simulate_cascade"
	ctx, span, done := c.begin(ctx, op)
	defer func() { done(err) }()

	o := req.overrides()
	o.Trials = req.Trials
	o.Seed = req.Seed
	_, params, err := c.presets.Resolve(req.Preset, o)
	if err != nil {
		return res, err
	}
	if err := c.checkSize(op, params.Triggers, params.Pool.Size, c.limits.SimPoolSize); err != nil {
		return res, err
	}
	if c.limits.Trials > 0 && params.Trials > c.limits.Trials {
		c.reject(op, "trials", "trials", params.Trials, "limit", c.limits.Trials)
		return res, fmt.Errorf("%w: trials %d > %d", ErrLimitExceeded, params.Trials, c.limits.Trials)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	span.SetAttributes(poolAttrs(params.Triggers, params.Pool)...)
	span.SetAttributes(attribute.Int("sampler.trials", params.Trials))

	rep, err := sampler.RunMonteCarlo(params.Triggers, params.Pool, params.Trials, c.rng(params.Seed))
	if err != nil {
		return res, err
	}
	c.metrics.AddSimulated(rep.Trials)
	c.logger.Info("cascades simulated",
		"deck", params.Deck,
		"triggers", params.Triggers,
		"pool_size", params.Pool.Size,
		"trials", rep.Trials,
		"mean", rep.Stats.Mean,
	)
	return CascadeSimResult{
		Inputs:    Inputs{Deck: params.Deck, Triggers: params.Triggers, Pool: params.Pool},
		Trials:    rep.Trials,
		Stats:     rep.Stats,
		Histogram: rep.Histogram,
		Rows:      report.Rows(rep.Histogram),
	}, nil
}

// begin opens a span and returns a function that closes it and records the
// operation's metrics.
func (c *Calculator) begin(ctx context.Context, op string) (context.Context, trace.Span, func(error)) {
	started := time.Now()
	ctx, span := c.tracer.Start(ctx, "Calculator."+op)
	return ctx, span, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.Observe(op, started)
	}
}

func (c *Calculator) checkSize(op string, triggers, poolSize, poolLimit uint32) error {
	if poolLimit > 0 && poolSize > poolLimit {
		c.reject(op, "pool_size", "pool_size", poolSize, "limit", poolLimit)
		return fmt.Errorf("%w: pool size %d > %d", ErrLimitExceeded, poolSize, poolLimit)
	}
	if c.limits.Triggers > 0 && triggers > c.limits.Triggers {
		c.reject(op, "triggers", "triggers", triggers, "limit", c.limits.Triggers)
		return fmt.Errorf("%w: triggers %d > %d", ErrLimitExceeded, triggers, c.limits.Triggers)
	}
	return nil
}

func (c *Calculator) reject(op, reason string, args ...any) {
	c.metrics.Reject(op, reason)
	c.logger.Warn("request rejected", append([]any{"op", op, "reason", reason}, args...)...)
}

func poolAttrs(triggers uint32, p cascade.Pool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int64("cascade.triggers", int64(triggers)),
		attribute.Int64("cascade.pool_size", int64(p.Size)),
		attribute.Int64("cascade.primary", int64(p.Primary)),
		attribute.Int64("cascade.toggle", int64(p.Toggle)),
		attribute.Int64("cascade.secondary", int64(p.Secondary)),
	}
}
