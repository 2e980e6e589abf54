package cascade

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// checkEvery is how many expansions pass between context checks.
const checkEvery = 1 << 12

// Stats describes the call tree walked by one computation.
type Stats struct {
	TerminalBranches uint64 `json:"terminal_branches"`
	Expansions       uint64 `json:"expansions"`
	MaxDepth         int    `json:"max_depth"`
}

func (s *Stats) add(o Stats) {
	s.TerminalBranches += o.TerminalBranches
	s.Expansions += o.Expansions
	s.MaxDepth = max(s.MaxDepth, o.MaxDepth)
}

// Compute returns the exact distribution of the outcome count for a cascade
// starting with triggers pending over pool. The result has
// pool.MaxOutcome()+1 entries summing to 1.
func Compute(triggers uint32, pool Pool) (Distribution, error) {
	d, _, err := ComputeWithStats(triggers, pool)
	return d, err
}

// ComputeWithStats is Compute plus the shape of the enumerated call tree.
func ComputeWithStats(triggers uint32, pool Pool) (Distribution, Stats, error) {
	return ComputeContext(context.Background(), triggers, pool)
}

// ComputeContext is ComputeWithStats that gives up with ctx.Err() once ctx
// is done. The context is polled every few thousand expansions.
func ComputeContext(ctx context.Context, triggers uint32, pool Pool) (Distribution, Stats, error) {
	if err := pool.Validate(); err != nil {
		return nil, Stats{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}
	e := newEnumerator(ctx, pool.MaxOutcome())
	e.walk(Start(triggers, pool), 0)
	if e.err != nil {
		return nil, Stats{}, e.err
	}
	return e.dist, e.stats, nil
}

// ComputeParallel spreads the branches below the root over at most workers
// goroutines. Each branch fills its own histogram; they are merged in split
// order once every branch has finished, so no locking is involved.
func ComputeParallel(ctx context.Context, triggers uint32, pool Pool, workers int) (Distribution, Stats, error) {
	if err := pool.Validate(); err != nil {
		return nil, Stats{}, err
	}
	root := Start(triggers, pool)
	if workers <= 1 || root.Terminal() {
		return ComputeContext(ctx, triggers, pool)
	}
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}

	var children []State
	total := float64(Binomial(uint64(root.Pool.Size), DrawSize))
	Splits(root.Pool, func(s Split, ways uint64) {
		children = append(children, root.Next(s, float64(ways)/total))
	})

	parts := make([]*enumerator, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, child := range children {
		g.Go(func() error {
			e := newEnumerator(gctx, pool.MaxOutcome())
			e.walk(child, 1)
			parts[i] = e
			return e.err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	dist := NewDistribution(pool.MaxOutcome())
	stats := Stats{Expansions: 1}
	for _, e := range parts {
		dist.Merge(e.dist)
		stats.add(e.stats)
	}
	return dist, stats, nil
}

type enumerator struct {
	ctx   context.Context
	err   error
	dist  Distribution
	stats Stats
}

func newEnumerator(ctx context.Context, maxOutcome uint32) *enumerator {
	return &enumerator{ctx: ctx, dist: NewDistribution(maxOutcome)}
}

// walk explores s depth first. The pool shrinks by DrawSize per level, so
// the recursion is bounded by Size/DrawSize. Once err is set every pending
// call returns immediately.
func (e *enumerator) walk(s State, depth int) {
	if e.err != nil {
		return
	}
	e.stats.MaxDepth = max(e.stats.MaxDepth, depth)
	if s.Terminal() {
		e.dist.deposit(s.Outcome, s.Probability)
		e.stats.TerminalBranches++
		return
	}
	e.stats.Expansions++
	if e.stats.Expansions%checkEvery == 0 {
		if err := e.ctx.Err(); err != nil {
			e.err = err
			return
		}
	}
	total := float64(Binomial(uint64(s.Pool.Size), DrawSize))
	Splits(s.Pool, func(split Split, ways uint64) {
		e.walk(s.Next(split, float64(ways)/total), depth+1)
	})
}
