package cascade

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertSumsToOne(t *testing.T, d Distribution, stats Stats) {
	t.Helper()
	assert.InDelta(t, 1.0, d.Sum(), max(1e-9, Tolerance(stats.TerminalBranches)))
	for i, p := range d {
		assert.GreaterOrEqual(t, p, 0.0, "outcome %d", i)
	}
}

func TestCompute_SumsToOne(t *testing.T) {
	cases := []struct {
		triggers uint32
		pool     Pool
	}{
		{1, Pool{Size: 15, Primary: 3, Toggle: 1, Secondary: 1}},
		{2, Pool{Size: 20, Primary: 4, Toggle: 2, Secondary: 2}},
		{3, Pool{Size: 24, Primary: 2, Toggle: 3, Secondary: 4}},
		{1, Pool{Size: 30, Primary: 6, Toggle: 0, Secondary: 0}},
		{5, Pool{Size: 12, Primary: 0, Toggle: 0, Secondary: 5}},
		{1, Pool{Size: 9, Primary: 3, Toggle: 3, Secondary: 3}},
		{4, Pool{Size: 10, Primary: 1, Toggle: 1, Secondary: 1}},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d/%+v", tc.triggers, tc.pool), func(t *testing.T) {
			d, stats, err := ComputeWithStats(tc.triggers, tc.pool)
			require.NoError(t, err)
			require.Len(t, d, int(tc.pool.MaxOutcome())+1)
			assertSumsToOne(t, d, stats)
		})
	}
}

func TestCompute_ZeroTriggers(t *testing.T) {
	d, err := Compute(0, Pool{Size: 40, Primary: 4, Toggle: 2, Secondary: 3})
	require.NoError(t, err)
	assert.Equal(t, 1.0, d[0])
	assert.Equal(t, []int{0}, d.Support())
}

func TestCompute_PoolBelowDrawSize(t *testing.T) {
	for _, pool := range []Pool{
		{Size: 2, Primary: 2},
		{Size: 2, Primary: 1, Secondary: 1},
		{Size: 1, Toggle: 1},
		{Size: 0},
	} {
		d, err := Compute(3, pool)
		require.NoError(t, err)
		assert.Equal(t, 1.0, d[0], "pool %+v", pool)
		assert.Equal(t, []int{0}, d.Support(), "pool %+v", pool)
	}
}

func TestCompute_InvalidPool(t *testing.T) {
	_, err := Compute(1, Pool{Size: 4, Primary: 3, Toggle: 1, Secondary: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPool))

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "pool_size", pe.Field)
}

func TestCompute_ScenarioOne(t *testing.T) {
	d, stats, err := ComputeWithStats(1, Pool{Size: 15, Primary: 3, Toggle: 1, Secondary: 1})
	require.NoError(t, err)
	require.Len(t, d, 10)
	assertSumsToOne(t, d, stats)
	assert.Greater(t, d[0], 0.0)
	support := d.Support()
	assert.LessOrEqual(t, support[len(support)-1], 9)
}

// A secondary hit grants a trigger of its own, so two Flameshapers can chain;
// only "nothing found" is pinned by the closed form.
func TestCompute_SecondaryOnlyMatchesClosedForm(t *testing.T) {
	d, err := Compute(1, Pool{Size: 14, Secondary: 2})
	require.NoError(t, err)
	require.Len(t, d, 3)

	hit, err := SequentialHitProbability(2, 14, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1-hit, d[0], 1e-12)
	assert.InDelta(t, hit, d.AtLeast(1), 1e-12)
}

func TestCompute_CrossCheckClosedForm(t *testing.T) {
	for _, primary := range []uint32{0, 1} {
		for _, size := range []uint32{3, 7, 15, 40} {
			d, err := Compute(1, Pool{Size: size, Primary: primary})
			require.NoError(t, err)
			hit, err := SequentialHitProbability(primary, size, 1)
			require.NoError(t, err)
			assert.InDelta(t, 1-hit, d[0], 1e-12, "primary=%d size=%d", primary, size)
		}
	}
}

func TestCompute_ModifierDoublesNextPrimary(t *testing.T) {
	// C(6,3)=20 draws. Any Season on the first trigger ends the cascade at 2
	// (10/20). Otherwise the second trigger takes the last three cards and
	// finds the Season, doubled when a Beacon went first (9/20).
	d, err := Compute(2, Pool{Size: 6, Primary: 1, Toggle: 2})
	require.NoError(t, err)
	require.Len(t, d, 7)
	assert.InDelta(t, 11.0/20, d[2], 1e-12)
	assert.InDelta(t, 9.0/20, d[4], 1e-12)
	assert.Equal(t, []int{2, 4}, d.Support())
}

func TestCompute_PrimaryTakesPrecedence(t *testing.T) {
	tests := []struct {
		name string
		pool Pool
		want int
	}{
		{"primary silences secondary", Pool{Size: 3, Primary: 1, Secondary: 2}, 2},
		{"primary blocks toggle", Pool{Size: 3, Primary: 1, Toggle: 1, Secondary: 1}, 2},
		{"secondary alone scores one", Pool{Size: 3, Secondary: 3}, 1},
		{"toggle alone scores nothing", Pool{Size: 3, Toggle: 2, Secondary: 0, Primary: 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compute(1, tt.pool)
			require.NoError(t, err)
			assert.Equal(t, 1.0, d[tt.want])
		})
	}
}

func TestCompute_SeasonsOnly(t *testing.T) {
	// Single Season among 15: the first draw finds it with probability 3/15
	// and the follow-up triggers have nothing left to score.
	d, err := Compute(1, Pool{Size: 15, Primary: 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, d[2], 1e-12)
	assert.InDelta(t, 0.8, d[0], 1e-12)
}

func TestComputeParallel_MatchesSequential(t *testing.T) {
	pool := Pool{Size: 27, Primary: 4, Toggle: 2, Secondary: 3}
	want, wantStats, err := ComputeWithStats(2, pool)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 8} {
		got, stats, err := ComputeParallel(context.Background(), 2, pool, workers)
		require.NoError(t, err)
		require.Len(t, got, len(want))
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-12, "workers=%d outcome=%d", workers, i)
		}
		assert.Equal(t, wantStats, stats, "workers=%d", workers)
	}
}

func TestComputeParallel_InvalidPool(t *testing.T) {
	_, _, err := ComputeParallel(context.Background(), 1, Pool{Size: 2, Primary: 3}, 4)
	assert.ErrorIs(t, err, ErrInvalidPool)
}

func TestState_Terminal(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  bool
	}{
		{"no triggers", State{Triggers: 0, Pool: Pool{Size: 10, Primary: 2}}, true},
		{"only toggles left", State{Triggers: 2, Pool: Pool{Size: 10, Toggle: 2}}, true},
		{"too few cards", State{Triggers: 2, Pool: Pool{Size: 2, Primary: 1}}, true},
		{"expandable", State{Triggers: 1, Pool: Pool{Size: 3, Secondary: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Terminal())
		})
	}
}

func TestState_Next(t *testing.T) {
	s := State{Triggers: 1, Pool: Pool{Size: 12, Primary: 2, Toggle: 2, Secondary: 2}, Probability: 0.5}

	armed := s.Next(Split{Toggle: 1, Secondary: 1, Filler: 1}, 0.5)
	assert.True(t, armed.ModifierActive)
	assert.Equal(t, uint32(1), armed.Outcome)
	assert.Equal(t, uint32(1), armed.Triggers)
	assert.Equal(t, Pool{Size: 9, Primary: 2, Toggle: 1, Secondary: 1}, armed.Pool)
	assert.Equal(t, 0.25, armed.Probability)

	fired := armed.Next(Split{Primary: 1, Toggle: 1, Filler: 1}, 1)
	assert.False(t, fired.ModifierActive)
	assert.Equal(t, uint32(5), fired.Outcome)
	assert.Equal(t, uint32(4), fired.Triggers)

	// The receiver is left as it was.
	assert.False(t, s.ModifierActive)
	assert.Equal(t, uint32(12), s.Pool.Size)
}

func TestPool_RemovePanicsOnNegativeCount(t *testing.T) {
	assert.Panics(t, func() {
		Pool{Size: 5, Primary: 1}.remove(Split{Primary: 2, Filler: 1})
	})
}

func TestDistribution_DepositOutOfRangePanics(t *testing.T) {
	d := NewDistribution(2)
	assert.Panics(t, func() { d.deposit(3, 0.1) })
}

// expiringContext reports Canceled after its Err method has been consulted
// a fixed number of times, so a walk can be stopped at a known point.
type expiringContext struct {
	context.Context
	left atomic.Int64
}

func (c *expiringContext) Err() error {
	if c.left.Add(-1) < 0 {
		return context.Canceled
	}
	return nil
}

func TestComputeContext_StopsMidWalk(t *testing.T) {
	// Millions of branches; far more than two polling intervals.
	pool := Pool{Size: 24, Primary: 5, Toggle: 3, Secondary: 3}
	ctx := &expiringContext{Context: context.Background()}
	ctx.left.Store(2) // the upfront check and the first poll pass; the second poll cancels

	d, stats, err := ComputeContext(ctx, 3, pool)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, d)
	assert.Zero(t, stats)
	assert.Negative(t, ctx.left.Load(), "walk must have polled the context")
}

func TestComputeContext_AlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pool := Pool{Size: 24, Primary: 5, Toggle: 3, Secondary: 3}

	_, _, err := ComputeContext(ctx, 3, pool)
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = ComputeParallel(ctx, 3, pool, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeParallel_CancelledWhileRunning(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	_, _, err := ComputeParallel(ctx, 3, Pool{Size: 36, Primary: 6, Toggle: 4, Secondary: 4}, 4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}
