package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinomial(t *testing.T) {
	tests := []struct {
		n, k, want uint64
	}{
		{0, 0, 1},
		{5, 0, 1},
		{5, 5, 1},
		{2, 3, 0},
		{15, 3, 455},
		{14, 3, 364},
		{52, 5, 2598960},
		{100, 10, 17310309456440},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Binomial(tt.n, tt.k), "C(%d,%d)", tt.n, tt.k)
	}
	assert.Panics(t, func() { Binomial(200, 100) })
}

func TestSplits_CoverEveryDraw(t *testing.T) {
	pools := []Pool{
		{Size: 15, Primary: 3, Toggle: 1, Secondary: 1},
		{Size: 3, Primary: 1, Toggle: 1, Secondary: 1},
		{Size: 8, Secondary: 2},
		{Size: 5, Primary: 5},
	}
	for _, p := range pools {
		var total uint64
		Splits(p, func(s Split, ways uint64) {
			assert.Equal(t, uint32(DrawSize), s.Primary+s.Toggle+s.Secondary+s.Filler)
			assert.LessOrEqual(t, s.Primary, p.Primary)
			assert.LessOrEqual(t, s.Toggle, p.Toggle)
			assert.LessOrEqual(t, s.Secondary, p.Secondary)
			assert.LessOrEqual(t, s.Filler, p.Filler())
			assert.NotZero(t, ways)
			total += ways
		})
		// Vandermonde: the splits partition every 3-card subset.
		assert.Equal(t, Binomial(uint64(p.Size), DrawSize), total, "pool %+v", p)
	}
}

func TestSplits_Order(t *testing.T) {
	var got []Split
	Splits(Pool{Size: 4, Primary: 1, Toggle: 1, Secondary: 1}, func(s Split, _ uint64) {
		got = append(got, s)
	})
	require.NotEmpty(t, got)
	assert.Equal(t, Split{Toggle: 1, Secondary: 1, Filler: 1}, got[0])
	assert.Equal(t, Split{Primary: 1, Toggle: 1, Secondary: 1}, got[len(got)-1])
}

func TestSequentialHitProbability(t *testing.T) {
	p, err := SequentialHitProbability(2, 14, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1-220.0/364, p, 1e-12)

	p, err = SequentialHitProbability(2, 14, 3)
	require.NoError(t, err)
	miss := 220.0 / 364 * 84.0 / 165 * 20.0 / 56
	assert.InDelta(t, 1-miss, p, 1e-12)

	p, err = SequentialHitProbability(0, 30, 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	p, err = SequentialHitProbability(3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	// Pool exhausted before the triggers are: settled by whether hits remain.
	p, err = SequentialHitProbability(1, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	p, err = SequentialHitProbability(0, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	p, err = SequentialHitProbability(9, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)

	_, err = SequentialHitProbability(11, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidPool)
}

func TestHugePools_ErrorInsteadOfOverflow(t *testing.T) {
	const largest = 3329022 // biggest size whose C(size,3) fits in uint64

	_, err := Compute(1, Pool{Size: 5_000_000, Primary: 1})
	require.ErrorIs(t, err, ErrInvalidPool)
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "pool_size", pe.Field)

	_, err = Compute(1, Pool{Size: largest + 1, Primary: 1})
	assert.ErrorIs(t, err, ErrInvalidPool)

	d, err := Compute(1, Pool{Size: largest, Primary: 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0/largest, d[2], 1e-15)

	_, err = SequentialHitProbability(1, 5_000_000, 1)
	assert.ErrorIs(t, err, ErrInvalidPool)
	_, err = SequentialHitProbability(1, 4_999_999, 1)
	assert.ErrorIs(t, err, ErrInvalidPool)

	p, err := SequentialHitProbability(1, largest, 1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0/largest, p, 1e-12)
}
