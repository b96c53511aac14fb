package tickdata

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/invariant"
	"github.com/ftchann/v3-quoter/lib/tickmath"
)

func tick(t *testing.T, index int, gross, net int64) Tick {
	t.Helper()
	tk, err := NewTick(index, big.NewInt(gross), big.NewInt(net))
	require.NoError(t, err)
	return tk
}

func fixture(t *testing.T) []Tick {
	return []Tick{
		tick(t, tickmath.MinTick+1, 10, 10),
		tick(t, 0, 5, -5),
		tick(t, tickmath.MaxTick-1, 5, -5),
	}
}

func TestNewTick(t *testing.T) {
	_, err := NewTick(tickmath.MinTick-1, cons.Zero, cons.Zero)
	assert.Equal(t, "TICK", invariant.Tag(err))
	_, err = NewTick(tickmath.MaxTick+1, cons.Zero, cons.Zero)
	assert.Equal(t, "TICK", invariant.Tag(err))
	assert.True(t, errors.Is(err, invariant.ErrInvalidRange))
}

func TestValidateList(t *testing.T) {
	low, mid, high := fixture(t)[0], fixture(t)[1], fixture(t)[2]

	assert.Equal(t, "TICK_SPACING_NONZERO", invariant.Tag(ValidateList([]Tick{low}, 0)))
	assert.Equal(t, "ZERO_NET", invariant.Tag(ValidateList([]Tick{low}, 1)))
	assert.Equal(t, "SORTED", invariant.Tag(ValidateList([]Tick{high, low, mid}, 1)))
	assert.Equal(t, "SORTED", invariant.Tag(ValidateList([]Tick{tick(t, 0, 1, 1), tick(t, 0, 1, -1)}, 1)))
	assert.Equal(t, "TICK_SPACING", invariant.Tag(ValidateList([]Tick{tick(t, 1, 1, 1), tick(t, 4, 1, -1)}, 2)))
	assert.NoError(t, ValidateList(fixture(t), 1))
	assert.NoError(t, ValidateList(nil, 1))
}

func TestSmallestLargest(t *testing.T) {
	ticks := fixture(t)

	_, err := IsBelowSmallest(nil, 0)
	assert.Equal(t, "LENGTH", invariant.Tag(err))
	_, err = IsAtOrAboveLargest(nil, 0)
	assert.Equal(t, "LENGTH", invariant.Tag(err))

	below, _ := IsBelowSmallest(ticks, tickmath.MinTick)
	assert.True(t, below)
	below, _ = IsBelowSmallest(ticks, tickmath.MinTick+1)
	assert.False(t, below)
	above, _ := IsAtOrAboveLargest(ticks, tickmath.MaxTick-2)
	assert.False(t, above)
	above, _ = IsAtOrAboveLargest(ticks, tickmath.MaxTick-1)
	assert.True(t, above)
}

func TestNextInitializedTick(t *testing.T) {
	ticks := fixture(t)
	tests := []struct {
		tick int
		lte  bool
		want int
	}{
		{tickmath.MinTick + 1, true, tickmath.MinTick + 1},
		{tickmath.MinTick + 2, true, tickmath.MinTick + 1},
		{-1, true, tickmath.MinTick + 1},
		{0, true, 0},
		{1, true, 0},
		{tickmath.MaxTick - 1, true, tickmath.MaxTick - 1},
		{tickmath.MaxTick, true, tickmath.MaxTick - 1},
		{tickmath.MinTick, false, tickmath.MinTick + 1},
		{tickmath.MinTick + 1, false, 0},
		{-1, false, 0},
		{0, false, tickmath.MaxTick - 1},
		{tickmath.MaxTick - 2, false, tickmath.MaxTick - 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.tick, tt.lte), func(t *testing.T) {
			got, err := NextInitializedTick(ticks, tt.tick, tt.lte)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Index)
		})
	}

	_, err := NextInitializedTick(ticks, tickmath.MinTick, true)
	assert.Equal(t, "BELOW_SMALLEST", invariant.Tag(err))
	_, err = NextInitializedTick(ticks, tickmath.MaxTick-1, false)
	assert.Equal(t, "AT_OR_ABOVE_LARGEST", invariant.Tag(err))
}

func TestGetTick(t *testing.T) {
	ticks := fixture(t)
	got, err := GetTick(ticks, 0)
	require.NoError(t, err)
	assert.Equal(t, "-5", got.LiquidityNet.String())

	_, err = GetTick(ticks, 1)
	assert.Equal(t, "NOT_CONTAINED", invariant.Tag(err))
	assert.True(t, errors.Is(err, invariant.ErrNotFound))

	tests := []struct {
		ticks []Tick
		index int
		tag   string
	}{
		{ticks, 1, "NOT_CONTAINED"},
		{ticks, tickmath.MinTick, "BELOW_SMALLEST"},
		{nil, 0, "LENGTH"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(len(tt.ticks), tt.index), func(t *testing.T) {
			_, err := GetTick(tt.ticks, tt.index)
			if invariant.Tag(err) != tt.tag || !errors.Is(err, invariant.ErrNotFound) {
				t.Fatalf("want=%v result=%v", tt.tag, err)
			}
		})
	}
}

func TestNextInitializedTickWithinOneWord(t *testing.T) {
	ticks := fixture(t)
	type want struct {
		next        int
		initialized bool
	}
	lte := []struct {
		tick int
		want want
	}{
		{-257, want{-512, false}},
		{-256, want{-256, false}},
		{-1, want{-256, false}},
		{0, want{0, true}},
		{1, want{0, true}},
		{255, want{0, true}},
		{256, want{256, false}},
		{257, want{256, false}},
	}
	for _, tt := range lte {
		t.Run(fmt.Sprint("lte ", tt.tick), func(t *testing.T) {
			next, initialized, err := NextInitializedTickWithinOneWord(ticks, tt.tick, true, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, want{next, initialized})
		})
	}

	gt := []struct {
		tick int
		want want
	}{
		{-258, want{-257, false}},
		{-257, want{-1, false}},
		{-256, want{-1, false}},
		{-2, want{-1, false}},
		{-1, want{0, true}},
		{0, want{255, false}},
		{1, want{255, false}},
		{254, want{255, false}},
		{255, want{511, false}},
		{256, want{511, false}},
	}
	for _, tt := range gt {
		t.Run(fmt.Sprint("gt ", tt.tick), func(t *testing.T) {
			next, initialized, err := NextInitializedTickWithinOneWord(ticks, tt.tick, false, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, want{next, initialized})
		})
	}
}

func TestNextInitializedTickWithinOneWordSpacing(t *testing.T) {
	ticks := []Tick{tick(t, 0, 0, 0), tick(t, 510, 0, 0)}

	next, initialized, err := NextInitializedTickWithinOneWord(ticks, 0, false, 1)
	require.NoError(t, err)
	assert.Equal(t, 255, next)
	assert.False(t, initialized)

	next, initialized, err = NextInitializedTickWithinOneWord(ticks, 0, false, 2)
	require.NoError(t, err)
	assert.Equal(t, 510, next)
	assert.True(t, initialized)

	// negative ticks compress with floor division
	next, _, err = NextInitializedTickWithinOneWord(ticks, -1, true, 2)
	require.NoError(t, err)
	assert.Equal(t, -512, next)
}

func TestNextInitializedTickWithinOneWordEmpty(t *testing.T) {
	next, initialized, err := NextInitializedTickWithinOneWord(nil, 5, true, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
	assert.False(t, initialized)

	next, initialized, err = NextInitializedTickWithinOneWord(nil, 5, false, 10)
	require.NoError(t, err)
	assert.Equal(t, 2550, next)
	assert.False(t, initialized)

	next, _, err = NextInitializedTickWithinOneWord(nil, -5, true, 10)
	require.NoError(t, err)
	assert.Equal(t, -2560, next)
}

func TestNoProvider(t *testing.T) {
	var p Provider = NoProvider{}
	_, err := p.GetTick(0)
	assert.True(t, errors.Is(err, invariant.ErrNoProvider))
	_, _, err = p.NextInitializedTickWithinOneWord(0, true, 1)
	assert.ErrorIs(t, err, ErrNoTickData)
	assert.Contains(t, err.Error(), "no tick data provider was given")
}
