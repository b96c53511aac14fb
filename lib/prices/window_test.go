package prices

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftchann/v3-quoter/lib/invariant"
)

func TestNewWindow(t *testing.T) {
	_, err := NewWindow(1)
	assert.Equal(t, "WINDOW_SIZE", invariant.Tag(err))
	w, err := NewWindow(3)
	require.NoError(t, err)
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, "0", w.Average().String())
	assert.Equal(t, "0", w.Volatility().String())
}

func TestWindow(t *testing.T) {
	w, err := NewWindow(3)
	require.NoError(t, err)

	// squared: 4, 16, 36
	w.Add(big.NewInt(2))
	assert.Equal(t, "0", w.Volatility().String())
	w.Add(big.NewInt(4))
	w.Add(big.NewInt(6))
	assert.True(t, w.Full())
	assert.Equal(t, "18", w.Average().String())
	// deviations -14, -2, 18: 196+4+324 = 524, /2 = 262
	assert.Equal(t, "16", w.Volatility().String())

	// overwrites the oldest: 16, 36, 64
	w.Add(big.NewInt(8))
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, "38", w.Average().String())
	// deviations -22, -2, 26: 484+4+676 = 1164, /2 = 582
	assert.Equal(t, "24", w.Volatility().String())
}

func TestWindowLargePrices(t *testing.T) {
	w, err := NewWindow(2)
	require.NoError(t, err)
	max, _ := new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
	w.Add(max)
	w.Add(max)
	assert.Zero(t, w.Average().Cmp(new(big.Int).Mul(max, max)))
	assert.Equal(t, "0", w.Volatility().String())
}
