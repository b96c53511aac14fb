package prices

import (
	"math/big"

	"github.com/ftchann/v3-quoter/lib/fullmath"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// Window keeps the last N squared sqrt prices (X192 prices) of a pool.
type Window struct {
	prices []*big.Int
	index  int
	count  int
}

func NewWindow(size int) (*Window, error) {
	if size < 2 {
		return nil, invariant.New(invariant.ErrInvalidRange, "WINDOW_SIZE")
	}
	return &Window{prices: make([]*big.Int, size)}, nil
}

// Add records a Q64.96 sqrt price, overwriting the oldest one once the window is full.
func (w *Window) Add(sqrtPriceX96 *big.Int) {
	w.prices[w.index] = new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	w.index = (w.index + 1) % len(w.prices)
	if w.count < len(w.prices) {
		w.count++
	}
}

func (w *Window) Len() int { return w.count }

func (w *Window) Full() bool { return w.count == len(w.prices) }

// Average is the mean X192 price of the recorded observations.
func (w *Window) Average() *big.Int {
	sum := new(big.Int)
	if w.count == 0 {
		return sum
	}
	for _, price := range w.prices[:w.count] {
		sum.Add(sum, price)
	}
	return sum.Div(sum, big.NewInt(int64(w.count)))
}

// Volatility is the sample standard deviation of the recorded X192 prices.
func (w *Window) Volatility() *big.Int {
	if w.count < 2 {
		return new(big.Int)
	}
	avg := w.Average()
	sum := new(big.Int)
	for _, price := range w.prices[:w.count] {
		diff := new(big.Int).Sub(price, avg)
		sum.Add(sum, diff.Mul(diff, diff))
	}
	variance := sum.Div(sum, big.NewInt(int64(w.count-1)))
	// variance is a sum of squares
	volatility, _ := fullmath.Sqrt(variance)
	return volatility
}
