package tickmath

import (
	"math/big"

	ui "github.com/holiman/uint256"

	"github.com/ftchann/v3-quoter/lib/invariant"
)

const (
	MinTick int = -887272  // The minimum tick that can be used on any pool.
	MaxTick int = -MinTick // The maximum tick that can be used on any pool.
)

var (
	MinSqrtRatio = big.NewInt(4295128739) // The sqrt ratio corresponding to the minimum tick that could be used on any pool.
	// The sqrt ratio corresponding to the maximum tick that could be used on any pool.
	MaxSqrtRatio, _ = new(big.Int).SetString("1461446703485210103287273052203988822378723970342", 10)
)

var (
	q32        = ui.NewInt(1 << 32)
	maxUint256 = new(ui.Int).SetAllOne()
	ratioEven  = new(ui.Int).Lsh(ui.NewInt(1), 128)
	ratioOdd   = ui.MustFromHex("0xfffcb933bd6fad37aa2d162d1a594001")
	// sqrt(1.0001)^-(2^i) as Q128, for i = 1..19
	ratioMultipliers = []*ui.Int{
		ui.MustFromHex("0xfff97272373d413259a46990580e213a"),
		ui.MustFromHex("0xfff2e50f5f656932ef12357cf3c7fdcc"),
		ui.MustFromHex("0xffe5caca7e10e4e61c3624eaa0941cd0"),
		ui.MustFromHex("0xffcb9843d60f6159c9db58835c926644"),
		ui.MustFromHex("0xff973b41fa98c081472e6896dfb254c0"),
		ui.MustFromHex("0xff2ea16466c96a3843ec78b326b52861"),
		ui.MustFromHex("0xfe5dee046a99a2a811c461f1969c3053"),
		ui.MustFromHex("0xfcbe86c7900a88aedcffc83b479aa3a4"),
		ui.MustFromHex("0xf987a7253ac413176f2b074cf7815e54"),
		ui.MustFromHex("0xf3392b0822b70005940c7a398e4b70f3"),
		ui.MustFromHex("0xe7159475a2c29b7443b29c7fa6e889d9"),
		ui.MustFromHex("0xd097f3bdfd2022b8845ad8f792aa5825"),
		ui.MustFromHex("0xa9f746462d870fdf8a65dc1f90e061e5"),
		ui.MustFromHex("0x70d869a156d2a1b890bb3df62baf32f7"),
		ui.MustFromHex("0x31be135f97d08fd981231505542fcfa6"),
		ui.MustFromHex("0x9aa508b5b7a84e1c677de54f3e99bc9"),
		ui.MustFromHex("0x5d6af8dedb81196699c329225ee604"),
		ui.MustFromHex("0x2216e584f5fa1ea926041bedfe98"),
		ui.MustFromHex("0x48a170391f7dc42444e8fa2"),
	}
	magicSqrt10001 = ui.MustFromHex("0x3627a301d71055774c85")
	magicTickLow   = ui.MustFromHex("0x28f6481ab7f045a5af012a19d003aaa")
	magicTickHigh  = ui.MustFromHex("0xdb2df09e81959a81455e260799a0632f")
)

// GetSqrtRatioAtTick returns sqrt(1.0001)^tick as a Q64.96.
func GetSqrtRatioAtTick(tick int) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, invariant.New(invariant.ErrInvalidRange, "TICK")
	}
	return getSqrtRatioAtTick(tick).ToBig(), nil
}

// GetTickAtSqrtRatio returns the greatest tick whose ratio is at most sqrtRatioX96.
func GetTickAtSqrtRatio(sqrtRatioX96 *big.Int) (int, error) {
	if sqrtRatioX96.Cmp(MinSqrtRatio) < 0 || sqrtRatioX96.Cmp(MaxSqrtRatio) >= 0 {
		return 0, invariant.New(invariant.ErrInvalidRange, "SQRT_RATIO")
	}
	ratio, _ := ui.FromBig(sqrtRatioX96)
	return getTickAtSqrtRatio(ratio), nil
}

func getSqrtRatioAtTick(tick int) *ui.Int {
	absTick := tick
	if tick < 0 {
		absTick = -tick
	}
	var ratio *ui.Int
	if absTick&0x1 != 0 {
		ratio = new(ui.Int).Set(ratioOdd)
	} else {
		ratio = new(ui.Int).Set(ratioEven)
	}
	for i, m := range ratioMultipliers {
		if absTick&(0x2<<i) != 0 {
			ratio = mulShift(ratio, m)
		}
	}
	if tick > 0 {
		ratio = new(ui.Int).Div(maxUint256, ratio)
	}

	// back to Q96, rounding up
	if new(ui.Int).Mod(ratio, q32).IsZero() {
		return new(ui.Int).Rsh(ratio, 32)
	}
	return new(ui.Int).AddUint64(new(ui.Int).Rsh(ratio, 32), 1)
}

func getTickAtSqrtRatio(sqrtRatioX96 *ui.Int) int {
	sqrtRatioX128 := new(ui.Int).Lsh(sqrtRatioX96, 32)
	msb := uint(sqrtRatioX128.BitLen() - 1)
	var r *ui.Int
	if msb >= 128 {
		r = new(ui.Int).Rsh(sqrtRatioX128, msb-127)
	} else {
		r = new(ui.Int).Lsh(sqrtRatioX128, 127-msb)
	}

	// log2 is a signed Q64.64 held in two's complement
	log2 := signed(int64(msb) - 128)
	log2.Lsh(log2, 64)

	for i := 0; i < 14; i++ {
		r = new(ui.Int).Rsh(new(ui.Int).Mul(r, r), 127)
		f := new(ui.Int).Rsh(r, 128)
		log2.Or(log2, new(ui.Int).Lsh(f, uint(63-i)))
		r.Rsh(r, uint(f.Uint64()))
	}

	logSqrt10001 := new(ui.Int).Mul(log2, magicSqrt10001)

	tickLow := int(int64(new(ui.Int).SRsh(new(ui.Int).Sub(logSqrt10001, magicTickLow), 128).Uint64()))
	tickHigh := int(int64(new(ui.Int).SRsh(new(ui.Int).Add(logSqrt10001, magicTickHigh), 128).Uint64()))

	if tickLow == tickHigh {
		return tickLow
	}
	if getSqrtRatioAtTick(tickHigh).Cmp(sqrtRatioX96) <= 0 {
		return tickHigh
	}
	return tickLow
}

// MostSignificantBit returns the index of the highest set bit of x.
func MostSignificantBit(x *big.Int) (uint, error) {
	if x.Sign() <= 0 {
		return 0, invariant.New(invariant.ErrInvalidRange, "ZERO")
	}
	v, overflow := ui.FromBig(x)
	if overflow {
		return 0, invariant.New(invariant.ErrInvalidRange, "MAX")
	}
	var msb uint
	for _, power := range []uint{128, 64, 32, 16, 8, 4, 2, 1} {
		if v.Cmp(new(ui.Int).Lsh(ui.NewInt(1), power)) >= 0 {
			v = new(ui.Int).Rsh(v, power)
			msb += power
		}
	}
	return msb, nil
}

// NearestUsableTick rounds tick to the closest multiple of tickSpacing that
// stays within [MinTick, MaxTick]. Halves round up.
func NearestUsableTick(tick, tickSpacing int) (int, error) {
	if tickSpacing <= 0 {
		return 0, invariant.New(invariant.ErrInvalidRange, "TICK_SPACING")
	}
	if tick < MinTick || tick > MaxTick {
		return 0, invariant.New(invariant.ErrInvalidRange, "TICK_BOUND")
	}
	compressed := floorDiv(tick, tickSpacing)
	if 2*(tick-compressed*tickSpacing) >= tickSpacing {
		compressed++
	}
	rounded := compressed * tickSpacing
	if rounded < MinTick {
		return rounded + tickSpacing, nil
	}
	if rounded > MaxTick {
		return rounded - tickSpacing, nil
	}
	return rounded, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func signed(v int64) *ui.Int {
	if v < 0 {
		return new(ui.Int).Neg(ui.NewInt(uint64(-v)))
	}
	return ui.NewInt(uint64(v))
}

func mulShift(val, mulBy *ui.Int) *ui.Int {
	return new(ui.Int).Rsh(new(ui.Int).Mul(val, mulBy), 128)
}
