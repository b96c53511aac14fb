package swapmath

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	sqrtmath "github.com/ftchann/v3-quoter/lib/sqrtprice_math"
)

func bi(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}

func Test(t *testing.T) {
	current := bi("1344919684864506912172695223877090")
	target := bi("1346938477169594858818217023321238")
	liquidity := bi("731344820973715931")
	amountRemaining := bi("26412237337162431364")

	sqrtPriceX96, amountIn, amountOut, feeAmount, err := ComputeSwapStep(current, target, liquidity, amountRemaining, 500)
	require.NoError(t, err)
	assert.Equal(t, target.String(), sqrtPriceX96.String())
	assert.Equal(t, "18635208114057179514", amountIn.String())
	assert.Equal(t, "64572753398", amountOut.String())
	assert.Equal(t, "9322265189623402", feeAmount.String())
}

func TestComputeSwapStep(t *testing.T) {
	type args struct {
		current, target, liquidity, remaining string
		fee                                   cons.FeeAmount
	}
	type want struct {
		next, in, out, fee string
	}
	price1to1 := "79228162514264337593543950336"
	price101to100 := "79623317895830914510639640423"
	price99to100 := "78831026366734652303669917531"
	tests := []struct {
		name string
		args args
		want want
	}{
		{"exact in capped at target one for zero",
			args{price1to1, price101to100, "2000000000000000000", "1000000000000000000", 600},
			want{price101to100, "9975124224178055", "9925619580021728", "5988667735148"}},
		{"exact out capped at target one for zero",
			args{price1to1, price101to100, "2000000000000000000", "-1000000000000000000", 600},
			want{price101to100, "9975124224178055", "9925619580021728", "5988667735148"}},
		{"exact in fully spent one for zero",
			args{price1to1, "250541448375047931186413801569", "2000000000000000000", "1000000000000000000", 600},
			want{"118818475322642227089037862318", "999400000000000000", "666399946655997866", "600000000000000"}},
		{"exact out fully received one for zero",
			args{price1to1, "792281625142643375935439503360", "2000000000000000000", "-1000000000000000000", 600},
			want{"158456325028528675187087900672", "2000000000000000000", "1000000000000000000", "1200720432259356"}},
		{"amount out capped at desired amount",
			args{"417332158212080721273783715441582", "1452870262520218020823638996", "159344665391607089467575320103", "-1", 1},
			want{"417332158212080721273783715441581", "1", "1", "1"}},
		{"target price of 1 uses partial input",
			args{"2", "1", "1", "3915081100057732413702495386755767", 1},
			want{"1", "39614081257132168796771975168", "0", "39614120871253040049813"}},
		{"entire input taken as fee",
			args{"2413", "79887613182836312", "1985041575832132834610021537970", "10", 1872},
			want{"2413", "0", "0", "10"}},
		{"zero for one exact in below one pip",
			args{"2", "1", "1", "1", 1},
			want{"2", "0", "0", "1"}},
		{"zero for one exact out of one unit",
			args{"2", "1", "1", "-1", 1},
			want{"1", "39614081257132168796771975168", "0", "39614120871253040049813"}},
		{"zero for one exact in capped at target",
			args{price1to1, price99to100, "2000000000000000000", "1000000000000000000", 3000},
			want{price99to100, "10075630518424151", "10025125786760090", "30317845090545"}},
		{"zero for one exact out fully received",
			args{price1to1, price99to100, "2000000000000000000", "-1000000000000000", 3000},
			want{"79188548433007205424747178360", "1000500250125063", "1000000000000000", "3010532347418"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, in, out, fee, err := ComputeSwapStep(bi(tt.args.current), bi(tt.args.target), bi(tt.args.liquidity), bi(tt.args.remaining), tt.args.fee)
			require.NoError(t, err)
			got := want{next.String(), in.String(), out.String(), fee.String()}
			if got != tt.want {
				t.Fatalf("want=%v result=%v", tt.want, got)
			}
		})
	}
}

func TestComputeSwapStepBounds(t *testing.T) {
	price1to1 := bi("79228162514264337593543950336")
	targets := []*big.Int{bi("79623317895830914510639640423"), bi("78831026366734652303669917531"), bi("250541448375047931186413801569")}
	amounts := []*big.Int{bi("1000"), bi("-1000"), bi("1000000000000000000"), bi("-1000000000000000000"), bi("123456789012345678901234")}
	fees := []cons.FeeAmount{cons.FeeLowest, cons.FeeLow, cons.FeeMedium, cons.FeeHigh}
	liquidity := bi("2000000000000000000")

	for _, target := range targets {
		for _, amount := range amounts {
			for _, fee := range fees {
				t.Run(fmt.Sprint(target, amount, fee), func(t *testing.T) {
					next, in, out, feeAmount, err := ComputeSwapStep(price1to1, target, liquidity, amount, fee)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, in.Sign(), 0)
					assert.GreaterOrEqual(t, out.Sign(), 0)
					assert.GreaterOrEqual(t, feeAmount.Sign(), 0)

					lo, hi := price1to1, target
					if lo.Cmp(hi) > 0 {
						lo, hi = hi, lo
					}
					assert.True(t, next.Cmp(lo) >= 0 && next.Cmp(hi) <= 0)

					if amount.Sign() >= 0 {
						spent := new(big.Int).Add(in, feeAmount)
						assert.True(t, spent.Cmp(amount) <= 0)
					} else {
						assert.True(t, out.Cmp(new(big.Int).Neg(amount)) <= 0)
					}
				})
			}
		}
	}
}

func TestComputeSwapStepMatchesDeltas(t *testing.T) {
	current := bi("79228162514264337593543950336")
	target := bi("78831026366734652303669917531")
	liquidity := bi("2000000000000000000")

	next, in, out, _, err := ComputeSwapStep(current, target, liquidity, bi("1000000000000000000"), cons.FeeMedium)
	require.NoError(t, err)
	assert.Zero(t, in.Cmp(sqrtmath.GetAmount0Delta(next, current, liquidity, true)))
	assert.Zero(t, out.Cmp(sqrtmath.GetAmount1Delta(next, current, liquidity, false)))
}
