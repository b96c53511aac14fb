package liquidity_amounts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/prices"
)

func encode(amount1, amount0 int64) *big.Int {
	return prices.EncodeSqrtRatioX96(big.NewInt(amount1), big.NewInt(amount0))
}

func amount(v string) *big.Int {
	if v == "max" {
		return cons.MaxUint256
	}
	n, _ := new(big.Int).SetString(v, 10)
	return n
}

func TestMaxLiquidityForAmounts(t *testing.T) {
	lower, upper := encode(100, 110), encode(110, 100)
	type args struct {
		current          *big.Int
		amount0, amount1 string
		useFullPrecision bool
	}
	tests := []struct {
		args args
		want string
	}{
		{args{encode(1, 1), "100", "200", false}, "2148"},
		{args{encode(1, 1), "100", "max", false}, "2148"},
		{args{encode(1, 1), "max", "200", false}, "4297"},
		{args{encode(99, 110), "100", "200", false}, "1048"},
		{args{encode(99, 110), "100", "max", false}, "1048"},
		{args{encode(99, 110), "max", "200", false}, "1214437677402050006470401421068302637228917309992228326090730924516431320489727"},
		{args{encode(111, 100), "100", "200", false}, "2097"},
		{args{encode(111, 100), "100", "max", false}, "1214437677402050006470401421098959354205873606971497132040612572422243086574654"},
		{args{encode(111, 100), "max", "200", false}, "2097"},

		{args{encode(1, 1), "100", "200", true}, "2148"},
		{args{encode(1, 1), "max", "200", true}, "4297"},
		{args{encode(99, 110), "100", "200", true}, "1048"},
		{args{encode(99, 110), "max", "200", true}, "1214437677402050006470401421082903520362793114274352355276488318240158678126184"},
		{args{encode(111, 100), "100", "max", true}, "1214437677402050006470401421098959354205873606971497132040612572422243086574654"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.args), func(t *testing.T) {
			result := MaxLiquidityForAmounts(tt.args.current, lower, upper, amount(tt.args.amount0), amount(tt.args.amount1), tt.args.useFullPrecision)
			if result.String() != tt.want {
				t.Fatalf("want=%v result=%v", tt.want, result)
			}
			// bounds may be passed in either order
			swapped := MaxLiquidityForAmounts(tt.args.current, upper, lower, amount(tt.args.amount0), amount(tt.args.amount1), tt.args.useFullPrecision)
			assert.Zero(t, result.Cmp(swapped))
		})
	}
}

func TestGetLiquidityForAmountIsImprecise(t *testing.T) {
	got := GetLiquidityForAmount(encode(99, 110), encode(100, 110), encode(110, 100), cons.MaxUint256, big.NewInt(200))
	assert.Equal(t, "1214437677402050006470401421068302637228917309992228326090730924516431320489727", got.String())
}

func TestGetAmountsForLiquidity(t *testing.T) {
	lower, upper := encode(100, 110), encode(110, 100)
	liquidity := big.NewInt(2148)
	tests := []struct {
		current      *big.Int
		want0, want1 string
	}{
		{encode(1, 1), "99", "99"},
		{encode(99, 110), "204", "0"},
		{encode(111, 100), "0", "204"},
	}
	for _, tt := range tests {
		t.Run(tt.current.String(), func(t *testing.T) {
			amount0, amount1 := GetAmountsForLiquidity(tt.current, lower, upper, liquidity)
			assert.Equal(t, tt.want0, amount0.String())
			assert.Equal(t, tt.want1, amount1.String())
		})
	}
}
