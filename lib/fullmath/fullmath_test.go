package fullmath

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

func TestMulDivRoundingUp(t *testing.T) {
	tests := [][]int64{
		{0, 500, 1000000, 0},
		{1, 500, 1000000, 1},
		{1000000, 1, 1000000, 1},
		{1000001, 1, 1000000, 2},
	}
	for _, arg := range tests {
		t.Run(fmt.Sprint(arg), func(t *testing.T) {
			result := MulDivRoundingUp(big.NewInt(arg[0]), big.NewInt(arg[1]), big.NewInt(arg[2]))
			if big.NewInt(arg[3]).Cmp(result) != 0 {
				t.Fatalf("want=%v result=%v", arg[3], result)
			}
		})
	}
}

func TestMulDivBeyond256Bits(t *testing.T) {
	// the intermediate product needs 512 bits
	got := MulDiv(cons.MaxUint256, cons.MaxUint256, cons.MaxUint256)
	assert.Zero(t, cons.MaxUint256.Cmp(got))

	got = MulDivRoundingUp(cons.Q128, new(big.Int).Add(cons.Q128, cons.One), cons.Q128)
	assert.Zero(t, new(big.Int).Add(cons.Q128, cons.One).Cmp(got))

	got = MulDivRoundingUp(cons.MaxUint256, big.NewInt(3), big.NewInt(2))
	want := new(big.Int).Mul(cons.MaxUint256, big.NewInt(3))
	want.Add(want, cons.One).Rsh(want, 1)
	assert.Zero(t, want.Cmp(got))
}

func TestIn256(t *testing.T) {
	assert.Equal(t, "0", AddIn256(cons.MaxUint256, cons.One).String())
	assert.Zero(t, cons.MaxUint256.Cmp(SubIn256(cons.Zero, cons.One)))
	assert.Equal(t, "5", SubIn256(big.NewInt(7), big.NewInt(2)).String())
	assert.Zero(t, new(big.Int).Sub(cons.MaxUint256, cons.One).Cmp(MultiplyIn256(cons.MaxUint256, big.NewInt(2))))
	assert.Equal(t, "0", MultiplyIn256(cons.Q128, cons.Q128).String())
}

func TestSqrt(t *testing.T) {
	for i := int64(0); i < 1000; i++ {
		got, err := Sqrt(big.NewInt(i))
		require.NoError(t, err)
		root := new(big.Int).Sqrt(big.NewInt(i)).Int64()
		assert.Equal(t, root, got.Int64())
		assert.LessOrEqual(t, root*root, i)
		assert.Greater(t, (root+1)*(root+1), i)
	}
	for i := uint(0); i < 1000; i++ {
		root := new(big.Int).Lsh(cons.One, i)
		got, err := Sqrt(new(big.Int).Mul(root, root))
		require.NoError(t, err)
		assert.Zero(t, root.Cmp(got))
	}
	got, err := Sqrt(cons.MaxUint256)
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211455", got.String())

	_, err = Sqrt(cons.NegativeOne)
	assert.ErrorIs(t, err, invariant.ErrInvalidRange)
}
