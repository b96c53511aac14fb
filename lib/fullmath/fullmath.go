package fullmath

import (
	"math/big"

	cons "github.com/ftchann/v3-quoter/lib/constants"
	"github.com/ftchann/v3-quoter/lib/invariant"
)

// MulDiv returns floor(a*b/denominator). The product is never truncated.
func MulDiv(a, b, denominator *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Div(product, denominator)
}

// MulDivRoundingUp returns ceil(a*b/denominator).
func MulDivRoundingUp(a, b, denominator *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	result, rem := new(big.Int).DivMod(product, denominator, new(big.Int))
	if rem.Sign() != 0 {
		result.Add(result, cons.One)
	}
	return result
}

// MultiplyIn256 is x*y wrapped to 256 bits, like unchecked EVM multiplication.
func MultiplyIn256(x, y *big.Int) *big.Int {
	product := new(big.Int).Mul(x, y)
	return product.And(product, cons.MaxUint256)
}

// AddIn256 is x+y wrapped to 256 bits.
func AddIn256(x, y *big.Int) *big.Int {
	sum := new(big.Int).Add(x, y)
	return sum.And(sum, cons.MaxUint256)
}

// SubIn256 is x-y wrapped to 256 bits.
func SubIn256(x, y *big.Int) *big.Int {
	difference := new(big.Int).Sub(x, y)
	return difference.And(difference, cons.MaxUint256)
}

// Sqrt returns the floor of the square root of value.
func Sqrt(value *big.Int) (*big.Int, error) {
	if value.Sign() < 0 {
		return nil, invariant.New(invariant.ErrInvalidRange, "NEGATIVE")
	}
	return new(big.Int).Sqrt(value), nil
}
