package liquiditymath

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddDelta(t *testing.T) {
	tests := []struct {
		x, y int64
		want string
	}{
		{1, 0, "1"},
		{1, -1, "0"},
		{1, 1, "2"},
		{100, -40, "60"},
		{0, 5, "5"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.x, tt.y), func(t *testing.T) {
			x := big.NewInt(tt.x)
			got := AddDelta(x, big.NewInt(tt.y))
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, fmt.Sprint(tt.x), x.String())
		})
	}
}
