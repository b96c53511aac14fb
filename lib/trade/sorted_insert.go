package trade

import (
	"slices"

	"github.com/ftchann/v3-quoter/lib/invariant"
)

// SortedInsert inserts add into items, which must be sorted by cmp, keeping at
// most maxSize elements. When the list was full the element pushed off the end
// (possibly add itself) is returned as removed.
func SortedInsert[T any](items []T, add T, maxSize int, cmp func(a, b T) int) (out []T, removed *T, err error) {
	if maxSize <= 0 {
		return items, nil, invariant.New(invariant.ErrInvalidRange, "MAX_SIZE_ZERO")
	}
	if len(items) > maxSize {
		return items, nil, invariant.New(invariant.ErrInvalidRange, "ITEMS_SIZE")
	}
	if len(items) == 0 {
		return append(items, add), nil, nil
	}

	full := len(items) == maxSize
	if full && cmp(items[len(items)-1], add) <= 0 {
		return items, &add, nil
	}

	lo, hi := 0, len(items)
	for lo < hi {
		mid := (lo + hi) >> 1
		if cmp(items[mid], add) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	items = slices.Insert(items, lo, add)
	if full {
		last := items[len(items)-1]
		return items[:len(items)-1], &last, nil
	}
	return items, nil, nil
}
