// Package batch partitions an ordered artifact list into fixed-size groups.
package batch

import (
	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// Batch is one fixed-length group. Slots at Filled and beyond hold the pad value.
type Batch[T any] struct {
	Index  int
	Items  []T
	Filled int
}

// Artifacts returns the filled slots only.
func (b Batch[T]) Artifacts() []T {
	return b.Items[:b.Filled]
}

// Padded reports whether the batch carries pad slots.
func (b Batch[T]) Padded() bool {
	return b.Filled < len(b.Items)
}

// Group splits items into consecutive batches of length n, right-padding the
// final batch with pad. An empty input yields no batches.
func Group[T any](items []T, n int, pad T) ([]Batch[T], error) {
	if n < 1 {
		return nil, errs.Invalid("batch size must be >= 1, got %d", n)
	}

	batches := make([]Batch[T], 0, (len(items)+n-1)/n)
	for start := 0; start < len(items); start += n {
		end := min(start+n, len(items))
		group := make([]T, n)
		filled := copy(group, items[start:end])
		for i := filled; i < n; i++ {
			group[i] = pad
		}
		batches = append(batches, Batch[T]{
			Index:  len(batches),
			Items:  group,
			Filled: filled,
		})
	}
	return batches, nil
}

// Flatten concatenates the filled slots of batches in order.
func Flatten[T any](batches []Batch[T]) []T {
	var out []T
	for _, b := range batches {
		out = append(out, b.Artifacts()...)
	}
	return out
}
