package engine

import (
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
)

// Weights returns the Lagrange basis values at offset for the five
// unit-spaced nodes {-2, -1, 0, 1, 2}. They are ordered to line up with
// History: w[0] weighs the newest sample (node 2), w[4] the oldest (node -2).
//
// The weights sum to one for every offset, and at an integer offset in
// [-2, 2] exactly one of them is one.
func Weights[F simdops.Float](offset F) [HistoryLength]F {
	var w [HistoryLength]F
	for k := range HistoryLength {
		basis := F(1)
		for j := range HistoryLength {
			if j == k {
				continue
			}
			basis *= (F(j-nodeOffset) - offset) / F(j-k)
		}
		w[HistoryLength-1-k] = basis
	}
	return w
}

// ValueAtOffset evaluates the degree-4 polynomial through the history
// samples at offset. Offset 0 lands on h[2]; offset 1 on h[1].
func ValueAtOffset[F simdops.Float](h *History[F], offset F) F {
	return valueAtOffset(simdops.For[F](), h, offset)
}

func valueAtOffset[F simdops.Float](ops *simdops.Ops[F], h *History[F], offset F) F {
	w := Weights(offset)
	return ops.DotProductUnsafe(h[:], w[:])
}
