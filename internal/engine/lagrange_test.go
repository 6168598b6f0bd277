package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/testutil"
)

// halfwayWeights are the basis values at offset 0.5, newest sample first.
var halfwayWeights = [HistoryLength]float64{
	-0.0390625, // node 2
	0.46875,    // node 1
	0.703125,   // node 0
	-0.15625,   // node -1
	0.0234375,  // node -2
}

func TestWeights_Halfway(t *testing.T) {
	w := Weights(0.5)
	for i := range w {
		assert.InDelta(t, halfwayWeights[i], w[i], 1e-15, "weight %d", i)
	}
}

func TestWeights_PartitionOfUnity(t *testing.T) {
	t.Run("float64", func(t *testing.T) {
		sum := simdops.Float64Ops().Sum
		for i := range 100 {
			offset := float64(i) / 100
			w := Weights(offset)
			assert.InDelta(t, 1.0, sum(w[:]), 1e-12, "offset %.2f", offset)
		}
	})

	t.Run("float32", func(t *testing.T) {
		for i := range 100 {
			offset := float32(i) / 100
			w := Weights(offset)
			testutil.AssertDCGain(t, w[:], 1.0, testutil.Float32Tolerance)
		}
	})
}

func TestWeights_NodeExactness(t *testing.T) {
	for k := range HistoryLength {
		node := float64(k - nodeOffset)
		w := Weights(node)
		for i := range w {
			want := 0.0
			if i == HistoryLength-1-k {
				want = 1
			}
			assert.InDelta(t, want, w[i], 0, "node %v weight %d", node, i)
		}
	}
}

func TestValueAtOffset_ReproducesNodes(t *testing.T) {
	h := History[float64]{0.5, -1.25, 3, 7.5, -2}
	for k := range HistoryLength {
		node := float64(k - nodeOffset)
		assert.InDelta(t, h[HistoryLength-1-k], ValueAtOffset(&h, node), 1e-12, "node %v", node)
	}
	assert.InDelta(t, h[2], ValueAtOffset(&h, 0), 1e-12, "offset 0 lands on h[2]")
}

func TestValueAtOffset_ExactForQuartics(t *testing.T) {
	p := func(x float64) float64 {
		return 0.3*x*x*x*x - 1.1*x*x*x + 0.25*x*x + 2*x - 0.7
	}

	// Node 2 is the newest sample.
	h := History[float64]{p(2), p(1), p(0), p(-1), p(-2)}
	for i := range 20 {
		x := float64(i) / 20
		assert.InDelta(t, p(x), ValueAtOffset(&h, x), 1e-12, "x=%.2f", x)
	}
}

func TestValueAtOffset_Float32(t *testing.T) {
	h := History[float32]{4, 3, 2, 1, 0}
	assert.InDelta(t, 2.5, float64(ValueAtOffset(&h, float32(0.5))), testutil.Float32Tolerance)
}

func BenchmarkValueAtOffset(b *testing.B) {
	h := History[float32]{0.1, 0.2, 0.3, 0.4, 0.5}
	ops := simdops.Float32Ops()

	b.ReportAllocs()
	var x float32
	for b.Loop() {
		_ = valueAtOffset(ops, &h, x)
		x += 0.001
		if x >= 1 {
			x = 0
		}
	}
}
