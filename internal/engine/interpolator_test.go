package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-lagrange-resampler/internal/testutil"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
)

// testRatios covers upsampling, pass-through and downsampling.
var testRatios = []float64{0.25, 0.5, 0.77, 44100.0 / 48000.0, 1, 48000.0 / 44100.0, 1.5, 2, 3.3}

func TestInterpolator_ResetState(t *testing.T) {
	interp := NewInterpolator[float64]()
	assert.InDelta(t, 1.0, interp.SubSamplePos(), 0)
	assert.Equal(t, History[float64]{}, interp.History())
}

func TestInterpolator_PassThroughIdentity(t *testing.T) {
	input := testutil.Ramp[float32](16, 1)
	output := make([]float32, len(input))

	interp := NewInterpolator[float32]()
	w := window.Linear(input)
	n := interp.Process(1.0, &w, output)

	assert.Equal(t, len(input), n)
	assert.Equal(t, input, output)
	assert.Equal(t, History[float32]{16, 15, 14, 13, 12}, interp.History())
	assert.InDelta(t, 1.0, interp.SubSamplePos(), 0, "pass-through keeps phase")
}

func TestInterpolator_PassThroughExhausted(t *testing.T) {
	output := []float64{-1, -1, -1, -1, -1}

	interp := NewInterpolator[float64]()
	w := window.Linear([]float64{1, 2, 3})
	n := interp.Process(1.0, &w, output)

	assert.Equal(t, 5, n)
	assert.Equal(t, []float64{1, 2, 3, 0, 0}, output, "remainder is silence")
	assert.Equal(t, History[float64]{0, 0, 3, 2, 1}, interp.History())
}

func TestInterpolator_PassThroughWraps(t *testing.T) {
	w, err := window.Circular([]float64{0, 1, 2, 3}, 2)
	require.NoError(t, err)

	output := make([]float64, 6)
	interp := NewInterpolator[float64]()
	n := interp.Process(1.0, &w, output)

	assert.Equal(t, 6, n)
	assert.Equal(t, []float64{2, 3, 0, 1, 2, 3}, output)
	assert.Equal(t, History[float64]{3, 2, 1, 0, 3}, interp.History())
}

func TestInterpolator_PassThroughAdding(t *testing.T) {
	output := []float64{1, 1, 1, 1}

	interp := NewInterpolator[float64]()
	w := window.Linear([]float64{2, 4})
	n := interp.ProcessAdding(1.0, &w, output, 0.5)

	assert.Equal(t, 4, n)
	assert.Equal(t, []float64{2, 3, 1, 1}, output, "silence adds nothing")
}

func TestInterpolator_UpsampleByTwo(t *testing.T) {
	interp := NewInterpolator[float64]()
	w := window.Linear(testutil.Ramp[float64](32, 1))
	output := make([]float64, 8)

	consumed := interp.Process(0.5, &w, output)

	// Even outputs land on consumed samples delayed by the kernel latency;
	// odd ones are the interpolant at offset 0.5 over a partly primed history.
	want := []float64{0, -0.0390625, 0, 0.390625, 1, 1.5234375, 2, 2.5}
	testutil.AssertSlicesNear(t, want, output, 1e-12)
	assert.Equal(t, 4, consumed)
	assert.InDelta(t, 1.0, interp.SubSamplePos(), 1e-15)
}

func TestInterpolator_UpsampleByTwoPrimed(t *testing.T) {
	interp := NewInterpolator[float64]()
	input := testutil.Ramp[float64](64, 1)
	w := window.Linear(input)
	output := make([]float64, 40)
	interp.Process(0.5, &w, output)

	// Once primed, a ramp is reproduced exactly: every other output is an
	// input sample and the ones between are midpoints.
	for n := 10; n < len(output); n++ {
		want := float64(n)/2 - 1
		assert.InDelta(t, want, output[n], 1e-12, "output %d", n)
	}
}

func TestInterpolator_ConstantSignalInvariance(t *testing.T) {
	const level = 0.7

	for _, ratio := range testRatios {
		interp := NewInterpolator[float64]()

		// Prime the full history without moving the phase.
		prime := window.Linear(testutil.Constant[float64](HistoryLength, level))
		interp.Process(1.0, &prime, make([]float64, HistoryLength))

		w := window.Linear(testutil.Constant[float64](1024, level))
		output := make([]float64, 200)
		interp.Process(ratio, &w, output)

		testutil.AssertAllNear(t, output, level, 1e-12)
	}
}

func TestInterpolator_SilencePaddingOnExhaustion(t *testing.T) {
	nan := math.NaN()
	data := []float64{1, 2, 3, nan, nan, nan, nan, nan}
	w, err := window.New(data, 0, 3, 0)
	require.NoError(t, err)

	interp := NewInterpolator[float64]()
	output := make([]float64, 10)
	consumed := interp.Process(2.0, &w, output)

	testutil.AssertNoNaNOrInf(t, output)
	assert.Equal(t, 3, consumed, "only genuine samples count")
	testutil.AssertAllNear(t, output[4:], 0, 0)
	assert.Equal(t, History[float64]{}, interp.History())
}

func TestInterpolator_SilencePaddingUpsampling(t *testing.T) {
	nan := math.NaN()
	data := []float32{1, 2, 3, float32(nan)}
	w, err := window.New(data, 0, 3, 0)
	require.NoError(t, err)

	interp := NewInterpolator[float32]()
	output := make([]float32, 40)
	interp.Process(0.5, &w, output)

	testutil.AssertNoNaNOrInf(t, output)
	testutil.AssertAllNear(t, output[30:], 0, 0)
}

func TestInterpolator_WraparoundBookkeeping(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7}

	t.Run("downsampling", func(t *testing.T) {
		w, err := window.New(data, 6, 2, 8)
		require.NoError(t, err)

		interp := NewInterpolator[float64]()
		moved := interp.Process(2.0, &w, make([]float64, 3))

		assert.Equal(t, 5, moved, "read 6,7,0,1,2")
		assert.Equal(t, History[float64]{2, 1, 0, 7, 6}, interp.History())
		assert.Equal(t, 3, (6+moved)%8, "next read position")
	})

	t.Run("upsampling", func(t *testing.T) {
		w, err := window.Circular(data[:4], 2)
		require.NoError(t, err)

		interp := NewInterpolator[float64]()
		moved := interp.Process(0.5, &w, make([]float64, 6))

		assert.Equal(t, 3, moved, "read 2,3,0")
		assert.Equal(t, History[float64]{0, 3, 2, 0, 0}, interp.History())
	})

	t.Run("many periods", func(t *testing.T) {
		w, err := window.Circular(data, 0)
		require.NoError(t, err)

		interp := NewInterpolator[float64]()
		moved := interp.Process(3.0, &w, make([]float64, 10))

		// The primed first output reads 2, the other nine read 3 each.
		assert.Equal(t, 29%8, moved)
		assert.Equal(t, 29, w.Consumed())
	})
}

func TestInterpolator_ProcessAddingMatchesProcess(t *testing.T) {
	const gain = 0.25
	input := testutil.Sine[float64](512, 1000, 48000, 0.8)

	for _, ratio := range testRatios {
		plain := NewInterpolator[float64]()
		adding := NewInterpolator[float64]()

		wPlain := window.Linear(input)
		wAdding := window.Linear(input)

		want := make([]float64, 128)
		plain.Process(ratio, &wPlain, want)

		got := testutil.Constant[float64](128, 1)
		adding.ProcessAdding(ratio, &wAdding, got, gain)

		for i := range want {
			assert.InDelta(t, 1+gain*want[i], got[i], 1e-12, "ratio %v index %d", ratio, i)
		}
		assert.Equal(t, plain.History(), adding.History())
		assert.InDelta(t, plain.SubSamplePos(), adding.SubSamplePos(), 0)
	}
}

func TestInterpolator_MaxOutputs(t *testing.T) {
	interp := NewInterpolator[float64]()

	assert.Equal(t, 17, interp.MaxOutputs(1.0, 17))
	assert.Equal(t, 8, interp.MaxOutputs(0.5, 4))
	assert.Equal(t, 3, interp.MaxOutputs(2.0, 5))
	assert.Equal(t, 0, interp.MaxOutputs(0.5, 0), "fresh state must consume first")
	assert.InDelta(t, 1.0, interp.SubSamplePos(), 0, "state untouched")
}

func TestInterpolator_MaxOutputsNeverOverreads(t *testing.T) {
	input := testutil.Sine[float64](300, 440, 8000, 1)

	for _, ratio := range testRatios {
		for _, available := range []int{0, 1, 4, 5, 37, 300} {
			interp := NewInterpolator[float64]()
			w := window.Linear(input[:available])

			n := interp.MaxOutputs(ratio, available)
			interp.Process(ratio, &w, make([]float64, n))

			assert.LessOrEqual(t, w.Consumed(), available)
			if available > 0 && ratio != 1 {
				// One more output would need one more input.
				assert.GreaterOrEqual(t, w.Consumed(), available-int(math.Ceil(ratio)),
					"ratio %v available %d", ratio, available)
			}
		}
	}
}

func TestInterpolator_ChunkedStreamingMatchesOneShot(t *testing.T) {
	input := testutil.Sine[float64](2000, 997, 44100, 0.9)
	chunks := []int{1, 7, 64, 3, 500, 2, 129, 1000, 294}

	for _, ratio := range testRatios {
		oneShot := NewInterpolator[float64]()
		whole := window.Linear(input)
		want := make([]float64, oneShot.MaxOutputs(ratio, len(input)))
		oneShot.Process(ratio, &whole, want)

		streamed := NewInterpolator[float64]()
		var got, pending []float64
		offset := 0
		for _, size := range chunks {
			pending = append(pending, input[offset:offset+size]...)
			offset += size

			out := make([]float64, streamed.MaxOutputs(ratio, len(pending)))
			w := window.Linear(pending)
			streamed.Process(ratio, &w, out)
			got = append(got, out...)
			pending = append([]float64(nil), pending[w.Consumed():]...)
		}

		require.Equal(t, len(input), offset)
		assert.Equal(t, want, got, "ratio %v", ratio)
	}
}

func TestInterpolator_Reset(t *testing.T) {
	input := testutil.Sine[float32](256, 1000, 44100, 0.5)

	run := func(interp *Interpolator[float32]) []float32 {
		w := window.Linear(input)
		out := make([]float32, 100)
		interp.Process(1.3, &w, out)
		return out
	}

	interp := NewInterpolator[float32]()
	first := run(interp)
	interp.Reset()
	second := run(interp)

	assert.Equal(t, first, second, "reset must restore stream start")
	assert.Equal(t, run(NewInterpolator[float32]()), first)
}

func TestInterpolator_EmptyOutput(t *testing.T) {
	interp := NewInterpolator[float64]()
	w := window.Linear([]float64{1, 2, 3})

	assert.Zero(t, interp.Process(0.5, &w, nil))
	assert.Zero(t, interp.Process(1.0, &w, nil))
	assert.Zero(t, w.Consumed())
	assert.Equal(t, History[float64]{}, interp.History())
}
