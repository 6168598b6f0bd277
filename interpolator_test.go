package resampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-lagrange-resampler/internal/testutil"
)

func TestInterpolator_InvalidRatio(t *testing.T) {
	var interp Interpolator[float64]
	w := LinearWindow([]float64{1, 2, 3})
	out := make([]float64, 4)

	invalid := []float64{
		0, -1, math.NaN(), math.Inf(1), math.Inf(-1),
		1e-17, minRatioFactor / 2, maxRatioFactor * 2, 1e20,
	}
	for _, ratio := range invalid {
		_, err := interp.Process(ratio, &w, out)
		require.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", ratio)

		_, err = interp.ProcessAdding(ratio, &w, out, 1)
		require.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", ratio)

		_, err = interp.MaxOutputs(ratio, 10)
		require.ErrorIs(t, err, ErrInvalidRatio, "ratio %v", ratio)
	}
	assert.Zero(t, w.Consumed(), "rejected calls must not read")
}

func TestInterpolator_RatioRangeLimits(t *testing.T) {
	var interp Interpolator[float64]

	n, err := interp.MaxOutputs(minRatioFactor, 2)
	require.NoError(t, err)
	assert.Equal(t, 512, n, "each input feeds 256 outputs")

	n, err = interp.MaxOutputs(maxRatioFactor, 512)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "first output needs 255 inputs, the next 256")

	w := LinearWindow(testutil.Ramp[float64](600, 1))
	consumed, err := interp.Process(maxRatioFactor, &w, make([]float64, 2))
	require.NoError(t, err)
	assert.Equal(t, 511, consumed)
}

func TestInterpolator_InvalidWindow(t *testing.T) {
	interp := NewInterpolator[float32]()

	_, err := interp.Process(1.5, nil, make([]float32, 4))
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = interp.MaxOutputs(1.5, -1)
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = NewWindow([]float32{1, 2, 3}, 2, 2, 0)
	require.ErrorIs(t, err, ErrInvalidWindow, "length past end of data")

	_, err = NewWindow([]float32{1, 2, 3}, 1, 2, 4)
	require.ErrorIs(t, err, ErrInvalidWindow, "period reaches before data")

	_, err = CircularWindow([]float32{1, 2, 3}, 4)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestInterpolator_ZeroValueMatchesNew(t *testing.T) {
	input := testutil.Sine[float64](512, 1200, RateDAT, 0.6)

	var zero Interpolator[float64]
	wZero := LinearWindow(input)
	got := make([]float64, 300)
	_, err := zero.Process(0.8, &wZero, got)
	require.NoError(t, err)

	fresh := NewInterpolator[float64]()
	wFresh := LinearWindow(input)
	want := make([]float64, 300)
	_, err = fresh.Process(0.8, &wFresh, want)
	require.NoError(t, err)

	assert.Equal(t, want, got)

	zero.Reset()
	wZero = LinearWindow(input)
	_, err = zero.Process(0.8, &wZero, got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInterpolator_CircularLoopContinuity(t *testing.T) {
	// Reading a loop in several calls, restarting each window from the
	// reported position, must match one call over the same output span.
	const pitch = 1.37
	table := testutil.Sine[float32](64, 1, 64, 1)

	oneShot := NewInterpolator[float32]()
	w, err := CircularWindow(table, 0)
	require.NoError(t, err)
	want := make([]float32, 400)
	_, err = oneShot.Process(pitch, &w, want)
	require.NoError(t, err)

	chunked := NewInterpolator[float32]()
	got := make([]float32, 0, len(want))
	start := 0
	for _, size := range []int{1, 99, 37, 200, 63} {
		w, err := CircularWindow(table, start)
		require.NoError(t, err)

		out := make([]float32, size)
		moved, err := chunked.Process(pitch, &w, out)
		require.NoError(t, err)
		got = append(got, out...)
		start = (start + moved) % len(table)
	}

	assert.Equal(t, want, got)
}

func TestInterpolator_ProcessAddingMixes(t *testing.T) {
	a := testutil.Sine[float64](256, 500, RateCD, 0.5)
	b := testutil.Sine[float64](256, 1500, RateCD, 0.5)

	mix := make([]float64, 200)
	for _, src := range [][]float64{a, b} {
		interp := NewInterpolator[float64]()
		w := LinearWindow(src)
		_, err := interp.ProcessAdding(0.9, &w, mix, 0.5)
		require.NoError(t, err)
	}

	for _, src := range [][]float64{a, b} {
		interp := NewInterpolator[float64]()
		w := LinearWindow(src)
		single := make([]float64, len(mix))
		_, err := interp.Process(0.9, &w, single)
		require.NoError(t, err)
		for i := range mix {
			mix[i] -= 0.5 * single[i]
		}
	}

	testutil.AssertAllNear(t, mix, 0, 1e-15)
}

func TestInterpolator_MaxOutputsDrivesStreaming(t *testing.T) {
	interp := NewInterpolator[float64]()
	input := testutil.Ramp[float64](50, 0)

	n, err := interp.MaxOutputs(2.5, len(input))
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	w := LinearWindow(input)
	consumed, err := interp.Process(2.5, &w, make([]float64, n))
	require.NoError(t, err)
	// The first output reads two samples, then outputs alternate
	// between three and two.
	assert.Equal(t, 49, consumed)
}
