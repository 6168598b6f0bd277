// Package testutil provides reusable test helper functions for resampler tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-5
	DBTolerance      = 0.01
)

// Float matches the sample types under test.
type Float interface {
	float32 | float64
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf[F Float](t *testing.T, s []F) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange[F Float](t *testing.T, s []F, minVal, maxVal float64) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if f < minVal || f > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, f, minVal, maxVal)
		}
	}
	return true
}

// AssertAllNear verifies that every element is within tolerance of want.
func AssertAllNear[F Float](t *testing.T, s []F, want, tolerance float64) bool {
	t.Helper()
	for i, v := range s {
		if !assert.InDelta(t, want, float64(v), tolerance, "s[%d]", i) {
			return false
		}
	}
	return true
}

// AssertSlicesNear verifies element-wise equality within tolerance.
func AssertSlicesNear[F Float](t *testing.T, expected, actual []F, tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		if !assert.InDelta(t, float64(expected[i]), float64(actual[i]), tolerance,
			"mismatch at index %d", i) {
			return false
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain[F Float](t *testing.T, coeffs []F, expectedGain, tolerance float64) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += float64(c)
	}
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%f, actual=%f)",
		relError, tolerance, expected, actual)
}

// Sine generates n samples of a sine tone at freq Hz sampled at rate Hz.
func Sine[F Float](n int, freq, rate, amplitude float64) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(amplitude * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	return s
}

// Ramp generates the sequence start, start+1, ... of length n.
func Ramp[F Float](n int, start float64) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(start + float64(i))
	}
	return s
}

// Constant generates n copies of v.
func Constant[F Float](n int, v float64) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = F(v)
	}
	return s
}
