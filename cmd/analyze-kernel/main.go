// Command analyze-kernel prints the Lagrange interpolation weights, their DC
// gain and the magnitude response of the fractional-delay filter they form.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/tphakala/go-lagrange-resampler/internal/engine"
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
)

const (
	defaultOffsets = 8 // fractional offsets between two samples

	// Frequencies, as a fraction of the sample rate, for the response table
	minNormFreq = 0.05
	maxNormFreq = 0.45
	freqStep    = 0.05

	// Sample rates used to show the passband in Hz
	sampleRateCD = 44100.0
)

func main() {
	offsets := flag.Int("offsets", defaultOffsets, "Number of fractional offsets between 0 and 1")
	flag.Parse()

	if *offsets < 1 {
		fmt.Println("offsets must be at least 1")
		return
	}

	sum := simdops.Float64Ops().Sum

	fmt.Println("=== Lagrange Kernel Weights ===")
	fmt.Printf("Taps: %d, latency: %d samples\n\n", engine.HistoryLength, engine.LatencySamples)

	for i := 0; i <= *offsets; i++ {
		offset := float64(i) / float64(*offsets)
		w := engine.Weights(offset)

		dc := sum(w[:])
		fmt.Printf("  offset %.3f: [% .6f % .6f % .6f % .6f % .6f]  DC gain %.12f\n",
			offset, w[0], w[1], w[2], w[3], w[4], dc)
	}

	fmt.Println("\n=== Magnitude Response (dB) ===")
	fmt.Printf("%-10s %-10s", "f/fs", "Hz@44.1k")
	for i := 0; i <= *offsets; i++ {
		fmt.Printf(" %8.3f", float64(i)/float64(*offsets))
	}
	fmt.Println()

	for f := minNormFreq; f <= maxNormFreq+1e-9; f += freqStep {
		fmt.Printf("%-10.2f %-10.0f", f, f*sampleRateCD)
		for i := 0; i <= *offsets; i++ {
			fmt.Printf(" %8.3f", magnitudeDB(float64(i)/float64(*offsets), f))
		}
		fmt.Println()
	}
}

// magnitudeDB returns the gain of the interpolator at offset for a tone at
// normalized frequency f (cycles per sample).
func magnitudeDB(offset, f float64) float64 {
	w := engine.Weights(offset)
	var h complex128
	for k, c := range w {
		// w[k] weighs the sample k pushes behind the newest one.
		h += complex(c, 0) * cmplx.Exp(complex(0, -2*math.Pi*f*float64(k)))
	}
	return 20 * math.Log10(cmplx.Abs(h))
}
