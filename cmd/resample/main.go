package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	resampling "github.com/tphakala/go-lagrange-resampler"
	"github.com/tphakala/go-lagrange-resampler/internal/analysis"
)

func main() {
	// Command-line flags
	var (
		inputRate  = flag.Float64("input-rate", defaultInputRate, "Input sample rate in Hz")
		outputRate = flag.Float64("output-rate", defaultOutputRate, "Output sample rate in Hz")
		channels   = flag.Int("channels", defaultChannels, "Number of audio channels")
		gain       = flag.Float64("gain", defaultGain, "Output gain")
		demo       = flag.Bool("demo", false, "Run a demonstration")
	)
	flag.Parse()

	if *demo {
		runDemo()
		return
	}

	// Create resampler configuration
	config := resampling.Config{
		InputRate:      *inputRate,
		OutputRate:     *outputRate,
		Channels:       *channels,
		Gain:           *gain,
		EnableParallel: true,
	}

	// Create resampler
	resampler, err := resampling.New[float64](&config)
	if err != nil {
		log.Fatalf("Failed to create resampler: %v", err)
	}

	fmt.Printf("Resampler created:\n")
	fmt.Printf("  Algorithm: 5-point Lagrange\n")
	fmt.Printf("  Ratio: %.6f (%g Hz -> %g Hz)\n", resampler.GetRatio(), *inputRate, *outputRate)
	fmt.Printf("  Channels: %d\n", resampler.Channels())
	fmt.Printf("  Latency: %d samples\n", resampler.GetLatency())

	// Example: process a test signal
	fmt.Println("\nProcessing test signal...")
	testSignal := generateTestSignal(testSignalSamples, *inputRate)
	output, err := resampler.Process(testSignal)
	if err != nil {
		log.Fatalf("Processing failed: %v", err)
	}

	fmt.Printf("Input samples: %d\n", len(testSignal))
	fmt.Printf("Output samples: %d\n", len(output))
	fmt.Printf("Expected output: %d\n", int(float64(len(testSignal))*resampler.GetRatio()))

	if m, err := measureTestTone(output, *outputRate); err == nil {
		fmt.Printf("Tone: %v\n", m)
	}
}

func generateTestSignal(samples int, sampleRate float64) []float64 {
	signal := make([]float64, samples)

	// Generate a 1kHz sine wave
	frequency := testSignalFrequency
	omega := 2 * math.Pi * frequency / sampleRate

	for i := range signal {
		signal[i] = testSignalAmplitude * math.Sin(omega*float64(i))
	}

	return signal
}

// measureTestTone analyzes the test tone with the largest power-of-two FFT
// that fits the output.
func measureTestTone(output []float64, sampleRate float64) (analysis.ToneMetrics, error) {
	fftSize := maxFFTSize
	for fftSize > len(output) {
		fftSize /= 2
	}
	return analysis.MeasureTone(output, sampleRate, testSignalFrequency, fftSize)
}

func runDemo() {
	fmt.Println("=== Go Lagrange Resampler Demo ===")

	// Demo 1: Tone quality across common conversions
	fmt.Println("1. Tone Quality")
	fmt.Println("---------------")

	testRatios := []struct {
		from, to float64
		name     string
	}{
		{sampleRateCD, sampleRateDAT, "CD to DAT"},
		{sampleRateDAT, sampleRateCD, "DAT to CD"},
		{sampleRateCD, sampleRate2xCD, "CD to 2x"},
		{sampleRateHiRes, sampleRateCD, "Hi-res to CD"},
	}

	for _, ratio := range testRatios {
		input := generateTestSignal(int(ratio.from), ratio.from)
		output, err := resampling.ResampleMono(input, ratio.from, ratio.to)
		if err != nil {
			fmt.Printf("  %s: Error - %v\n", ratio.name, err)
			continue
		}

		m, err := measureTestTone(output[demoSkip:], ratio.to)
		if err != nil {
			fmt.Printf("  %s: Error - %v\n", ratio.name, err)
			continue
		}
		fmt.Printf("  %s (ratio %.4f): %d -> %d samples, %v\n",
			ratio.name, ratio.to/ratio.from, len(input), len(output), m)
	}

	// Demo 2: Multi-channel processing
	fmt.Println("\n2. Multi-channel Processing")
	fmt.Println("---------------------------")

	channelCounts := []int{monoChannels, stereoChannels, surround5_1, surround7_1}

	for _, ch := range channelCounts {
		config := resampling.Config{
			InputRate:      sampleRateDAT,
			OutputRate:     sampleRateCD,
			Channels:       ch,
			EnableParallel: true,
		}

		resampler, err := resampling.New[float32](&config)
		if err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}

		input := make([][]float32, ch)
		for c := range input {
			input[c] = make([]float32, int(sampleRateDAT))
		}
		output, err := resampler.ProcessMulti(input)
		if err != nil {
			fmt.Printf("  %d channels: Error - %v\n", ch, err)
			continue
		}
		fmt.Printf("  %d channels: %d -> %d samples per channel\n", ch, len(input[0]), len(output[0]))
	}

	fmt.Println("\n=== Demo Complete ===")
}
