// Command resample-wav resamples WAV audio files to a target sample rate
// using 5-point Lagrange interpolation.
//
// Usage:
//
//	resample-wav -rate 48 input.wav output.wav
//	resample-wav -rate 16 -gain 0.5 input.wav output.wav
//	resample-wav -rate 48 -fast input.wav output.wav          # float32 precision
//	resample-wav -rate 48 -parallel=false input.wav out.wav   # Disable parallel processing
//	resample-wav -rate 48 -analyze 1000 tone.wav out.wav      # Report THD of a 1 kHz test tone
//
// Parallel processing is enabled by default for stereo/multichannel files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	resampler "github.com/tphakala/go-lagrange-resampler"
	"github.com/tphakala/go-lagrange-resampler/internal/analysis"
)

const (
	// Buffer size for processing (number of samples per chunk)
	// Larger buffers reduce I/O overhead and improve cache utilization
	bufferSize = 65536

	// Output buffer margin to handle ratio variations
	outputBufferMargin = 1024

	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	kHzToHz          = 1000
	maxInt16         = 32767.0
	maxInt24         = 8388607.0
	maxInt32         = 2147483647.0
	progressInterval = 10 // Print progress every N%

	// CLI defaults
	defaultRateKHz  = 48.0
	defaultGain     = 1.0
	minRequiredArgs = 2
	percentScale    = 100

	// wavFormatPCM is the WAVE format tag for integer PCM.
	wavFormatPCM = 1

	// analysisFFTSize is the FFT length used by -analyze.
	analysisFFTSize = 16384
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Parse command line flags
	rateKHz := flag.Float64("rate", defaultRateKHz, "Target sample rate in kHz (e.g., 16, 32, 44.1, 48, 96)")
	gain := flag.Float64("gain", defaultGain, "Output gain applied while resampling")
	fast := flag.Bool("fast", false, "Use float32 precision (sufficient for 16-bit audio)")
	parallel := flag.Bool("parallel", true, "Enable parallel channel processing (faster for stereo/multichannel)")
	analyzeHz := flag.Float64("analyze", 0, "Measure THD of a test tone at this frequency in Hz (0 disables)")
	verbose := flag.Bool("v", false, "Verbose output")
	cpuprofile := flag.String("cpuprofile", "", "Write CPU profile to file (for PGO)")
	flag.Parse()

	// Validate arguments before setting up profiling
	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rate 48 input.wav output.wav      # Resample to 48kHz\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 16 speech.wav speech_16k.wav # Downsample for speech\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -rate 96 music.wav music_hires.wav # Upsample to hi-res\n", os.Args[0])
		return errors.New("insufficient arguments")
	}

	// Start CPU profiling if requested (for PGO)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	opts := options{
		inputPath:  args[0],
		outputPath: args[1],
		targetRate: int(*rateKHz * kHzToHz),
		gain:       *gain,
		parallel:   *parallel,
		analyzeHz:  *analyzeHz,
		verbose:    *verbose,
	}

	if opts.verbose {
		log.Printf("Input: %s", opts.inputPath)
		log.Printf("Output: %s", opts.outputPath)
		log.Printf("Target rate: %d Hz", opts.targetRate)
		log.Printf("Gain: %.3f", opts.gain)
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64 (high precision)")
		}
		if opts.parallel {
			log.Printf("Parallel: enabled (concurrent channel processing)")
		} else {
			log.Printf("Parallel: disabled (sequential processing)")
		}
	}

	// Process the file
	start := time.Now()
	var stats *resampleStats
	var err error
	if *fast {
		stats, err = resampleWAV[float32](opts)
	} else {
		stats, err = resampleWAV[float64](opts)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	fmt.Printf("Resampled %s -> %s\n", filepath.Base(opts.inputPath), filepath.Base(opts.outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth)
	fmt.Printf("  %d samples -> %d samples\n", stats.inputSamples, stats.outputSamples)
	fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
		elapsed.Seconds(),
		float64(stats.inputSamples)/float64(stats.inputRate)/elapsed.Seconds())
	if stats.tone != nil {
		fmt.Printf("  Tone: %v\n", *stats.tone)
	}

	return nil
}

// options collects the command line settings for one conversion.
type options struct {
	inputPath  string
	outputPath string
	targetRate int
	gain       float64
	parallel   bool
	analyzeHz  float64
	verbose    bool
}

type resampleStats struct {
	inputRate     int
	outputRate    int
	channels      int
	bitDepth      int
	inputSamples  int64
	outputSamples int64
	tone          *analysis.ToneMetrics
}

// Float constraint for generic resampling.
type Float = resampler.Float

func resampleWAV[F Float](opts options) (stats *resampleStats, err error) {
	// 1. Open and validate input
	input, err := openWAVInput(opts.inputPath, opts.verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	// Check if resampling is needed
	if input.rate == opts.targetRate {
		return nil, fmt.Errorf("input already at target rate %d Hz", opts.targetRate)
	}

	// 2. Create resampler
	r, err := createResampler[F](input.channels, input.rate, opts.targetRate, opts.gain, opts.parallel)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		info := r.GetInfo()
		log.Printf("Algorithm: %s (%d taps, latency %d samples)", info.Algorithm, info.Taps, info.Latency)
		log.Printf("SIMD: %s", info.SIMDType)
	}

	// 3. Create output writer
	output, err := createWAVOutput(opts.outputPath, opts.targetRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (important for WAV header updates)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	// 4. Initialize processing buffers
	buffers := newResampleBuffers[F](
		input.channels, input.bitDepth,
		input.rate, opts.targetRate,
		input.format,
	)

	// 5. Initialize tracking
	stats = &resampleStats{
		inputRate:  input.rate,
		outputRate: opts.targetRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalSamples, opts.verbose)
	var capture *toneCapture[F]
	if opts.analyzeHz > 0 {
		capture = newToneCapture[F](analysisFFTSize)
	}

	// 6. Main processing loop
	for {
		// Read chunk
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		// PCMBuffer counts interleaved values, not frames
		frames := n / input.channels
		buffers.intBuffer.Data = buffers.intBuffer.Data[:frames*input.channels]
		stats.inputSamples += int64(frames)

		deinterleaveInto(buffers.intBuffer.Data, buffers.channelBufs, input.channels, frames, buffers.invMaxVal)

		resampled, err := r.ProcessMulti(trimChannels(buffers.channelBufs, frames))
		if err != nil {
			return nil, fmt.Errorf("resampling failed: %w", err)
		}
		capture.add(resampled[0])

		if err := writeChannels(output, buffers, resampled, stats); err != nil {
			return nil, err
		}

		// Progress reporting
		progress.reportIfNeeded(stats.inputSamples)

		// Reset buffer
		buffers.intBuffer.Data = buffers.intBuffer.Data[:cap(buffers.intBuffer.Data)]
	}

	// 7. Flush remaining samples
	flushed, err := r.FlushMulti()
	if err != nil {
		return nil, fmt.Errorf("failed to flush resampler: %w", err)
	}
	capture.add(flushed[0])
	if err := writeChannels(output, buffers, flushed, stats); err != nil {
		return nil, err
	}

	// 8. Optional tone analysis on the first channel
	if capture != nil {
		m, err := capture.measure(float64(opts.targetRate), opts.analyzeHz)
		if err != nil {
			return nil, fmt.Errorf("tone analysis failed: %w", err)
		}
		stats.tone = &m
	}

	return stats, nil
}
