package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	resampler "github.com/tphakala/go-lagrange-resampler"
	"github.com/tphakala/go-lagrange-resampler/internal/analysis"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file         *os.File
	decoder      *wav.Decoder
	rate         int
	channels     int
	bitDepth     int
	totalSamples int64
	format       *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	// Open input file
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	// Create WAV decoder
	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	// Read format info
	format := decoder.Format()
	inputRate := format.SampleRate
	channels := format.NumChannels
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", inputRate, channels, bitDepth)
	}

	// Get total duration for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}
	totalSamples := int64(duration.Seconds() * float64(inputRate))

	return &wavInputInfo{
		file:         inputFile,
		decoder:      decoder,
		rate:         inputRate,
		channels:     channels,
		bitDepth:     bitDepth,
		totalSamples: totalSamples,
		format:       format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// createResampler creates a streaming resampler covering every channel.
func createResampler[F Float](numChannels, inputRate, targetRate int, gain float64, parallel bool) (*resampler.Resampler[F], error) {
	r, err := resampler.New[F](&resampler.Config{
		InputRate:      float64(inputRate),
		OutputRate:     float64(targetRate),
		Channels:       numChannels,
		Gain:           gain,
		MaxInputSize:   bufferSize,
		EnableParallel: parallel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}
	return r, nil
}

// wavOutputWriter wraps the output file and its WAV encoder.
type wavOutputWriter struct {
	file    *os.File
	encoder *wav.Encoder
	format  *audio.Format
	depth   int
}

// createWAVOutput creates output file and writer.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	// Create output file
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:    outputFile,
		encoder: wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, wavFormatPCM),
		format:  &audio.Format{SampleRate: sampleRate, NumChannels: channels},
		depth:   bitDepth,
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	if len(samples) == 0 {
		return nil
	}
	return w.encoder.Write(&audio.IntBuffer{
		Data:           samples,
		Format:         w.format,
		SourceBitDepth: w.depth,
	})
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// resampleBuffers holds all preallocated buffers for resampling.
type resampleBuffers[F Float] struct {
	intBuffer    *audio.IntBuffer
	channelBufs  [][]F
	outputIntBuf []int
	invMaxVal    float64
	maxVal       float64
}

// newResampleBuffers creates and preallocates all processing buffers.
func newResampleBuffers[F Float](
	channels, bitDepth int,
	inputRate, targetRate int,
	format *audio.Format,
) *resampleBuffers[F] {
	// Preallocate buffers for reuse (reduces GC pressure)
	intBuffer := &audio.IntBuffer{
		Data:   make([]int, bufferSize*channels),
		Format: format,
	}

	// Preallocate per-channel input buffers
	channelBufs := make([][]F, channels)
	for ch := range channels {
		channelBufs[ch] = make([]F, bufferSize)
	}

	// Preallocate output buffer with estimated size (ratio * input + margin)
	estimatedOutputSize := int(float64(bufferSize)*float64(targetRate)/float64(inputRate)) + outputBufferMargin
	outputIntBuf := make([]int, estimatedOutputSize*channels)

	// Precompute max value for bit depth
	maxVal := getMaxValue(bitDepth)

	return &resampleBuffers[F]{
		intBuffer:    intBuffer,
		channelBufs:  channelBufs,
		outputIntBuf: outputIntBuf,
		invMaxVal:    1.0 / maxVal,
		maxVal:       maxVal,
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalSamples int64
	lastProgress int
	verbose      bool
}

// newProgressTracker creates a new progress tracker.
func newProgressTracker(totalSamples int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalSamples: totalSamples,
		verbose:      verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentSamples int64) {
	if !p.verbose || p.totalSamples == 0 {
		return
	}

	progress := int(float64(currentSamples) / float64(p.totalSamples) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// trimChannels returns per-channel views of the first n samples.
func trimChannels[F Float](channelBufs [][]F, n int) [][]F {
	trimmed := make([][]F, len(channelBufs))
	for ch, buf := range channelBufs {
		trimmed[ch] = buf[:n]
	}
	return trimmed
}

// writeChannels interleaves resampled channels, writes them and updates
// the output sample count. Channels are padded with silence to the
// longest one.
func writeChannels[F Float](output *wavOutputWriter, buffers *resampleBuffers[F], channels [][]F, stats *resampleStats) error {
	frames := padChannels(channels)
	if frames == 0 {
		return nil
	}

	if need := frames * len(channels); len(buffers.outputIntBuf) < need {
		buffers.outputIntBuf = make([]int, need)
	}

	outputLen := interleaveInto(channels, buffers.outputIntBuf, buffers.maxVal)
	stats.outputSamples += int64(frames)

	if err := output.WriteSamples(buffers.outputIntBuf[:outputLen]); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	return nil
}

// padChannels extends shorter channels with silence in place and returns
// the common length.
func padChannels[F Float](channels [][]F) int {
	maxLen := 0
	for _, ch := range channels {
		maxLen = max(maxLen, len(ch))
	}
	for i, ch := range channels {
		if len(ch) < maxLen {
			padded := make([]F, maxLen)
			copy(padded, ch)
			channels[i] = padded
		}
	}
	return maxLen
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
// This avoids allocations in the hot loop.
func deinterleaveInto[F Float](data []int, channelBufs [][]F, numChannels, samplesPerChannel int, invMaxVal float64) {
	// Fast path for mono
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range samplesPerChannel {
			buf[i] = F(float64(data[i]) * invMaxVal)
		}
		return
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range samplesPerChannel {
			idx := i * stereoChannels
			buf0[i] = F(float64(data[idx]) * invMaxVal)
			buf1[i] = F(float64(data[idx+1]) * invMaxVal)
		}
		return
	}

	// General case
	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = F(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts per-channel float slices into a preallocated int buffer,
// clamping to full scale. Returns the number of elements written.
func interleaveInto[F Float](channels [][]F, dst []int, maxVal float64) int {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return 0
	}

	numChannels := len(channels)
	samplesPerChannel := len(channels[0])
	totalLen := samplesPerChannel * numChannels

	if len(dst) < totalLen {
		return 0 // Caller should handle this
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		ch0, ch1 := channels[0], channels[1]
		for i := range samplesPerChannel {
			idx := i * stereoChannels
			dst[idx] = toPCM(float64(ch0[i]), maxVal)
			dst[idx+1] = toPCM(float64(ch1[i]), maxVal)
		}
		return totalLen
	}

	// General case
	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			dst[base+ch] = toPCM(float64(channels[ch][i]), maxVal)
		}
	}

	return totalLen
}

// toPCM clamps a sample to [-1.0, 1.0] and scales it to integer PCM.
func toPCM(sample, maxVal float64) int {
	return int(max(-1.0, min(1.0, sample)) * maxVal)
}

// toneCapture keeps the first samples of a channel for spectral analysis.
// A nil capture ignores all input.
type toneCapture[F Float] struct {
	samples []F
	limit   int
}

func newToneCapture[F Float](limit int) *toneCapture[F] {
	return &toneCapture[F]{samples: make([]F, 0, limit), limit: limit}
}

func (c *toneCapture[F]) add(samples []F) {
	if c == nil {
		return
	}
	room := c.limit - len(c.samples)
	c.samples = append(c.samples, samples[:min(room, len(samples))]...)
}

// measure reports the tone at freq in the captured samples. Files shorter
// than the capture limit are analyzed with the largest power-of-two FFT
// that fits.
func (c *toneCapture[F]) measure(sampleRate, freq float64) (analysis.ToneMetrics, error) {
	fftSize := c.limit
	for fftSize > len(c.samples) {
		fftSize /= 2
	}
	return analysis.MeasureTone(c.samples, sampleRate, freq, fftSize)
}
