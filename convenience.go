package resampler

import (
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
)

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes88 is the high-resolution 2x CD sample rate.
	RateHiRes88 = 88200

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000

	// RateHiRes176 is the very high resolution 4x CD sample rate.
	RateHiRes176 = 176400

	// RateHiRes192 is the very high resolution 4x DAT sample rate.
	RateHiRes192 = 192000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000

	// RateSpeech is the speech recognition common sample rate.
	RateSpeech = 22050
)

// NewCDtoDAT creates a resampler for CD (44.1kHz) to DAT (48kHz) conversion.
func NewCDtoDAT[F Float]() (*Resampler[F], error) {
	return NewSimple[F](RateCD, RateDAT)
}

// NewDATtoCD creates a resampler for DAT (48kHz) to CD (44.1kHz) conversion.
func NewDATtoCD[F Float]() (*Resampler[F], error) {
	return NewSimple[F](RateDAT, RateCD)
}

// NewSimple creates a mono resampler.
func NewSimple[F Float](inputRate, outputRate float64) (*Resampler[F], error) {
	return NewMultiChannel[F](inputRate, outputRate, 1)
}

// NewStereo creates a stereo resampler that processes both channels in parallel.
func NewStereo[F Float](inputRate, outputRate float64) (*Resampler[F], error) {
	return New[F](&Config{
		InputRate:      inputRate,
		OutputRate:     outputRate,
		Channels:       stereoChannels,
		EnableParallel: true,
	})
}

// NewMultiChannel creates a resampler for the given number of channels.
func NewMultiChannel[F Float](inputRate, outputRate float64, channels int) (*Resampler[F], error) {
	return New[F](&Config{
		InputRate:  inputRate,
		OutputRate: outputRate,
		Channels:   channels,
	})
}

// ResampleMono is a convenience function for one-shot mono resampling.
// It creates a resampler, processes the input, flushes, and returns the result.
func ResampleMono[F Float](input []F, inputRate, outputRate float64) ([]F, error) {
	r, err := NewSimple[F](inputRate, outputRate)
	if err != nil {
		return nil, err
	}

	output, err := r.Process(input)
	if err != nil {
		return nil, err
	}

	flushed, err := r.Flush()
	if err != nil {
		return nil, err
	}

	return append(output, flushed...), nil
}

// ResampleStereo is a convenience function for one-shot stereo resampling.
func ResampleStereo[F Float](left, right []F, inputRate, outputRate float64) (leftOut, rightOut []F, err error) {
	r, err := NewStereo[F](inputRate, outputRate)
	if err != nil {
		return nil, nil, err
	}

	output, err := r.ProcessMulti([][]F{left, right})
	if err != nil {
		return nil, nil, err
	}

	flushed, err := r.FlushMulti()
	if err != nil {
		return nil, nil, err
	}

	return append(output[0], flushed[0]...), append(output[1], flushed[1]...), nil
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
// The shorter channel determines the output length.
func InterleaveToStereo[F Float](left, right []F) []F {
	minLen := min(len(left), len(right))
	result := make([]F, minLen*stereoChannels)
	simdops.For[F]().Interleave2(result, left[:minLen], right[:minLen])
	return result
}

// DeinterleaveFromStereo converts interleaved stereo to two mono channels.
// Input format: [L0, R0, L1, R1, L2, R2, ...]
func DeinterleaveFromStereo[F Float](interleaved []F) (left, right []F) {
	numSamples := len(interleaved) / stereoChannels
	left = make([]F, numSamples)
	right = make([]F, numSamples)
	for i := range numSamples {
		left[i] = interleaved[i*stereoChannels]
		right[i] = interleaved[i*stereoChannels+1]
	}
	return left, right
}
