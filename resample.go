package resampler

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-lagrange-resampler/internal/engine"
	"github.com/tphakala/go-lagrange-resampler/internal/ring"
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
	"github.com/tphakala/simd/cpu"
)

// Common errors returned by the resampler.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid resampler configuration")

	// ErrInvalidRatio indicates an interpolator ratio that is NaN or outside
	// [1/256, 256].
	ErrInvalidRatio = errors.New("invalid resampling ratio")

	// ErrInvalidWindow indicates input window bounds outside the backing
	// samples.
	ErrInvalidWindow = window.ErrInvalidWindow

	// ErrChannelMismatch indicates multi-channel input whose channel count
	// differs from the configuration.
	ErrChannelMismatch = errors.New("channel count mismatch")
)

// Config holds streaming resampler configuration.
type Config struct {
	// InputRate is the sample rate of input audio in Hz.
	InputRate float64

	// OutputRate is the desired output sample rate in Hz.
	OutputRate float64

	// Channels is the number of audio channels to process.
	Channels int

	// Gain scales every output sample. The zero value leaves the level
	// unchanged, like Gain 1, so an unset Gain never silences a stream.
	// There is no muting gain; a muted stream should discard the output.
	Gain float64

	// MaxInputSize hints at the largest chunk passed to Process.
	// Set to 0 to use the default pending buffer size.
	MaxInputSize int

	// EnableParallel enables parallel channel processing in ProcessMulti.
	// Has no effect on mono audio.
	EnableParallel bool
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validateRates(c.InputRate, c.OutputRate); err != nil {
		return err
	}

	if c.Channels < 1 {
		return fmt.Errorf("%w: channels must be at least 1", ErrInvalidConfig)
	}

	if c.Channels > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	if math.IsNaN(c.Gain) || math.IsInf(c.Gain, 0) {
		return fmt.Errorf("%w: gain must be finite", ErrInvalidConfig)
	}

	if c.MaxInputSize < 0 {
		return fmt.Errorf("%w: max input size must not be negative", ErrInvalidConfig)
	}

	return nil
}

func validateRates(inputRate, outputRate float64) error {
	if !(inputRate > 0) || !(outputRate > 0) || math.IsInf(inputRate, 0) || math.IsInf(outputRate, 0) {
		return fmt.Errorf("%w: sample rates must be positive", ErrInvalidConfig)
	}

	ratio := outputRate / inputRate
	if ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: resampling ratio out of range (%v to %v)", ErrInvalidConfig, minRatioFactor, maxRatioFactor)
	}

	return nil
}

// Resampler converts a continuous multi-channel stream between two sample
// rates using one Lagrange interpolator per channel.
//
// Input that the interpolator cannot use yet is kept in a per-channel ring
// buffer and read in place on the next call, so arbitrary chunk sizes give
// the same output as a single large call.
//
// Calls to Process, ProcessMulti, Flush, Reset and SetRates on the same
// instance must be serialized. ProcessMulti with EnableParallel runs the
// channels concurrently.
type Resampler[F Float] struct {
	config   Config
	step     float64 // input rate / output rate
	gain     F
	channels []*channelResampler[F]
}

// channelResampler holds per-channel state.
type channelResampler[F Float] struct {
	interp  *engine.Interpolator[F]
	pending *ring.RingBuffer[F]
	ops     *simdops.Ops[F]
}

// New creates a streaming resampler with the specified configuration.
func New[F Float](config *Config) (*Resampler[F], error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	gain := config.Gain
	if gain == 0 {
		gain = unityGain
	}

	bufferSize := defaultBufferSize
	if config.MaxInputSize > 0 {
		bufferSize = config.MaxInputSize * bufferSizeMultiplier
	}

	r := &Resampler[F]{
		config:   *config,
		step:     config.InputRate / config.OutputRate,
		gain:     F(gain),
		channels: make([]*channelResampler[F], config.Channels),
	}

	for i := range r.channels {
		r.channels[i] = &channelResampler[F]{
			interp:  engine.NewInterpolator[F](),
			pending: ring.NewRingBuffer[F](bufferSize),
			ops:     simdops.For[F](),
		}
	}

	return r, nil
}

// Process resamples a mono audio channel.
// With more than one channel configured it feeds the first channel only.
func (r *Resampler[F]) Process(input []F) ([]F, error) {
	return r.channels[0].process(r.step, input, r.gain), nil
}

// ProcessMulti processes multiple audio channels.
// When EnableParallel is true in config, channels are processed concurrently.
func (r *Resampler[F]) ProcessMulti(input [][]F) ([][]F, error) {
	if len(input) != len(r.channels) {
		return nil, fmt.Errorf("%w: expected %d channels, got %d", ErrChannelMismatch, len(r.channels), len(input))
	}

	output := make([][]F, len(r.channels))

	if r.config.EnableParallel && len(r.channels) > 1 {
		var wg sync.WaitGroup
		for ch, c := range r.channels {
			wg.Add(1)
			go func(channel int, c *channelResampler[F]) {
				defer wg.Done()
				output[channel] = c.process(r.step, input[channel], r.gain)
			}(ch, c)
		}
		wg.Wait()
		return output, nil
	}

	for ch, c := range r.channels {
		output[ch] = c.process(r.step, input[ch], r.gain)
	}
	return output, nil
}

// Flush returns the samples still held back by the interpolation latency
// for the first channel and resets it for a new stream.
func (r *Resampler[F]) Flush() ([]F, error) {
	return r.channels[0].flush(r.step, r.gain, r.GetLatency()), nil
}

// FlushMulti is Flush for every channel.
func (r *Resampler[F]) FlushMulti() ([][]F, error) {
	output := make([][]F, len(r.channels))
	for ch, c := range r.channels {
		output[ch] = c.flush(r.step, r.gain, r.GetLatency())
	}
	return output, nil
}

// Reset clears all internal state and buffers.
func (r *Resampler[F]) Reset() {
	for _, c := range r.channels {
		c.reset()
	}
}

// SetRates changes the conversion rates without resetting the stream;
// the phase continues from where the previous call left it.
func (r *Resampler[F]) SetRates(inputRate, outputRate float64) error {
	if err := validateRates(inputRate, outputRate); err != nil {
		return err
	}
	r.config.InputRate = inputRate
	r.config.OutputRate = outputRate
	r.step = inputRate / outputRate
	return nil
}

// GetRatio returns the resampling ratio (output_rate / input_rate).
func (r *Resampler[F]) GetRatio() float64 {
	return r.config.OutputRate / r.config.InputRate
}

// GetLatency returns the resampler latency in input samples.
// Equal rates are copied through without delay.
func (r *Resampler[F]) GetLatency() int {
	if r.step == 1 {
		return 0
	}
	return engine.LatencySamples
}

// Info describes a resampler instance.
type Info struct {
	// Algorithm describes the interpolation in use.
	Algorithm string

	// Taps is the number of input samples each output is computed from.
	Taps int

	// Latency is the processing latency in input samples.
	Latency int

	// Ratio is output rate / input rate.
	Ratio float64

	// Channels is the number of configured channels.
	Channels int

	// Parallel reports whether ProcessMulti runs channels concurrently.
	Parallel bool

	// SIMDType describes the SIMD instruction set in use.
	SIMDType string
}

// GetInfo returns information about the resampler.
func (r *Resampler[F]) GetInfo() Info {
	algorithm := algorithmLagrange
	if r.step == 1 {
		algorithm = algorithmPassThrough
	}
	return Info{
		Algorithm: algorithm,
		Taps:      engine.HistoryLength,
		Latency:   r.GetLatency(),
		Ratio:     r.GetRatio(),
		Channels:  len(r.channels),
		Parallel:  r.config.EnableParallel && len(r.channels) > 1,
		SIMDType:  cpu.Info(),
	}
}

// Channels returns the number of configured channels.
func (r *Resampler[F]) Channels() int {
	return len(r.channels)
}

// process appends input to the pending buffer and produces every output
// the buffered samples fully determine, reading them in place.
func (c *channelResampler[F]) process(step float64, input []F, gain F) []F {
	c.pending.Write(input)

	output := make([]F, c.interp.MaxOutputs(step, c.pending.Available()))
	in := c.pending.Window()
	c.interp.Process(step, &in, output)
	c.pending.Discard(in.Consumed())

	if gain != unityGain {
		c.ops.Scale(output, output, gain)
	}

	return output
}

// flush pushes enough silence to drain the kernel latency.
func (c *channelResampler[F]) flush(step float64, gain F, latency int) []F {
	output := c.process(step, make([]F, latency), gain)
	c.reset()
	return output
}

func (c *channelResampler[F]) reset() {
	c.interp.Reset()
	c.pending.Clear()
}
