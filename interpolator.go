package resampler

import (
	"fmt"
	"math"

	"github.com/tphakala/go-lagrange-resampler/internal/engine"
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
)

// Float is the type constraint for supported sample types.
type Float = simdops.Float

// Window is a read cursor over caller-owned samples: a start position, the
// number of genuine samples ahead of it, and an optional wrap period.
// Past the genuine samples a window with a period loops back by that many
// samples; one without yields silence.
type Window[F Float] = window.Window[F]

// NewWindow creates a window over data at start with length genuine samples.
// A non-zero period makes reads past the end continue period samples back,
// which must not reach before the start of data.
func NewWindow[F Float](data []F, start, length, period int) (Window[F], error) {
	return window.New(data, start, length, period)
}

// LinearWindow returns a window over all of data that yields silence once
// data runs out.
func LinearWindow[F Float](data []F) Window[F] {
	return window.Linear(data)
}

// CircularWindow returns a window that loops over all of data, beginning
// at start.
func CircularWindow[F Float](data []F, start int) (Window[F], error) {
	return window.Circular(data, start)
}

// Interpolator is a single-stream Lagrange sample-rate converter.
//
// Every call takes ratio = input rate / output rate. Below one each input
// sample feeds several outputs, one copies input straight through, above
// one several inputs feed each output. The ratio may change between calls
// and must lie within [1/256, 256].
//
// An Interpolator carries a 5-sample history and a fractional phase across
// calls and must not be used from several goroutines at once. The zero
// value is ready to use.
type Interpolator[F Float] struct {
	core *engine.Interpolator[F]
}

// NewInterpolator creates an interpolator primed for stream start.
func NewInterpolator[F Float]() *Interpolator[F] {
	return &Interpolator[F]{core: engine.NewInterpolator[F]()}
}

func (i *Interpolator[F]) state() *engine.Interpolator[F] {
	if i.core == nil {
		i.core = engine.NewInterpolator[F]()
	}
	return i.core
}

// Reset clears the history and re-primes the phase, so the next call
// behaves like the first call on a new stream.
func (i *Interpolator[F]) Reset() {
	i.state().Reset()
}

// Process overwrites every sample of out with resampled input read from in,
// advancing in's cursor.
//
// With ratio == 1 it returns len(out). Otherwise, for a wrapping window it
// returns how far the cursor moved modulo the window period, i.e. the new
// read position relative to the old one inside the loop; for a window
// without a period it returns the number of samples read.
func (i *Interpolator[F]) Process(ratio float64, in *Window[F], out []F) (int, error) {
	if err := validateCall(ratio, in); err != nil {
		return 0, err
	}
	return i.state().Process(ratio, in, out), nil
}

// ProcessAdding is like Process but mixes into out: out[n] += gain * value.
func (i *Interpolator[F]) ProcessAdding(ratio float64, in *Window[F], out []F, gain F) (int, error) {
	if err := validateCall(ratio, in); err != nil {
		return 0, err
	}
	return i.state().ProcessAdding(ratio, in, out, gain), nil
}

// MaxOutputs reports how many output samples the next call at ratio can
// produce while reading no more than available input samples.
func (i *Interpolator[F]) MaxOutputs(ratio float64, available int) (int, error) {
	if err := validateRatio(ratio); err != nil {
		return 0, err
	}
	if available < 0 {
		return 0, fmt.Errorf("%w: negative available count %d", ErrInvalidWindow, available)
	}
	return i.state().MaxOutputs(ratio, available), nil
}

func validateCall[F Float](ratio float64, in *Window[F]) error {
	if err := validateRatio(ratio); err != nil {
		return err
	}
	if in == nil {
		return fmt.Errorf("%w: nil window", ErrInvalidWindow)
	}
	return nil
}

// validateRatio bounds ratio to [1/256, 256]. Far outside that range the
// phase accumulator stops moving in float64 and a call would never finish.
func validateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio < minRatioFactor || ratio > maxRatioFactor {
		return fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidRatio, ratio, minRatioFactor, maxRatioFactor)
	}
	return nil
}
