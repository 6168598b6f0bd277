// Package engine implements the Lagrange interpolation kernel and the
// streaming resampling driver built on it.
package engine

import (
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
)

// Interpolator resamples a stream with 5-point Lagrange interpolation.
// The history and fractional position persist across calls, so input may
// be fed in chunks of any size with continuous phase.
//
// An Interpolator is not safe for concurrent use; one instance serves one
// stream (typically one channel).
//
// ratio is input rate / output rate throughout: below one produces more
// outputs than inputs, one is a straight copy, above one consumes several
// inputs per output. Callers keep ratio within [1/256, 256].
type Interpolator[F simdops.Float] struct {
	history      History[F]
	subSamplePos float64
	ops          *simdops.Ops[F]
}

// NewInterpolator creates an interpolator in its reset state.
func NewInterpolator[F simdops.Float]() *Interpolator[F] {
	i := &Interpolator[F]{ops: simdops.For[F]()}
	i.Reset()
	return i
}

// Reset clears the history and re-primes the phase to stream start.
func (i *Interpolator[F]) Reset() {
	i.history.Reset()
	i.subSamplePos = primedPosition
}

// Process writes len(out) resampled samples read from in.
//
// For ratio == 1 it returns len(out). Otherwise it returns how far the
// input cursor moved: modulo the window period when the window wraps, or
// the number of samples read when it does not.
func (i *Interpolator[F]) Process(ratio float64, in *window.Window[F], out []F) int {
	return i.interpolate(ratio, in, out, 1, false)
}

// ProcessAdding is Process but accumulates: out[n] += gain * value.
func (i *Interpolator[F]) ProcessAdding(ratio float64, in *window.Window[F], out []F, gain F) int {
	return i.interpolate(ratio, in, out, gain, true)
}

// MaxOutputs returns how many outputs the next call can produce at ratio
// while reading at most available input samples. State is not modified.
func (i *Interpolator[F]) MaxOutputs(ratio float64, available int) int {
	if ratio == unityRatio {
		return available
	}

	pos := i.subSamplePos
	consumed, n := 0, 0

	if ratio < unityRatio {
		for {
			if pos >= inputStep {
				if consumed == available {
					return n
				}
				consumed++
				pos -= inputStep
			}
			n++
			pos += ratio
		}
	}

	for {
		for pos < ratio {
			if consumed == available {
				return n
			}
			consumed++
			pos += inputStep
		}
		pos -= ratio
		n++
	}
}

// History returns a copy of the current history, newest first.
func (i *Interpolator[F]) History() History[F] {
	return i.history
}

// SubSamplePos returns the fractional phase carried to the next call.
func (i *Interpolator[F]) SubSamplePos() float64 {
	return i.subSamplePos
}

func (i *Interpolator[F]) interpolate(ratio float64, in *window.Window[F], out []F, gain F, adding bool) int {
	if ratio == unityRatio {
		return i.passThrough(in, out, gain, adding)
	}

	advance0, consumed0 := in.Advance(), in.Consumed()
	pos := i.subSamplePos

	if ratio < unityRatio {
		for n := range out {
			if pos >= inputStep {
				i.consume(in)
				pos -= inputStep
			}
			i.emit(out, n, valueAtOffset(i.ops, &i.history, F(pos)), gain, adding)
			pos += ratio
		}
	} else {
		for n := range out {
			for pos < ratio {
				i.consume(in)
				pos += inputStep
			}
			pos -= ratio
			i.emit(out, n, valueAtOffset(i.ops, &i.history, F(max(0, inputStep-pos))), gain, adding)
		}
	}

	i.subSamplePos = pos

	if period := in.Period(); period > 0 {
		moved := (in.Advance() - advance0) % period
		if moved < 0 {
			moved += period
		}
		return moved
	}
	return in.Consumed() - consumed0
}

// passThrough copies input straight to output. Past the window's genuine
// samples the output is silence unless the window wraps.
func (i *Interpolator[F]) passThrough(in *window.Window[F], out []F, gain F, adding bool) int {
	snapshot := *in

	done := 0
	for done < len(out) {
		span := in.Contiguous(len(out) - done)
		if len(span) == 0 {
			break
		}
		dst := out[done : done+len(span)]
		if adding {
			i.ops.AddScaled(dst, gain, span)
		} else {
			copy(dst, span)
		}
		in.Skip(len(span))
		done += len(span)
	}
	if !adding {
		clear(out[done:])
	}

	i.history.PushSamples(snapshot, len(out))
	return len(out)
}

// consume pushes the next input sample, or silence once the window is
// exhausted.
func (i *Interpolator[F]) consume(in *window.Window[F]) {
	v, _ := in.Next()
	i.history.Push(v)
}

func (i *Interpolator[F]) emit(out []F, n int, v, gain F, adding bool) {
	if adding {
		out[n] += gain * v
		return
	}
	out[n] = v
}
