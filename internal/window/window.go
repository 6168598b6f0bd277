// Package window implements a bounded, optionally circular read window over
// a caller-owned sample slice.
//
// A window starts at a cursor inside the backing slice and holds length
// genuine samples ahead of it. Once those run out the window either wraps
// back by its period, which lets a reader loop over a ring buffer without
// linearizing it, or it yields silence when the period is zero.
package window

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
)

// ErrInvalidWindow indicates window bounds that would read outside the
// backing slice.
var ErrInvalidWindow = errors.New("invalid input window")

// Window is a read cursor over data. The zero value is an empty window that
// yields silence.
//
// All reads stay inside [start, start+length) and, when period > 0,
// inside [start+length-period, start+length).
type Window[F simdops.Float] struct {
	data   []F
	start  int
	period int

	// pos is the cursor; pos+remaining stays equal to the window end.
	pos       int
	remaining int
	consumed  int
}

// New creates a window over data starting at start with length genuine
// samples and the given wrap period (0 disables wrapping).
func New[F simdops.Float](data []F, start, length, period int) (Window[F], error) {
	switch {
	case start < 0 || start > len(data):
		return Window[F]{}, fmt.Errorf("%w: start %d outside [0, %d]", ErrInvalidWindow, start, len(data))
	case length < 0:
		return Window[F]{}, fmt.Errorf("%w: negative length %d", ErrInvalidWindow, length)
	case start+length > len(data):
		return Window[F]{}, fmt.Errorf("%w: start %d + length %d exceeds %d samples",
			ErrInvalidWindow, start, length, len(data))
	case period < 0:
		return Window[F]{}, fmt.Errorf("%w: negative period %d", ErrInvalidWindow, period)
	case period > start+length:
		return Window[F]{}, fmt.Errorf("%w: period %d reaches before the start of the buffer",
			ErrInvalidWindow, period)
	}

	return Window[F]{
		data:      data,
		start:     start,
		period:    period,
		pos:       start,
		remaining: length,
	}, nil
}

// Linear returns a window over all of data with no wraparound.
func Linear[F simdops.Float](data []F) Window[F] {
	return Window[F]{data: data, remaining: len(data)}
}

// Circular returns a window that loops over all of data, starting at start.
func Circular[F simdops.Float](data []F, start int) (Window[F], error) {
	if len(data) > 0 && start == len(data) {
		start = 0
	}
	return New(data, start, len(data)-start, len(data))
}

// Next returns the next sample and advances the cursor. When the genuine
// samples are used up and the window has no period it returns (0, false)
// without moving.
func (w *Window[F]) Next() (F, bool) {
	if !w.wrap() {
		return 0, false
	}
	v := w.data[w.pos]
	w.pos++
	w.remaining--
	w.consumed++
	return v, true
}

// At returns logical sample j counted from the cursor without advancing.
// Past the genuine run it returns wrapped samples, or zero without a period.
func (w *Window[F]) At(j int) F {
	if j < w.remaining {
		return w.data[w.pos+j]
	}
	if w.period == 0 {
		return 0
	}
	end := w.pos + w.remaining
	return w.data[end-w.period+(j-w.remaining)%w.period]
}

// Skip advances the cursor by n logical samples.
func (w *Window[F]) Skip(n int) {
	if n <= w.remaining {
		w.pos += n
		w.remaining -= n
		w.consumed += n
		return
	}
	if w.period == 0 {
		w.pos += w.remaining
		w.consumed += w.remaining
		w.remaining = 0
		return
	}

	wraps := (n - w.remaining + w.period - 1) / w.period
	w.pos += n - wraps*w.period
	w.remaining += wraps*w.period - n
	w.consumed += n
}

// Contiguous returns up to n genuine samples starting at the cursor as a
// subslice of the backing data, wrapping the cursor first if the current
// run is used up. The cursor is not advanced past the returned samples.
func (w *Window[F]) Contiguous(n int) []F {
	if !w.wrap() {
		return nil
	}
	n = min(n, w.remaining)
	return w.data[w.pos : w.pos+n]
}

// wrap moves the cursor back by one period when the run is exhausted.
// It reports whether a sample is readable at the cursor.
func (w *Window[F]) wrap() bool {
	if w.remaining > 0 {
		return true
	}
	if w.period == 0 {
		return false
	}
	w.pos -= w.period
	w.remaining += w.period
	return true
}

// Remaining returns the number of genuine samples before the window end.
func (w *Window[F]) Remaining() int { return w.remaining }

// Period returns the wrap distance, 0 when the window does not wrap.
func (w *Window[F]) Period() int { return w.period }

// Exhausted reports whether further reads yield silence.
func (w *Window[F]) Exhausted() bool { return w.remaining < 1 && w.period == 0 }

// Consumed returns the number of samples read from data so far.
func (w *Window[F]) Consumed() int { return w.consumed }

// Advance returns the net cursor movement since creation. Wrapping makes it
// smaller than Consumed.
func (w *Window[F]) Advance() int { return w.pos - w.start }

// Position returns the cursor index into the backing slice.
func (w *Window[F]) Position() int { return w.pos }
