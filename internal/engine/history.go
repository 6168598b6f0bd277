package engine

import (
	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
)

// History holds the most recently consumed input samples, newest first:
// index 0 is the latest sample and index 4 the oldest.
type History[F simdops.Float] [HistoryLength]F

// Reset zeroes every slot.
func (h *History[F]) Reset() {
	*h = History[F]{}
}

// Push shifts the history by one and stores x as the newest sample.
// The oldest sample is dropped.
func (h *History[F]) Push(x F) {
	h[4] = h[3]
	h[3] = h[2]
	h[2] = h[1]
	h[1] = h[0]
	h[0] = x
}

// PushSamples pushes the first n logical samples of w. The window is taken
// by value and is not advanced.
//
// Beyond the window's genuine samples the pushed values are wrapped reads
// when the window has a period, zeros otherwise.
func (h *History[F]) PushSamples(w window.Window[F], n int) {
	if n >= HistoryLength {
		// Only the last five survive; write them directly, newest first.
		for i := range HistoryLength {
			h[i] = w.At(n - 1 - i)
		}
		return
	}

	available := min(n, w.Remaining())
	for j := range available {
		h.Push(w.At(j))
	}
	for j := available; j < n; j++ {
		if w.Period() == 0 {
			h.Push(0)
			continue
		}
		h.Push(w.At(j))
	}
}
