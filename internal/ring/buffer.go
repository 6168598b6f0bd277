// Package ring implements the circular sample buffer that holds input not
// yet consumed by a channel's interpolator.
package ring

import (
	"sync"

	"github.com/tphakala/go-lagrange-resampler/internal/simdops"
	"github.com/tphakala/go-lagrange-resampler/internal/window"
)

// RingBuffer implements a circular buffer for audio samples.
// Readers consume it in place through Window, without linearizing the
// wrapped region.
type RingBuffer[F simdops.Float] struct {
	data     []F
	capacity int
	size     int
	readPos  int
	writePos int
	mu       sync.Mutex
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer[F simdops.Float](capacity int) *RingBuffer[F] {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer[F]{
		data:     make([]F, capacity),
		capacity: capacity,
	}
}

// Write adds samples to the buffer.
// If the buffer doesn't have enough space, it will grow automatically.
func (b *RingBuffer[F]) Write(samples []F) {
	b.mu.Lock()
	defer b.mu.Unlock()

	needed := len(samples)
	if needed == 0 {
		return
	}

	if b.size+needed > b.capacity {
		b.grow(b.size + needed)
	}

	// First run up to the end of storage, then the wrapped remainder.
	n := copy(b.data[b.writePos:], samples)
	copy(b.data, samples[n:])
	b.writePos = (b.writePos + needed) % b.capacity
	b.size += needed
}

// Read retrieves up to n samples from the buffer.
// Returns fewer samples if less are available.
func (b *RingBuffer[F]) Read(n int) []F {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := b.peek(n)
	b.discard(len(result))
	return result
}

// Peek returns up to n samples without removing them from the buffer.
func (b *RingBuffer[F]) Peek(n int) []F {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.peek(n)
}

// Window returns a read window over the buffered samples, starting at the
// oldest one. When the samples wrap past the end of storage the window
// loops with the storage capacity as its period, so callers must not read
// more than Available samples from it.
//
// The window aliases the buffer's storage and is invalidated by Write.
func (b *RingBuffer[F]) Window() window.Window[F] {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		w   window.Window[F]
		err error
	)
	if b.readPos+b.size <= b.capacity {
		w, err = window.New(b.data, b.readPos, b.size, 0)
	} else {
		w, err = window.New(b.data, b.readPos, b.capacity-b.readPos, b.capacity)
	}
	if err != nil {
		// Bounds come from the buffer's own invariants.
		panic("ring: " + err.Error())
	}
	return w
}

// Discard drops up to n of the oldest samples.
func (b *RingBuffer[F]) Discard(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.discard(n)
}

// Available returns the number of samples available for reading.
func (b *RingBuffer[F]) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Space returns the available space for writing.
func (b *RingBuffer[F]) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity - b.size
}

// Capacity returns the current buffer capacity.
func (b *RingBuffer[F]) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Clear removes all samples from the buffer.
func (b *RingBuffer[F]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.readPos = 0
	b.writePos = 0
}

func (b *RingBuffer[F]) peek(n int) []F {
	n = min(n, b.size)
	if n <= 0 {
		return []F{}
	}

	result := make([]F, n)
	first := copy(result, b.data[b.readPos:min(b.readPos+n, b.capacity)])
	copy(result[first:], b.data[:n-first])
	return result
}

func (b *RingBuffer[F]) discard(n int) {
	n = min(n, b.size)
	if n <= 0 {
		return
	}
	b.readPos = (b.readPos + n) % b.capacity
	b.size -= n
}

// grow increases the buffer capacity to at least the specified size.
func (b *RingBuffer[F]) grow(minCapacity int) {
	newCapacity := b.capacity
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]F, newCapacity)

	// Copy existing data to maintain order
	if b.size > 0 {
		if b.readPos < b.writePos {
			copy(newData, b.data[b.readPos:b.writePos])
		} else {
			n1 := copy(newData, b.data[b.readPos:])
			copy(newData[n1:], b.data[:b.writePos])
		}
	}

	b.data = newData
	b.capacity = newCapacity
	b.readPos = 0
	b.writePos = b.size
}
