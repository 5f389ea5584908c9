// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"slices"
	"sync"
)

// Context owns the audio clock and renders the graph.
//
// The application goroutine builds and rewires the graph and writes parameters;
// an audio goroutine calls Render. Both go through the context mutex, so a
// Render never sees a half-applied change. Callbacks raised while rendering
// (source ended) run after the mutex is released.
type Context struct {
	mu sync.Mutex

	sampleRate  int
	frames      int64  // frames rendered so far; the audio clock
	quantum     uint64 // index of the last rendered quantum
	edges       int
	closed      bool
	destination *Destination
	listener    *Listener

	// taps are dead-end nodes (analysers) rendered every quantum even though
	// nothing downstream pulls them.
	taps []*node

	pending   [2][]float32 // rendered frames not yet handed to Render's caller
	callbacks []func()
}

// NewContext creates a context rendering at sampleRate with its clock at 0.
func NewContext(sampleRate int) *Context {
	c := &Context{sampleRate: sampleRate}
	c.destination = newDestination(c)
	c.listener = newListener(c)
	return c
}

func (c *Context) SampleRate() int { return c.sampleRate }

// CurrentTime is the audio clock in seconds.
func (c *Context) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowLocked()
}

func (c *Context) nowLocked() float64 {
	return float64(c.frames) / float64(c.sampleRate)
}

func (c *Context) Destination() *Destination { return c.destination }
func (c *Context) Listener() *Listener       { return c.listener }

// Connections is the number of live edges in the graph.
func (c *Context) Connections() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edges
}

// Close stops rendering. Further Connect calls fail; Render yields silence.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Context) addTap(n *node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taps = append(c.taps, n)
}

func (c *Context) removeTap(n *node) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.taps, n); i >= 0 {
		c.taps = slices.Delete(c.taps, i, i+1)
	}
}

// queueCallback defers fn until the current Render releases the lock.
func (c *Context) queueCallback(fn func()) {
	c.callbacks = append(c.callbacks, fn)
}

// Render fills dst with interleaved stereo frames and advances the audio
// clock by len(dst)/2 frames. It returns the number of frames written.
func (c *Context) Render(dst []float32) int {
	frames := len(dst) / 2

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		clear(dst)
		return frames
	}

	written := 0
	for written < frames {
		if len(c.pending[0]) == 0 {
			c.renderQuantumLocked()
		}

		n := min(frames-written, len(c.pending[0]))
		for i := range n {
			dst[2*(written+i)] = c.pending[0][i]
			dst[2*(written+i)+1] = c.pending[1][i]
		}
		c.pending[0] = c.pending[0][n:]
		c.pending[1] = c.pending[1][n:]
		written += n
	}

	callbacks := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
	return written
}

func (c *Context) renderQuantumLocked() {
	c.quantum++
	t := c.nowLocked()

	out := c.destination.pull(c.quantum, t)
	for _, tap := range c.taps {
		tap.pull(c.quantum, t)
	}

	left := make([]float32, RenderQuantum)
	right := make([]float32, RenderQuantum)
	switch out.channels {
	case 1:
		copy(left, out.data[0][:])
		copy(right, out.data[0][:])
	case 2:
		copy(left, out.data[0][:])
		copy(right, out.data[1][:])
	}
	c.pending = [2][]float32{left, right}
	c.frames += RenderQuantum
}
