// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"slices"
)

// Node is a vertex in the audio graph. Only the node types in this package
// implement it.
type Node interface {
	// Context returns the context the node was created in.
	Context() *Context
	// Connect routes this node's output into dst. Connecting twice is a no-op.
	Connect(dst Node) error
	// Disconnect removes the edge to dst, or returns ErrNotConnected.
	Disconnect(dst Node) error
	// DisconnectAll removes every outgoing edge.
	DisconnectAll()

	core() *node
}

// processor renders one quantum. in holds the mixed inputs (channels == 0 when
// nothing is connected); t is the audio clock at the start of the quantum.
type processor interface {
	process(in, out *bus, t float64)
}

type node struct {
	ctx     *Context
	name    string
	proc    processor
	inputs  []*node
	outputs []*node

	// inputChannels forces the input mix to a channel count; 0 follows the inputs.
	inputChannels int

	rendered uint64 // quantum index out is valid for
	in       bus
	out      bus
}

func (n *node) init(ctx *Context, name string, proc processor) {
	n.ctx = ctx
	n.name = name
	n.proc = proc
}

func (n *node) Context() *Context { return n.ctx }
func (n *node) core() *node       { return n }
func (n *node) String() string    { return n.name }

func (n *node) Connect(dst Node) error {
	d := dst.core()
	if d.ctx != n.ctx {
		return ErrContextMismatch
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if n.ctx.closed {
		return ErrClosed
	}
	if slices.Contains(n.outputs, d) {
		return nil
	}
	if d == n || d.reaches(n) {
		return fmt.Errorf("%s -> %s: %w", n.name, d.name, ErrCycle)
	}

	n.outputs = append(n.outputs, d)
	d.inputs = append(d.inputs, n)
	n.ctx.edges++
	return nil
}

func (n *node) Disconnect(dst Node) error {
	d := dst.core()

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return n.disconnectLocked(d)
}

func (n *node) disconnectLocked(d *node) error {
	i := slices.Index(n.outputs, d)
	if i < 0 {
		return fmt.Errorf("%s -> %s: %w", n.name, d.name, ErrNotConnected)
	}

	n.outputs = slices.Delete(n.outputs, i, i+1)
	if j := slices.Index(d.inputs, n); j >= 0 {
		d.inputs = slices.Delete(d.inputs, j, j+1)
	}
	n.ctx.edges--
	return nil
}

func (n *node) DisconnectAll() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	for len(n.outputs) > 0 {
		_ = n.disconnectLocked(n.outputs[len(n.outputs)-1])
	}
}

// NumInputs and NumOutputs report the current edge counts.
func (n *node) NumInputs() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return len(n.inputs)
}

func (n *node) NumOutputs() int {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()
	return len(n.outputs)
}

// reaches reports whether target is downstream of n.
func (n *node) reaches(target *node) bool {
	for _, o := range n.outputs {
		if o == target || o.reaches(target) {
			return true
		}
	}
	return false
}

// pull renders the node for quantum q, once. Fan-out shares the cached result.
func (n *node) pull(q uint64, t float64) *bus {
	if n.rendered == q {
		return &n.out
	}
	n.rendered = q

	channels := n.inputChannels
	if channels == 0 {
		for _, in := range n.inputs {
			channels = max(channels, in.pull(q, t).channels)
		}
	}

	n.in.zero(channels)
	for _, in := range n.inputs {
		n.in.mixFrom(in.pull(q, t))
	}

	n.out.zero(0)
	n.proc.process(&n.in, &n.out, t)
	return &n.out
}
