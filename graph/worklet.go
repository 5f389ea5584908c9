// SPDX-License-Identifier: EPL-2.0

package graph

// WorkletFunc processes one quantum. in and out hold one RenderQuantum-long
// slice per channel; out starts zeroed. t is the audio clock at the start of
// the quantum.
//
// The function runs on the render path with the context locked. It must not
// block or call methods of nodes or params in this package.
type WorkletFunc func(in, out [][]float32, t float64)

// Worklet is a node whose processing is supplied by the caller.
type Worklet struct {
	node
	fn          WorkletFunc
	outChannels int
	ins, outs   [][]float32
}

// NewWorklet creates a node mixing its inputs to inputChannels and producing
// outputChannels. Both are clamped to 1 or 2.
func NewWorklet(ctx *Context, name string, inputChannels, outputChannels int, fn WorkletFunc) *Worklet {
	w := &Worklet{
		fn:          fn,
		outChannels: min(max(outputChannels, 1), 2),
	}
	w.init(ctx, name, w)
	w.inputChannels = min(max(inputChannels, 1), 2)
	w.ins = make([][]float32, w.inputChannels)
	w.outs = make([][]float32, w.outChannels)
	return w
}

func (w *Worklet) process(in, out *bus, t float64) {
	out.zero(w.outChannels)
	for c := range w.ins {
		w.ins[c] = in.data[c][:]
	}
	for c := range w.outs {
		w.outs[c] = out.data[c][:]
	}
	w.fn(w.ins, w.outs, t)
}
