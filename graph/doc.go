// SPDX-License-Identifier: EPL-2.0

// Package graph is a small pull-model audio graph.
//
// A Context owns the audio clock and the Destination. Nodes are wired with
// Connect into a directed acyclic graph; each call to Context.Render pulls the
// Destination one render quantum (128 frames) at a time, and every node is
// processed at most once per quantum however many outputs it feeds.
//
// Node parameters are Params. They can be written immediately with SetValue
// or scheduled against the audio clock:
//
//	ctx := graph.NewContext(48000)
//	gain := graph.NewGain(ctx)
//	gain.Gain().SetValueAtTime(0, ctx.CurrentTime())
//	gain.Gain().LinearRampToValueAtTime(1, ctx.CurrentTime()+0.5)
//
//	panner := graph.NewPanner(ctx)
//	panner.SetPanningModel(graph.PanningHRTF)
//	_ = gain.Connect(panner)
//	_ = panner.Connect(ctx.Destination())
//
//	out := make([]float32, 2*1024) // interleaved stereo
//	ctx.Render(out)
//
// Render may run on an audio goroutine while another goroutine rewires the
// graph or writes parameters.
package graph
