// SPDX-License-Identifier: EPL-2.0

// Package audspace is a positional audio engine for multi-participant calls.
//
// Every participant, including the local listener, has a pose (position,
// forward and up vectors) that is interpolated over time instead of snapping.
// Each remote voice is routed through a spatializer that places it in 3D
// space, and a per-participant activity detector reports who is speaking.
//
// # Packages
//
//   - pose: vectors, poses and keyframe interpolation on the application clock
//   - graph: the audio graph, its clock, parameter automation and nodes
//   - spatial: the Spatializer and Listener family (none, volume, panner, ambisonic)
//   - ambisonic: first-order ambisonic scene with a shoebox room
//   - activity: hysteresis voice activity detection over spectra
//   - source: binds a participant's clip or live stream to a spatializer
//   - engine: participant registry driven by transport events
//   - scenario: YAML scenes rendered offline
//   - audio, formats/...: PCM plumbing and decoders
//
// # Quick Start
//
//	ctx := graph.NewContext(48000)
//	eng, _ := engine.New(ctx, config.Default())
//	eng.OnActivityChanged(func(id string, active bool) { ... })
//
//	eng.ParticipantJoined("alice")
//	eng.AttachMedia("alice", liveStream)
//	eng.PoseChanged("alice", 2, 0, -1, 0, 0, 1, 0, 1, 0, now, 200)
//
//	// every frame
//	eng.Tick(now)
//
//	// on the audio thread
//	ctx.Render(out)
//
// # Loading Clips
//
// Clips for one-shot or looping playback are decoded once through the
// bundled registry:
//
//	buf, err := audspace.LoadFile(audspace.NewRegistry(), "ding.ogg", 48000, true)
//
// # Clocks
//
// Poses are keyed to the application clock in milliseconds. Scheduled
// spatializer automation is keyed to the audio clock in seconds
// (graph.Context.CurrentTime). The two are never mixed.
package audspace
