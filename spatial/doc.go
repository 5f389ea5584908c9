// SPDX-License-Identifier: EPL-2.0

// Package spatial positions remote participants around the local listener.
//
// A Listener is created once per call for a single Kind and acts as the
// factory for every participant's Spatializer, so the whole call renders
// with one consistent strategy:
//
//   - none: audio passes straight through.
//   - volume: distance becomes a squared gain curve and lateral offset a pan.
//   - panner-old: an HRTF panner whose position is written immediately.
//   - panner-new: the same panner driven by scheduled automation.
//   - resonance: an ambisonic scene with a fixed virtual room.
//
// The listener owns a Destination with separate spatialized and
// non-spatialized buses feeding the context output.
package spatial
