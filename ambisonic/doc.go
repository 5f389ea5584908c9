// SPDX-License-Identifier: EPL-2.0

// Package ambisonic places mono sources in a first-order ambisonic sound
// field with a simple shoebox room model, and decodes the field to stereo.
//
// Every source contributes its direct sound and one image-source reflection
// per reflecting wall. Reflections are delayed by their extra path length and
// scaled by the wall material's reflection coefficient. Directions are
// expressed relative to the listener before encoding, so the field is always
// in listener space, and decoding uses two virtual cardioid microphones.
package ambisonic
