// SPDX-License-Identifier: EPL-2.0

// Package pose holds participant poses and interpolates them over time.
//
// Poses are keyed to the application clock (milliseconds, driven by the
// per-frame loop). Nothing here reads the audio clock.
package pose
