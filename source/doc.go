// SPDX-License-Identifier: EPL-2.0

// Package source binds one participant's audio to a spatializer.
//
// A Source is built from either a decoded buffer or a live stream. Buffers
// are played through Play, each call starting an independent playback that
// may overlap the others. Live streams are connected once, on the first Tick
// at which they report themselves active.
//
// Every Source feeds an output gain, which the engine uses for mute fades,
// and an analyser tap for voice activity.
//
//	src, err := source.New(ctx, sp, buf)
//	if err != nil {
//		return err
//	}
//	defer src.Dispose()
//	id, _ := src.Play()
package source
