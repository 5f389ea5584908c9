// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM plumbing underneath the spatial engine.
//
// It contains:
//   - Source, the pull-based stream every decoder and live input implements
//   - Registry, mapping format keys and file extensions to decoders
//   - Buffer and LoadBuffer, fully decoded clips used for one-shot and looping playback
//   - Resampler, cubic-interpolating sample rate conversion
//   - MonoMixer, channel averaging for point-source voices
//
// # Source Interface
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Samples are interleaved float32 in [-1.0, 1.0]. ReadSamples returns io.EOF
// when the stream is finished. A live source may return (0, nil) when nothing
// is buffered yet; the Resampler passes that through instead of ending.
//
// # Buffers
//
// Clips that are played on demand are decoded once into a Buffer at the
// graph's sample rate:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	buf, err := audio.LoadBuffer(src, 48000)
//
// A Buffer is immutable once loaded, so overlapping playbacks share it.
package audio
