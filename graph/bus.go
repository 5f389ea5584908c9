// SPDX-License-Identifier: EPL-2.0

package graph

// RenderQuantum is the number of frames processed per graph pass.
const RenderQuantum = 128

// bus is one quantum of up to two channels of audio.
type bus struct {
	channels int
	data     [2][RenderQuantum]float32
}

func (b *bus) zero(channels int) {
	b.channels = channels
	clear(b.data[0][:])
	clear(b.data[1][:])
}

// mixFrom adds src into b, upmixing mono into both channels of a stereo bus.
func (b *bus) mixFrom(src *bus) {
	switch {
	case src.channels == 0:
	case b.channels == 2 && src.channels == 1:
		for i, v := range src.data[0] {
			b.data[0][i] += v
			b.data[1][i] += v
		}
	case b.channels == 1 && src.channels == 2:
		for i := range b.data[0] {
			b.data[0][i] += (src.data[0][i] + src.data[1][i]) * 0.5
		}
	default:
		for c := range b.channels {
			for i, v := range src.data[c] {
				b.data[c][i] += v
			}
		}
	}
}

// mono writes the channel average into dst.
func (b *bus) mono(dst *[RenderQuantum]float32) {
	switch b.channels {
	case 0:
		clear(dst[:])
	case 1:
		*dst = b.data[0]
	default:
		for i := range dst {
			dst[i] = (b.data[0][i] + b.data[1][i]) * 0.5
		}
	}
}
