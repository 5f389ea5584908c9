// SPDX-License-Identifier: EPL-2.0

// Package wav reads PCM WAV files through github.com/go-audio/wav and writes
// 16-bit PCM WAV files for rendered mixes.
package wav

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/formats/internal/intpcm"
)

const formatPCM = 1

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, err := intpcm.ReadSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedLayout, err)
	}
	if dec.WavAudioFormat != formatPCM {
		return nil, ErrUnsupportedEncoding
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedLayout
	}

	return intpcm.New(dec, int(dec.SampleRate), int(dec.NumChans), int(dec.BitDepth)), nil
}
