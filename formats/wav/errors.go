// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrUnsupportedEncoding = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedLayout   = errors.New("unsupported WAV layout")
	ErrInvalidChannels     = errors.New("channel count must be positive")
)
