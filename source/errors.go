// SPDX-License-Identifier: EPL-2.0

package source

import "errors"

var (
	// ErrUnsupportedInput is returned by New for inputs that are neither a
	// buffer nor a live stream.
	ErrUnsupportedInput = errors.New("unsupported source input")
	ErrNoSpatializer    = errors.New("source needs a spatializer")
	ErrNotPlayable      = errors.New("live sources cannot be played")
	ErrDisposed         = errors.New("source disposed")
	ErrUnknownHandle    = errors.New("unknown playback handle")
)
