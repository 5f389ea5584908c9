// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	ErrContextMismatch = errors.New("nodes belong to different contexts")
	ErrCycle           = errors.New("connection would create a cycle")
	ErrNotConnected    = errors.New("nodes are not connected")
	ErrClosed          = errors.New("context is closed")
	ErrAlreadyStarted  = errors.New("source already started")
	ErrInvalidFFTSize  = errors.New("fft size must be a power of two in [32, 32768]")
	ErrInvalidRange    = errors.New("invalid parameter range")
)
