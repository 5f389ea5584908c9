// SPDX-License-Identifier: EPL-2.0

package ambisonic

import "errors"

var (
	ErrUnknownMaterial = errors.New("unknown wall material")
	ErrInvalidRoom     = errors.New("room dimensions must not be negative")
	ErrUnknownRolloff  = errors.New("unknown rolloff")
)
