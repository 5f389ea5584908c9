// SPDX-License-Identifier: EPL-2.0

package spatial

import "errors"

var (
	ErrUnknownFalloff    = errors.New("unknown falloff algorithm")
	ErrUnknownKind       = errors.New("unknown spatializer kind")
	ErrUnknownTier       = errors.New("unknown quality tier")
	ErrInvalidProperties = errors.New("invalid audio properties")
	ErrDisposed          = errors.New("listener disposed")
)
