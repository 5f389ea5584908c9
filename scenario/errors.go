// SPDX-License-Identifier: EPL-2.0

package scenario

import "errors"

var (
	ErrInvalid      = errors.New("invalid scenario")
	ErrMissingMedia = errors.New("missing decoded media")
)
