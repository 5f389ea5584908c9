// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrParticipantExists  = errors.New("participant already joined")
	ErrClosed             = errors.New("engine closed")
)
