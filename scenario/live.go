// SPDX-License-Identifier: EPL-2.0

package scenario

import (
	"sync/atomic"

	"github.com/ik5/audspace/audio"
)

// liveClip streams a decoded clip once it is switched on.
type liveClip struct {
	*audio.BufferReader
	at     float64 // ms
	active atomic.Bool
}

func newLiveClip(buf *audio.Buffer, live *Live, loop bool) *liveClip {
	r := buf.Reader(loop)
	r.Seek(int(live.Offset.Seconds() * float64(buf.SampleRate())))
	return &liveClip{BufferReader: r, at: millis(live.At)}
}

func (c *liveClip) Active() bool { return c.active.Load() }

// advance switches the stream on once now reaches its start time.
func (c *liveClip) advance(now float64) {
	if now >= c.at {
		c.active.Store(true)
	}
}
