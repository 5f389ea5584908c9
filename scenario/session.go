// SPDX-License-Identifier: EPL-2.0

package scenario

import (
	"fmt"
	"time"

	"github.com/ik5/audspace/engine"
)

// clockOrigin is where scenario time 0 sits on the engine's application
// clock. A pose stamped at 0 reads as never targeted.
const clockOrigin = time.Second

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// clock maps scenario time onto the application clock.
func clock(d time.Duration) float64 { return millis(clockOrigin + d) }

// Session walks an engine through a scenario timeline. The engine's
// application clock is scenario time in milliseconds, shifted by clockOrigin.
type Session struct {
	sc     *Scenario
	eng    *engine.Engine
	sounds []Sound
	media  *Media
	live   []*liveClip

	listener  int
	keyframes []int
	mutes     []int
	sound     int
}

// NewSession joins every participant, attaches their media and starts
// playback. Live participants start once their stream goes active.
func NewSession(sc *Scenario, media *Media, eng *engine.Engine) (*Session, error) {
	s := &Session{
		sc:        sc,
		eng:       eng,
		media:     media,
		keyframes: make([]int, len(sc.Participants)),
		mutes:     make([]int, len(sc.Participants)),
	}

	for _, p := range sc.Participants {
		buf := media.Participants[p.ID]
		if buf == nil {
			return nil, fmt.Errorf("participant %q: %w", p.ID, ErrMissingMedia)
		}
		if err := eng.ParticipantJoined(p.ID); err != nil {
			return nil, err
		}
		if p.Properties != nil {
			if err := eng.SetAudioProperties(p.ID, *p.Properties); err != nil {
				return nil, err
			}
		}

		if p.Live != nil {
			clip := newLiveClip(buf, p.Live, p.Loop)
			if _, err := eng.AttachMedia(p.ID, clip); err != nil {
				return nil, err
			}
			s.live = append(s.live, clip)
			continue
		}

		src, err := eng.AttachMedia(p.ID, buf)
		if err != nil {
			return nil, err
		}
		src.SetLoop(p.Loop)
		if _, err := src.Play(); err != nil {
			return nil, fmt.Errorf("participant %q: %w", p.ID, err)
		}
	}
	if len(media.Sounds) < len(sc.Sounds) {
		return nil, fmt.Errorf("sounds: %w", ErrMissingMedia)
	}
	return s, nil
}

// Advance applies every event due by now, then ticks the engine.
func (s *Session) Advance(now time.Duration) error {
	for ; s.listener < len(s.sc.Listener) && s.sc.Listener[s.listener].At <= now; s.listener++ {
		k := s.sc.Listener[s.listener]
		s.eng.SetLocalPose(k.Pose(), clock(k.At), millis(k.Transition))
	}

	for i, p := range s.sc.Participants {
		for ; s.keyframes[i] < len(p.Keyframes) && p.Keyframes[s.keyframes[i]].At <= now; s.keyframes[i]++ {
			k := p.Keyframes[s.keyframes[i]]
			kp := k.Pose()
			err := s.eng.PoseChanged(p.ID,
				kp.Position.X, kp.Position.Y, kp.Position.Z,
				kp.Forward.X, kp.Forward.Y, kp.Forward.Z,
				kp.Up.X, kp.Up.Y, kp.Up.Z,
				clock(k.At), millis(k.Transition))
			if err != nil {
				return err
			}
		}
		for ; s.mutes[i] < len(p.Mute) && p.Mute[s.mutes[i]].At <= now; s.mutes[i]++ {
			if err := s.eng.MuteStatusChanged(p.ID, p.Mute[s.mutes[i]].Muted); err != nil {
				return err
			}
		}
	}

	for ; s.sound < len(s.sc.Sounds) && s.sc.Sounds[s.sound].At <= now; s.sound++ {
		if err := s.eng.PlaySound(s.media.Sounds[s.sound]); err != nil {
			return err
		}
	}

	for _, clip := range s.live {
		clip.advance(millis(now))
	}

	s.eng.Tick(clock(now))
	return nil
}
