// SPDX-License-Identifier: EPL-2.0

package scenario

import (
	"context"
	"io"
	"time"

	"github.com/ik5/audspace/config"
	"github.com/ik5/audspace/engine"
	"github.com/ik5/audspace/formats/wav"
	"github.com/ik5/audspace/graph"
)

// Transition is one activity change seen while rendering.
type Transition struct {
	At     time.Duration
	ID     string
	Active bool
}

type Result struct {
	SampleRate  int
	Samples     []float32 // interleaved stereo
	Transitions []Transition
}

// Frames is the number of stereo frames rendered.
func (r *Result) Frames() int { return len(r.Samples) / 2 }

// WriteWAV encodes the mix as 16-bit stereo WAV.
func (r *Result) WriteWAV(w io.Writer) error {
	return wav.WriteFloat32(w, r.SampleRate, 2, r.Samples)
}

// Configure adapts cfg to the scenario's sample rate and spatializer.
func Configure(sc *Scenario, cfg config.Config) config.Config {
	cfg.SampleRate = sc.SampleRate
	if sc.Spatializer != "" {
		cfg.Spatializer.Kind = sc.Spatializer
	}
	return cfg
}

// Render runs the scenario offline, ticking the engine at the scenario's
// frame rate and rendering the audio between ticks.
func Render(ctx context.Context, sc *Scenario, media *Media, cfg config.Config, opts ...engine.Option) (*Result, error) {
	gctx := graph.NewContext(sc.SampleRate)
	eng, err := engine.New(gctx, Configure(sc, cfg), opts...)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	res := &Result{SampleRate: sc.SampleRate}
	var now time.Duration
	eng.OnActivityChanged(func(id string, active bool) {
		res.Transitions = append(res.Transitions, Transition{At: now, ID: id, Active: active})
	})

	sess, err := NewSession(sc, media, eng)
	if err != nil {
		return nil, err
	}

	total := sc.Frames()
	res.Samples = make([]float32, 2*total)
	rate, fps := int64(sc.SampleRate), int64(sc.FPS)
	for frame, done := int64(0), 0; done < total; frame++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		now = time.Duration(frame) * time.Second / time.Duration(fps)
		if err := sess.Advance(now); err != nil {
			return nil, err
		}

		end := min(total, int((frame+1)*rate/fps))
		gctx.Render(res.Samples[2*done : 2*end])
		done = end
	}
	return res, nil
}
