// SPDX-License-Identifier: EPL-2.0

package scenario

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audspace"
	"github.com/ik5/audspace/audio"
)

// Media holds every clip of a scenario, decoded to mono at its sample rate.
type Media struct {
	Participants map[string]*audio.Buffer
	Sounds       []*audio.Buffer // aligned with Scenario.Sounds
}

// Decode loads all participant files and sounds concurrently through reg.
// The first failure cancels the rest.
func Decode(ctx context.Context, sc *Scenario, reg *audio.Registry) (*Media, error) {
	voices := make([]*audio.Buffer, len(sc.Participants))
	sounds := make([]*audio.Buffer, len(sc.Sounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	load := func(dst **audio.Buffer, file string) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := audspace.LoadFile(reg, sc.Path(file), sc.SampleRate, true)
			if err != nil {
				return err
			}
			*dst = buf
			return nil
		})
	}

	for i, p := range sc.Participants {
		load(&voices[i], p.File)
	}
	for i, s := range sc.Sounds {
		load(&sounds[i], s.File)
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("decoding scenario media: %w", err)
	}

	m := &Media{
		Participants: make(map[string]*audio.Buffer, len(voices)),
		Sounds:       sounds,
	}
	for i, p := range sc.Participants {
		m.Participants[p.ID] = voices[i]
	}
	return m, nil
}
