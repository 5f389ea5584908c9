// SPDX-License-Identifier: EPL-2.0

package ambisonic

import (
	"fmt"
	"math"
	"sync"

	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/pose"
)

const (
	speedOfSound  = 343.0
	delayLineSize = 1 << 15
	delayLineMask = delayLineSize - 1

	DefaultMinDistance = 1.0
	DefaultMaxDistance = 1000.0
)

// Scene renders any number of mono sources into a stereo output through a
// first-order ambisonic field. Each source adds its direct path plus one
// early reflection per reflecting wall of the room.
type Scene struct {
	ctx    *graph.Context
	output *graph.Gain

	mu       sync.Mutex
	listener pose.Pose
	room     Room
	walls    []wall
	sources  map[*Source]struct{}
}

// NewScene creates an empty open-air scene with the listener at the origin.
func NewScene(ctx *graph.Context) *Scene {
	return &Scene{
		ctx:      ctx,
		output:   graph.NewGain(ctx),
		listener: pose.DefaultPose(),
		room:     OpenAir(),
		sources:  make(map[*Source]struct{}),
	}
}

// Output is the decoded stereo mix of every source.
func (s *Scene) Output() graph.Node { return s.output }

func (s *Scene) SetListenerPose(p pose.Pose) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = p
}

func (s *Scene) ListenerPose() pose.Pose {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listener
}

func (s *Scene) SetRoom(r Room) error {
	if err := r.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = r
	s.walls = r.walls()
	return nil
}

func (s *Scene) Room() Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// Len is the number of live sources.
func (s *Scene) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sources)
}

// NewSource adds a source at the origin.
func (s *Scene) NewSource() (*Source, error) {
	src := &Source{
		scene:   s,
		forward: pose.DefaultForward,
		up:      pose.DefaultUp,
		minDist: DefaultMinDistance,
		maxDist: DefaultMaxDistance,
		rolloff: RolloffLogarithmic,
		gain:    1,
		ring:    make([]float32, delayLineSize),
		rate:    float64(s.ctx.SampleRate()),
	}
	src.input = graph.NewWorklet(s.ctx, "ambisonic-source", 1, 2, src.render)
	if err := src.input.Connect(s.output); err != nil {
		return nil, fmt.Errorf("adding source: %w", err)
	}

	s.mu.Lock()
	s.sources[src] = struct{}{}
	s.mu.Unlock()
	return src, nil
}

// Close disposes every source and detaches the output.
func (s *Scene) Close() {
	s.mu.Lock()
	sources := make([]*Source, 0, len(s.sources))
	for src := range s.sources {
		sources = append(sources, src)
	}
	s.mu.Unlock()

	for _, src := range sources {
		src.Dispose()
	}
	s.output.DisconnectAll()
}

const maxTaps = 7

type tap struct {
	delay  int
	gl, gr float64
}

// Source is a point source in a Scene. Its parameters are guarded by the
// scene lock; everything below ring is touched only by the render path.
type Source struct {
	scene *Scene
	input *graph.Worklet

	position    pose.Vector3
	forward, up pose.Vector3
	minDist     float64
	maxDist     float64
	rolloff     Rolloff
	gain        float64
	alpha       float64
	sharpness   float64
	disposed    bool

	ring  []float32
	pos   int
	rate  float64
	prev  [maxTaps]tap
	cur   [maxTaps]tap
	ntaps int
	seen  bool
}

// Input receives the mono signal to place in the scene.
func (src *Source) Input() graph.Node { return src.input }

func (src *Source) locked(fn func()) {
	src.scene.mu.Lock()
	defer src.scene.mu.Unlock()
	fn()
}

func (src *Source) SetPosition(x, y, z float64) {
	src.locked(func() { src.position = pose.Vec3(x, y, z) })
}

func (src *Source) SetOrientation(fx, fy, fz, ux, uy, uz float64) {
	src.locked(func() {
		src.forward = pose.Vec3(fx, fy, fz)
		src.up = pose.Vec3(ux, uy, uz)
	})
}

func (src *Source) SetMinDistance(d float64) { src.locked(func() { src.minDist = max(d, 0) }) }
func (src *Source) SetMaxDistance(d float64) { src.locked(func() { src.maxDist = max(d, 0) }) }
func (src *Source) SetRolloff(r Rolloff)     { src.locked(func() { src.rolloff = r }) }
func (src *Source) SetGain(g float64)        { src.locked(func() { src.gain = g }) }

// SetDirectivity shapes the source pattern: alpha 0 is omnidirectional,
// 0.5 cardioid, 1 figure-eight; sharpness narrows it.
func (src *Source) SetDirectivity(alpha, sharpness float64) {
	src.locked(func() {
		src.alpha = min(max(alpha, 0), 1)
		src.sharpness = max(sharpness, 1)
	})
}

func (src *Source) Position() (p pose.Vector3) {
	src.locked(func() { p = src.position })
	return p
}

func (src *Source) Gain() (g float64) {
	src.locked(func() { g = src.gain })
	return g
}

func (src *Source) Rolloff() (r Rolloff) {
	src.locked(func() { r = src.rolloff })
	return r
}

func (src *Source) Distances() (minDist, maxDist float64) {
	src.locked(func() { minDist, maxDist = src.minDist, src.maxDist })
	return minDist, maxDist
}

// Dispose detaches the source from the scene. It is safe to call twice.
func (src *Source) Dispose() {
	src.scene.mu.Lock()
	if src.disposed {
		src.scene.mu.Unlock()
		return
	}
	src.disposed = true
	delete(src.scene.sources, src)
	src.scene.mu.Unlock()

	src.input.DisconnectAll()
}

// updateTaps computes the direct and reflected paths for the current
// listener and room.
func (src *Source) updateTaps() {
	s := src.scene
	s.mu.Lock()
	defer s.mu.Unlock()

	listener := s.listener
	rel := src.position.Sub(listener.Position)
	direct := rel.Length()

	g := src.gain * src.rolloff.attenuation(direct, src.minDist, src.maxDist) * src.directivity(rel.Scale(-1))
	src.cur[0] = src.decodeTap(listener, rel, g, 0)
	src.ntaps = 1

	for _, w := range s.walls {
		image := w.mirror(src.position).Sub(listener.Position)
		d := image.Length()
		g := src.gain * w.coeff * src.rolloff.attenuation(d, src.minDist, src.maxDist)
		delay := int(math.Round((d - direct) / speedOfSound * src.rate))
		src.cur[src.ntaps] = src.decodeTap(listener, image, g, min(max(delay, 0), delayLineSize-1))
		src.ntaps++
	}
}

func (src *Source) decodeTap(listener pose.Pose, rel pose.Vector3, g float64, delay int) tap {
	gl, gr := Encode(toListener(listener, rel)).DecodeStereo()
	return tap{delay: delay, gl: gl * g, gr: gr * g}
}

// directivity is the pattern gain towards the listener, toListener being the
// vector from source to listener.
func (src *Source) directivity(toListener pose.Vector3) float64 {
	if src.alpha == 0 || toListener.Length() == 0 || src.forward.Length() == 0 {
		return 1
	}
	cos := toListener.Normalize().Dot(src.forward.Normalize())
	return math.Pow(math.Abs((1-src.alpha)+src.alpha*cos), src.sharpness)
}

func (src *Source) render(in, out [][]float32, _ float64) {
	src.updateTaps()
	if !src.seen {
		src.prev = src.cur
		src.seen = true
	}

	for i, s := range in[0] {
		src.ring[src.pos] = s
		frac := float64(i+1) / graph.RenderQuantum

		var l, r float64
		for k := range src.ntaps {
			p, c := src.prev[k], src.cur[k]
			v := float64(src.ring[(src.pos-c.delay)&delayLineMask])
			l += v * (p.gl + (c.gl-p.gl)*frac)
			r += v * (p.gr + (c.gr-p.gr)*frac)
		}
		out[0][i] = float32(l)
		out[1][i] = float32(r)

		src.pos = (src.pos + 1) & delayLineMask
	}

	src.prev = src.cur
}
