// SPDX-License-Identifier: EPL-2.0

// Package engine runs a positional-audio call: it tracks remote
// participants from transport events, keeps their poses interpolated,
// pushes them into spatializers every tick, and reports who is speaking.
//
// Engine methods are called from the application goroutine. The graph
// context may be rendered concurrently from an audio goroutine.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ik5/audspace/activity"
	"github.com/ik5/audspace/audio"
	"github.com/ik5/audspace/config"
	"github.com/ik5/audspace/graph"
	"github.com/ik5/audspace/internal/log"
	"github.com/ik5/audspace/internal/metrics"
	"github.com/ik5/audspace/pose"
	"github.com/ik5/audspace/source"
	"github.com/ik5/audspace/spatial"
	"github.com/ik5/audspace/utils"
)

type Option func(*Engine)

// WithLogger sets the logger; log.L() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics records engine activity into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithKind forces the spatializer kind instead of resolving it from the
// configuration.
func WithKind(k spatial.Kind) Option {
	return func(e *Engine) { e.kind = k }
}

type participant struct {
	id       string
	pose     *pose.Interpolated
	props    spatial.AudioProperties
	source   *source.Source
	detector *activity.Detector
	fader    fader
}

type activityEvent struct {
	id     string
	active bool
}

type Engine struct {
	ctx      *graph.Context
	cfg      config.Config
	log      *slog.Logger
	metrics  *metrics.Metrics
	kind     spatial.Kind
	listener spatial.Listener
	local    *pose.Interpolated

	mu           sync.Mutex
	participants map[string]*participant
	offset       pose.Vector3
	onActivity   []activity.ChangeFunc
	events       []activityEvent // filled by detectors during Tick
	sounds       map[*graph.BufferSource]struct{}
	closed       bool
}

// New builds the listener for the configured spatializer kind on ctx.
func New(ctx *graph.Context, cfg config.Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		ctx:          ctx,
		cfg:          cfg,
		log:          log.L(),
		local:        pose.NewInterpolated(),
		participants: make(map[string]*participant),
		offset:       pose.Vec3(cfg.Offset[0], cfg.Offset[1], cfg.Offset[2]),
		sounds:       make(map[*graph.BufferSource]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.kind == "" {
		kind, err := cfg.Kind()
		if err != nil {
			return nil, err
		}
		e.kind = kind
	}

	listener, err := spatial.NewListener(ctx, e.kind)
	if err != nil {
		return nil, fmt.Errorf("creating listener: %w", err)
	}
	e.listener = listener
	listener.Destination().SetVolume(utils.DecibelsToLinear(cfg.MasterGainDB))

	e.metrics.SetSpatializer(string(e.kind))
	e.log.Info("engine started", "spatializer", e.kind, "sample_rate", ctx.SampleRate())
	return e, nil
}

func (e *Engine) Context() *graph.Context           { return e.ctx }
func (e *Engine) Kind() spatial.Kind                { return e.kind }
func (e *Engine) Listener() spatial.Listener        { return e.listener }
func (e *Engine) Destination() *spatial.Destination { return e.listener.Destination() }

func (e *Engine) lookupLocked(id string) (*participant, error) {
	if e.closed {
		return nil, ErrClosed
	}
	p, ok := e.participants[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownParticipant)
	}
	return p, nil
}

// ParticipantJoined registers a remote participant. Media arrives later
// through AttachMedia.
func (e *Engine) ParticipantJoined(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}
	if _, ok := e.participants[id]; ok {
		return fmt.Errorf("%q: %w", id, ErrParticipantExists)
	}

	p := &participant{
		id:    id,
		pose:  pose.NewInterpolated(),
		props: e.cfg.Audio,
		fader: newFader(e.cfg.MuteFade),
	}
	p.pose.SetOffset(e.offset)
	e.participants[id] = p

	e.metrics.SetParticipants(len(e.participants))
	e.log.Info("participant joined", "participant", id)
	return nil
}

// ParticipantLeft disposes the participant's source and forgets them.
func (e *Engine) ParticipantLeft(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return err
	}
	if p.source != nil {
		p.source.Dispose()
	}
	delete(e.participants, id)

	e.metrics.SetParticipants(len(e.participants))
	e.log.Info("participant left", "participant", id)
	return nil
}

// PoseChanged retargets a participant's pose. t and dt are application
// clock milliseconds.
func (e *Engine) PoseChanged(id string, px, py, pz, fx, fy, fz, ux, uy, uz, t, dt float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return err
	}
	p.pose.SetTarget(pose.Vec3(px, py, pz), pose.Vec3(fx, fy, fz), pose.Vec3(ux, uy, uz), t, dt)
	return nil
}

// MuteStatusChanged fades the participant out or back in over the next
// ticks.
func (e *Engine) MuteStatusChanged(id string, muted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return err
	}
	p.fader.setMuted(muted)
	e.log.Debug("mute status changed", "participant", id, "muted", muted)
	return nil
}

// AttachMedia binds input, an *audio.Buffer or a source.LiveStream, to the
// participant through a new spatializer. A previous source is disposed
// first. Buffers are returned unplayed.
func (e *Engine) AttachMedia(id string, input any) (*source.Source, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return nil, err
	}

	if p.source != nil {
		p.source.Dispose()
		p.source, p.detector = nil, nil
	}

	sp, err := e.listener.NewSpatializer()
	if err != nil {
		return nil, err
	}
	sp.SetAudioProperties(p.props)

	src, err := source.New(e.ctx, sp, input,
		source.WithLogger(e.log.With("participant", id)),
		source.WithAnalyser(e.cfg.Analyser.FFTSize, e.cfg.Analyser.Smoothing))
	if err != nil {
		sp.Dispose()
		return nil, fmt.Errorf("participant %q: %w", id, err)
	}
	src.SetGain(p.fader.gain())

	det := activity.NewDetector(id, src.Analyser(), e.ctx.SampleRate())
	det.OnChange(func(id string, active bool) {
		// runs inside Tick with e.mu held
		e.events = append(e.events, activityEvent{id, active})
	})

	p.source, p.detector = src, det
	e.log.Debug("media attached", "participant", id, "live", src.Live())
	return src, nil
}

// SetLocalPosition moves the local listener immediately, keeping its
// orientation. t is application clock milliseconds.
func (e *Engine) SetLocalPosition(x, y, z, t float64) {
	e.local.SetTargetPosition(pose.Vec3(x, y, z), t, 0)
}

// SetLocalPose moves the local listener over dt milliseconds.
func (e *Engine) SetLocalPose(p pose.Pose, t, dt float64) {
	e.local.SetTarget(p.Position, p.Forward, p.Up, t, dt)
}

func (e *Engine) LocalPose() pose.Pose { return e.local.Current() }

// Pose returns the participant's pose as of the last Tick.
func (e *Engine) Pose(id string) (pose.Pose, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return pose.Pose{}, err
	}
	return p.pose.Current(), nil
}

// Active reports whether the participant is currently speaking.
func (e *Engine) Active(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return false, err
	}
	return p.detector != nil && p.detector.Active(), nil
}

// SetAudioProperties tunes the participant's distance falloff. It also
// applies to media attached later.
func (e *Engine) SetAudioProperties(id string, props spatial.AudioProperties) error {
	if err := props.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.lookupLocked(id)
	if err != nil {
		return err
	}
	p.props = props
	if p.source != nil {
		if sp := p.source.Spatializer(); sp != nil {
			sp.SetAudioProperties(props)
		}
	}
	return nil
}

// SetOffset shifts every remote participant by a standing comfort offset.
func (e *Engine) SetOffset(x, y, z float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.offset = pose.Vec3(x, y, z)
	for _, p := range e.participants {
		p.pose.SetOffset(e.offset)
	}
}

// OnActivityChanged registers fn for speaking transitions. fn runs on the
// goroutine calling Tick, after the engine lock is released.
func (e *Engine) OnActivityChanged(fn activity.ChangeFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onActivity = append(e.onActivity, fn)
}

// Participants returns the joined ids in order.
func (e *Engine) Participants() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.participants))
	for id := range e.participants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// PlaySound plays buf once on the non-spatialized bus.
func (e *Engine) PlaySound(buf *audio.Buffer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrClosed
	}

	bs := graph.NewBufferSource(e.ctx, buf)
	if err := bs.Connect(e.listener.Destination().NonSpatialized()); err != nil {
		return fmt.Errorf("playing sound: %w", err)
	}
	bs.OnEnded(func() { e.releaseSound(bs) })
	if err := bs.Start(e.ctx.CurrentTime()); err != nil {
		bs.DisconnectAll()
		return err
	}
	e.sounds[bs] = struct{}{}
	return nil
}

func (e *Engine) releaseSound(bs *graph.BufferSource) {
	e.mu.Lock()
	_, ok := e.sounds[bs]
	delete(e.sounds, bs)
	e.mu.Unlock()

	if ok {
		bs.DisconnectAll()
	}
}

// Tick advances the call to application time now, in milliseconds. For
// every participant the pose is interpolated before it is pushed to the
// spatializer, which is keyed to the audio clock.
func (e *Engine) Tick(now float64) {
	start := time.Now()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}

	t := e.ctx.CurrentTime()
	e.listener.Update(e.local.Update(now), t)

	for _, p := range e.participants {
		current := p.pose.Update(now)
		gain, moving := p.fader.step()
		if p.source == nil {
			continue
		}

		if sp := p.source.Spatializer(); sp != nil {
			sp.Update(current, t)
		}
		if p.source.Tick() {
			e.metrics.LiveStreamAttached()
			e.log.Debug("live stream active", "participant", p.id)
		}
		if moving {
			p.source.SetGain(gain)
		}
		p.detector.Tick()
	}

	events := e.events
	e.events = nil
	callbacks := e.onActivity
	e.mu.Unlock()

	for _, ev := range events {
		e.metrics.ActivityChanged(ev.active)
		e.log.Debug("activity changed", "participant", ev.id, "active", ev.active)
		for _, fn := range callbacks {
			fn(ev.id, ev.active)
		}
	}
	e.metrics.ObserveTick(time.Since(start))
}

// Close disposes every participant, pending sound and the listener.
// Calling it again does nothing.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	participants := e.participants
	sounds := e.sounds
	e.participants = make(map[string]*participant)
	e.sounds = make(map[*graph.BufferSource]struct{})
	e.mu.Unlock()

	for _, p := range participants {
		if p.source != nil {
			p.source.Dispose()
		}
	}
	for bs := range sounds {
		bs.Stop()
		bs.DisconnectAll()
	}
	e.listener.Dispose()

	e.metrics.SetParticipants(0)
	e.log.Info("engine closed")
	return nil
}
