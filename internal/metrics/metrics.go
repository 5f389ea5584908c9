// SPDX-License-Identifier: EPL-2.0

// Package metrics holds the Prometheus collectors the engine updates.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "audspace"

type Metrics struct {
	participants  prometheus.Gauge
	transitions   *prometheus.CounterVec
	tickDuration  prometheus.Histogram
	spatializer   *prometheus.GaugeVec
	liveAttached  prometheus.Counter
	renderedFrame prometheus.Counter
}

// New creates the collectors and registers them with reg. reg may be nil,
// in which case the collectors exist but are not exported.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Number of remote participants currently in the call",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_transitions_total",
			Help:      "Voice activity changes, by new state",
		}, []string{"state"}), // state: active, inactive
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one engine tick",
			Buckets:   []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		spatializer: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spatializer_info",
			Help:      "Spatializer kind selected for the call",
		}, []string{"kind"}),
		liveAttached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "live_streams_attached_total",
			Help:      "Live streams that became active and were connected",
		}),
		renderedFrame: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rendered_frames_total",
			Help:      "Stereo frames rendered by the audio graph",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.participants, m.transitions, m.tickDuration,
			m.spatializer, m.liveAttached, m.renderedFrame)
	}
	return m
}

func (m *Metrics) SetParticipants(n int) {
	if m == nil {
		return
	}
	m.participants.Set(float64(n))
}

func (m *Metrics) ActivityChanged(active bool) {
	if m == nil {
		return
	}
	state := "inactive"
	if active {
		state = "active"
	}
	m.transitions.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.tickDuration.Observe(d.Seconds())
}

// SetSpatializer marks kind as the one in use.
func (m *Metrics) SetSpatializer(kind string) {
	if m == nil {
		return
	}
	m.spatializer.Reset()
	m.spatializer.WithLabelValues(kind).Set(1)
}

func (m *Metrics) LiveStreamAttached() {
	if m == nil {
		return
	}
	m.liveAttached.Inc()
}

func (m *Metrics) AddRenderedFrames(n int) {
	if m == nil {
		return
	}
	m.renderedFrame.Add(float64(n))
}
