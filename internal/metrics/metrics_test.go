// SPDX-License-Identifier: EPL-2.0

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetParticipants(3)
	m.ActivityChanged(true)
	m.ActivityChanged(true)
	m.ActivityChanged(false)
	m.ObserveTick(time.Millisecond)
	m.SetSpatializer("volume")
	m.SetSpatializer("resonance")
	m.LiveStreamAttached()
	m.AddRenderedFrames(128)
	m.AddRenderedFrames(128)

	if got := testutil.ToFloat64(m.participants); got != 3 {
		t.Errorf("participants = %v, want 3", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("active")); got != 2 {
		t.Errorf("active transitions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("inactive")); got != 1 {
		t.Errorf("inactive transitions = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.spatializer); got != 1 {
		t.Errorf("spatializer series = %d, want 1", got)
	}
	if got := testutil.ToFloat64(m.spatializer.WithLabelValues("resonance")); got != 1 {
		t.Errorf("resonance info = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.liveAttached); got != 1 {
		t.Errorf("live attached = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.renderedFrame); got != 256 {
		t.Errorf("rendered frames = %v, want 256", got)
	}
	if got := testutil.CollectAndCount(m.tickDuration); got != 1 {
		t.Errorf("tick histogram series = %d, want 1", got)
	}

	n, err := testutil.GatherAndCount(reg)
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("nothing registered")
	}
}

func TestMetrics_Nil(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.SetParticipants(1)
	m.ActivityChanged(true)
	m.ObserveTick(time.Second)
	m.SetSpatializer("none")
	m.LiveStreamAttached()
	m.AddRenderedFrames(1)
}
