// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/ik5/audspace/internal/audiotest"
)

type stubDecoder struct{ name string }

func (d *stubDecoder) Decode(io.Reader) (Source, error) {
	return audiotest.NewSilentSource(44100, 2, 100), nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	decoder := &stubDecoder{name: "wav"}
	registry.Register("WAV", decoder)

	got, ok := registry.Get("wav")
	if !ok {
		t.Fatal("Registry.Get() failed to retrieve registered decoder")
	}
	if got != decoder {
		t.Error("Registry.Get() returned different decoder instance")
	}

	if _, ok := registry.Get("flac"); ok {
		t.Error("Registry.Get() returned ok=true for non-existent format")
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("ogg", &stubDecoder{name: "ogg"})
	registry.Register("mp3", &stubDecoder{name: "mp3"})

	tests := []struct {
		path    string
		wantErr error
	}{
		{"voices/alice.ogg", nil},
		{"/tmp/ding.MP3", nil},
		{"noext", ErrUnknownFormat},
		{"clip.aac", ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := registry.ForPath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ForPath(%q) error = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}

	if got := registry.Formats(); !slices.Equal(got, []string{"mp3", "ogg"}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	done := make(chan struct{})
	for i := range 8 {
		go func() {
			defer func() { done <- struct{}{} }()
			name := string(rune('a' + i))
			registry.Register(name, &stubDecoder{name: name})
			registry.Get(name)
		}()
	}
	for range 8 {
		<-done
	}

	if n := len(registry.Formats()); n != 8 {
		t.Errorf("Formats() has %d entries, want 8", n)
	}
}
