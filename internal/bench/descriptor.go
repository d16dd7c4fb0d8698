// Package bench runs scene benchmarks and reports their results.
package bench

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Faultbox/wavebench/internal/scene"
)

// durationOption is handled by the runner rather than by the scene.
const durationOption = "duration"

// Setting is one name=value pair of a descriptor.
type Setting struct {
	Name  string
	Value string
}

// Descriptor names a scene and the option values to run it with, written
// as "scene:name=value:name=value".
type Descriptor struct {
	Scene    string
	Settings []Setting
}

// ParseDescriptor parses a "scene:name=value:..." string.
func ParseDescriptor(s string) (Descriptor, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Descriptor{}, ErrEmptyDescriptor
	}

	parts := strings.Split(s, ":")
	d := Descriptor{Scene: parts[0]}
	if d.Scene == "" {
		return Descriptor{}, fmt.Errorf("%w: %q has no scene name", ErrInvalidDescriptor, s)
	}

	for _, part := range parts[1:] {
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			return Descriptor{}, fmt.Errorf("%w: %q in %q is not name=value", ErrInvalidDescriptor, part, s)
		}
		d.Settings = append(d.Settings, Setting{Name: name, Value: value})
	}
	return d, nil
}

// String formats the descriptor back into its textual form.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(d.Scene)
	for _, s := range d.Settings {
		b.WriteByte(':')
		b.WriteString(s.Name)
		b.WriteByte('=')
		b.WriteString(s.Value)
	}
	return b.String()
}

// Duration returns the run length set by a "duration" setting, in seconds,
// or def when there is none.
func (d Descriptor) Duration(def time.Duration) (time.Duration, error) {
	for _, s := range d.Settings {
		if s.Name != durationOption {
			continue
		}
		secs, err := strconv.ParseFloat(s.Value, 64)
		if err != nil || secs <= 0 {
			return 0, fmt.Errorf("%w: duration=%q", ErrInvalidDescriptor, s.Value)
		}
		def = time.Duration(secs * float64(time.Second))
	}
	return def, nil
}

// Apply resets the scene options and sets the descriptor's values.
func (d Descriptor) Apply(s scene.Scene) error {
	s.ResetOptions()
	for _, o := range d.Settings {
		if o.Name == durationOption {
			continue
		}
		if err := s.SetOption(o.Name, o.Value); err != nil {
			return err
		}
	}
	return nil
}
