// Package wave animates a traveling sine packet over a grid mesh and keeps
// the mesh's vertex buffer in sync by uploading only the spans that moved.
package wave

import (
	"fmt"
	"math"

	"github.com/Faultbox/wavebench/internal/grid"
)

// Amplitude is the peak displacement of the wave packet.
const Amplitude = 0.2

// velocityFactor scales the grid length into the wave's travel speed per second.
const velocityFactor = 0.1

// Params configures a wave mesh.
type Params struct {
	Grid grid.Dims

	// Wavelength of the packet as a fraction of the grid length.
	Wavelength float64
	// DutyCycle is the fraction of each spatial period the packet occupies,
	// in (0, 1]. The rest of the period is flat.
	DutyCycle float64
}

// Validate checks that the parameters produce finite geometry.
func (p Params) Validate() error {
	if !p.Grid.Valid() {
		return fmt.Errorf("%w: %dx%d over %gx%g", ErrInvalidGrid,
			p.Grid.NLength, p.Grid.NWidth, p.Grid.Length, p.Grid.Width)
	}
	if !(p.Wavelength > 0) || math.IsInf(p.Wavelength, 0) {
		return fmt.Errorf("%w: wavelength %g", ErrInvalidWave, p.Wavelength)
	}
	if !(p.DutyCycle > 0 && p.DutyCycle <= 1) {
		return fmt.Errorf("%w: duty cycle %g", ErrInvalidWave, p.DutyCycle)
	}

	// A wavelength small enough to overflow the wave number collapses the
	// period to zero and every height to NaN.
	f := NewFunc(p)
	if !finitePositive(f.number) || !finitePositive(f.period) || !finitePositive(f.fullPeriod) {
		return fmt.Errorf("%w: wavelength %g gives wave number %g, period %g",
			ErrInvalidWave, p.Wavelength, f.number, f.period)
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// FromUpdatePressure derives wave geometry from the benchmark's update knobs.
// fraction is the share of the mesh length updated every frame and dispersion
// (0..1) spreads the updates by shortening the wavelength within the packet.
func FromUpdatePressure(fraction, dispersion float64) (wavelength, dutyCycle float64) {
	return fraction * (1.0 - dispersion + 0.0001), fraction
}

// Func is the displacement profile of a wave packet along the travel axis.
type Func struct {
	number     float64 // Angular wave number
	period     float64 // Spatial length of the sine packet
	fullPeriod float64 // Packet plus the flat gap after it
	velocity   float64
}

// NewFunc computes the wave constants for the given parameters.
// The parameters must be valid.
func NewFunc(p Params) Func {
	k := 2 * math.Pi / (p.Wavelength * p.Grid.Length)
	period := 2 * math.Pi / k
	return Func{
		number:     k,
		period:     period,
		fullPeriod: period / p.DutyCycle,
		velocity:   velocityFactor * p.Grid.Length,
	}
}

// Number returns the angular wave number.
func (f Func) Number() float64 { return f.number }

// Period returns the length of the sine packet.
func (f Func) Period() float64 { return f.period }

// FullPeriod returns the distance between the starts of two packets.
func (f Func) FullPeriod() float64 { return f.fullPeriod }

// Velocity returns the packet's travel speed in model units per second.
func (f Func) Velocity() float64 { return f.velocity }

// At returns the displacement at position x.
func (f Func) At(x float64) float64 {
	r := math.Mod(x, f.fullPeriod)
	if r < 0 {
		r += f.fullPeriod
	}

	if r > f.period {
		return 0
	}
	return Amplitude * math.Sin(f.number*r)
}
