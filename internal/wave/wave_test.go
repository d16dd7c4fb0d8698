package wave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/wavebench/internal/grid"
)

func unitParams() Params {
	return Params{
		Grid:       grid.Dims{Length: 4, Width: 1, NLength: 4, NWidth: 1},
		Wavelength: 1,
		DutyCycle:  1,
	}
}

func TestNewFuncConstants(t *testing.T) {
	require.NoError(t, unitParams().Validate())
	f := NewFunc(unitParams())

	assert.InDelta(t, math.Pi/2, f.Number(), 1e-12)
	assert.InDelta(t, 4.0, f.Period(), 1e-12)
	assert.InDelta(t, 4.0, f.FullPeriod(), 1e-12)
	assert.InDelta(t, 0.4, f.Velocity(), 1e-12)
}

func TestFullPeriodNotShorterThanPeriod(t *testing.T) {
	for _, duty := range []float64{0.05, 0.25, 0.5, 0.99, 1} {
		p := unitParams()
		p.DutyCycle = duty
		f := NewFunc(p)
		assert.GreaterOrEqual(t, f.FullPeriod(), f.Period(), "duty %g", duty)
		assert.Greater(t, f.Period(), 0.0)
	}
}

func TestFuncAtProfile(t *testing.T) {
	f := NewFunc(unitParams())

	want := []float64{0, 0.2, 0, -0.2, 0}
	for n, w := range want {
		assert.InDelta(t, w, f.At(float64(n)), 1e-12, "x=%d", n)
	}
}

func TestFuncAtNegativeInput(t *testing.T) {
	f := NewFunc(unitParams())
	// -1 wraps to 3 within [0, 4).
	assert.InDelta(t, -0.2, f.At(-1), 1e-12)
}

func TestFuncPeriodicity(t *testing.T) {
	p := unitParams()
	p.Wavelength = 0.3
	p.DutyCycle = 0.4
	f := NewFunc(p)

	for _, x := range []float64{-7.3, -1, 0, 0.25, 0.5, 1.1, 2.9, 13.37} {
		for _, k := range []int{-3, -1, 1, 2, 5} {
			got := f.At(x + float64(k)*f.FullPeriod())
			assert.InDelta(t, f.At(x), got, 1e-9, "x=%g k=%d", x, k)
		}
	}
}

func TestFuncDutyCycleFlatRegion(t *testing.T) {
	p := unitParams()
	p.DutyCycle = 0.5
	f := NewFunc(p)

	// Packet occupies [0, 4], the gap (4, 8).
	assert.Equal(t, 0.0, f.At(5))
	assert.Equal(t, 0.0, f.At(7.9))
	assert.InDelta(t, 0.2, f.At(1), 1e-12)
	assert.InDelta(t, 0.2, f.At(9), 1e-12)
}

func TestFuncFullDutyNeverFlat(t *testing.T) {
	f := NewFunc(unitParams())

	// With duty cycle 1 the only zeros are those of the sine itself.
	for i := 1; i < 400; i++ {
		x := float64(i) * 0.01
		if math.Mod(x, 2) < 1e-9 {
			continue
		}
		assert.NotEqual(t, 0.0, f.At(x), "x=%g", x)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		err    error
	}{
		{"valid", func(*Params) {}, nil},
		{"zero columns", func(p *Params) { p.Grid.NLength = 0 }, ErrInvalidGrid},
		{"zero rows", func(p *Params) { p.Grid.NWidth = 0 }, ErrInvalidGrid},
		{"zero wavelength", func(p *Params) { p.Wavelength = 0 }, ErrInvalidWave},
		{"nan wavelength", func(p *Params) { p.Wavelength = math.NaN() }, ErrInvalidWave},
		{"inf wavelength", func(p *Params) { p.Wavelength = math.Inf(1) }, ErrInvalidWave},
		{"zero duty", func(p *Params) { p.DutyCycle = 0 }, ErrInvalidWave},
		{"duty above one", func(p *Params) { p.DutyCycle = 1.5 }, ErrInvalidWave},
		{"denormal wavelength", func(p *Params) { p.Wavelength = 1e-320 }, ErrInvalidWave},
		{"inf grid length", func(p *Params) { p.Grid.Length = math.Inf(1) }, ErrInvalidGrid},
		{"nan grid width", func(p *Params) { p.Grid.Width = math.NaN() }, ErrInvalidGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := unitParams()
			tt.modify(&p)
			err := p.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestValidatedParamsGiveFiniteHeights(t *testing.T) {
	for _, wl := range []float64{1e-300, 1e-12, 0.0001, 0.3, 1, 1e6} {
		p := unitParams()
		p.Wavelength = wl
		if p.Validate() != nil {
			continue
		}
		f := NewFunc(p)
		for _, x := range []float64{0, 0.5, 1, 3.7} {
			h := f.At(x)
			assert.False(t, math.IsNaN(h) || math.IsInf(h, 0), "wavelength %g x=%g: %g", wl, x, h)
		}
	}
}

func TestFromUpdatePressure(t *testing.T) {
	wl, duty := FromUpdatePressure(0.5, 0.9)
	assert.InDelta(t, 0.5*(0.1+0.0001), wl, 1e-12)
	assert.Equal(t, 0.5, duty)

	wl, duty = FromUpdatePressure(1, 0)
	assert.InDelta(t, 1.0001, wl, 1e-12)
	assert.Equal(t, 1.0, duty)
}
