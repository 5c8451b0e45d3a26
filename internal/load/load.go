package load

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Hours is the length of a yearly hourly load curve.
const Hours = 365 * 24

// Profile describes how to obtain a load curve. When FromFile is set it is
// used as-is (scaled to AnnualKWh when that is also set); otherwise a curve
// is synthesized from the base/peak shape parameters.
type Profile struct {
	BaseKW    float64   `json:"base_kw"`
	PeakKW    float64   `json:"peak_kw"`
	AnnualKWh float64   `json:"annual_kwh"`
	FromFile  []float64 `json:"-"`
}

// Resolve turns a profile into a concrete 8760-hour curve in kW. This is the
// single validation point for imported curves: the simulator downstream
// assumes a well-formed fixed-length series.
func Resolve(p Profile) ([]float64, error) {
	if len(p.FromFile) > 0 {
		if len(p.FromFile) != Hours {
			return nil, fmt.Errorf("imported load curve has %d entries, want %d", len(p.FromFile), Hours)
		}
		curve := make([]float64, Hours)
		copy(curve, p.FromFile)
		if p.AnnualKWh > 0 {
			scaleToAnnual(curve, p.AnnualKWh)
		}
		return curve, nil
	}
	return Synthesize(p), nil
}

// Synthesize builds an hourly load curve with weekday/weekend day-type
// shaping: a morning ramp, an evening peak and a mild winter uplift. When
// AnnualKWh is set the curve is scaled so its yearly sum matches exactly
// (each hourly kW value over one hour is one kWh).
func Synthesize(p Profile) []float64 {
	base, peak := p.BaseKW, p.PeakKW
	if peak <= base {
		base, peak = 0.2, 1.0 // shape defaults; magnitude comes from scaling
	}

	curve := make([]float64, Hours)
	for i := range curve {
		day := i / 24
		h := float64(i % 24)
		weekend := day%7 >= 5

		shape := 0.1
		if weekend {
			shape += 0.5 * bell(h, 13, 4.0)
		} else {
			shape += 0.45 * bell(h, 8, 1.8)
		}
		shape += 0.9 * bell(h, 20, 2.4)
		if shape > 1 {
			shape = 1
		}

		// Winter evenings run heavier than summer ones.
		seasonal := 1 + 0.15*math.Cos(2*math.Pi*float64(day-15)/365)
		curve[i] = (base + (peak-base)*shape) * seasonal
	}

	if p.AnnualKWh > 0 {
		scaleToAnnual(curve, p.AnnualKWh)
	}
	return curve
}

func scaleToAnnual(curve []float64, annualKWh float64) {
	sum := floats.Sum(curve)
	if sum <= 0 {
		return
	}
	floats.Scale(annualKWh/sum, curve)
}

func bell(h, center, width float64) float64 {
	d := h - center
	return math.Exp(-d * d / (2 * width * width))
}
