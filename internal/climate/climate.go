package climate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"pv_sizer/internal/solar"
)

// Hours is the length of every hourly series: a 365-day year.
// Index i maps to day i/24 (0-based) and hour-of-day i%24.
const Hours = 365 * 24

// Clear-sky and weather-shaping constants for the synthetic generator.
const (
	solarConstant = 1353.0 // W/m² extraterrestrial
	maxAirMass    = 10.0
	diffuseUplift = 1.1 // clear-sky GHI gets ~10% diffuse on top of the beam

	cloudBase      = 0.82 // mean atmospheric transmission
	cloudAmplitude = 0.10 // summer clearer, winter duller

	diurnalTempSwing = 4.0  // °C around the daily mean, peaking at 14:00
	seasonalSwing    = 7.5  // °C around the annual mean, peaking in late July
	summerPeakDay    = 203  // day of warmest seasonal temperature
	clearestDay      = 172  // summer solstice, clearest sky
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Record holds one year of aligned hourly weather series plus monthly
// aggregates. All three series have length Hours.
type Record struct {
	Latitude float64   `json:"latitude"`
	TempC    []float64 `json:"temp_c"`
	GHI      []float64 `json:"ghi_wm2"`
	Humidity []float64 `json:"humidity_pct"`

	MonthlyGHIKWhM2 [12]float64 `json:"monthly_ghi_kwh_m2"`
	MonthlyAvgTempC [12]float64 `json:"monthly_avg_temp_c"`
}

// Synthesize builds a deterministic year of hourly weather for a latitude:
// clear-sky irradiance from air-mass attenuation, a seasonal cloud factor,
// and seasonal plus diurnal temperature sinusoids. No randomness is used, so
// identical inputs always produce identical records.
func Synthesize(latDeg float64) *Record {
	r := &Record{
		Latitude: latDeg,
		TempC:    make([]float64, Hours),
		GHI:      make([]float64, Hours),
		Humidity: make([]float64, Hours),
	}

	annualMeanTemp := 28.0 - 0.3*math.Abs(latDeg)
	seasonSign := 1.0
	if latDeg < 0 {
		seasonSign = -1.0 // southern hemisphere seasons flip
	}

	for i := 0; i < Hours; i++ {
		day := i/24 + 1
		hour := float64(i % 24)

		season := math.Cos(2 * math.Pi * float64(day-summerPeakDay) / 365.0)
		clearness := math.Cos(2 * math.Pi * float64(day-clearestDay) / 365.0)

		elev, _ := solar.SunPosition(latDeg, day, hour)
		if elev > 0 {
			sinElev := math.Sin(elev * math.Pi / 180)
			airMass := 1 / sinElev
			if airMass > maxAirMass {
				airMass = maxAirMass
			}
			dni := solarConstant * math.Pow(0.7, math.Pow(airMass, 0.678))
			clearSky := dni * sinElev * diffuseUplift
			cloud := cloudBase + cloudAmplitude*seasonSign*clearness
			r.GHI[i] = clearSky * cloud
		}

		temp := annualMeanTemp +
			seasonalSwing*seasonSign*season -
			diurnalTempSwing*math.Cos(2*math.Pi*(hour-14)/24)
		r.TempC[i] = temp
		r.Humidity[i] = clampPct(85 - 1.8*(temp-10))
	}

	r.computeAggregates()
	return r
}

// computeAggregates fills the monthly GHI sums and temperature means.
func (r *Record) computeAggregates() {
	start := 0
	for m, days := range monthDays {
		end := start + days*24
		r.MonthlyGHIKWhM2[m] = floats.Sum(r.GHI[start:end]) / 1000
		r.MonthlyAvgTempC[m] = stat.Mean(r.TempC[start:end], nil)
		start = end
	}
}

// AnnualGHIKWhM2 is the year total of global horizontal irradiation.
func (r *Record) AnnualGHIKWhM2() float64 {
	return floats.Sum(r.GHI) / 1000
}

func clampPct(v float64) float64 {
	if v < 15 {
		return 15
	}
	if v > 100 {
		return 100
	}
	return v
}
