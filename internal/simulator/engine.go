package simulator

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/model"
	"pv_sizer/internal/solar"
)

// Hours is the number of simulation steps in a yearly run.
const Hours = 365 * 24

// Fixed derate policy of the production model.
const (
	// SystemLossFactor covers cabling and inverter conversion losses.
	SystemLossFactor = 0.92
	// TempDerateCoeff is the fractional power loss per °C of cell
	// temperature above 25 °C.
	TempDerateCoeff = 0.004
	// cellTempRise approximates NOCT behavior: °C of cell heating per
	// W/m² of incident irradiance.
	cellTempRise = 0.03
)

// Result is the full outcome of a yearly run: hourly series, annual totals
// and the two summary ratios. All hourly slices have length Hours.
type Result struct {
	ProductionKW  []float64 `json:"production_kw"`
	LoadKW        []float64 `json:"load_kw"`
	GridImportKW  []float64 `json:"grid_import_kw"`
	GridExportKW  []float64 `json:"grid_export_kw"`
	BatterySoC    []float64 `json:"battery_soc_pct"`
	DirectUseKW   []float64 `json:"direct_use_kw"`
	FromBatteryKW []float64 `json:"from_battery_kw"`
	// BatteryFlowKW is the AC-side battery exchange: positive while
	// charging, negative while discharging. Production + Import ==
	// Load + Export + BatteryFlow holds for every hour.
	BatteryFlowKW []float64 `json:"battery_flow_kw"`

	ProductionKWh   float64 `json:"production_kwh"`
	PotentialKWh    float64 `json:"potential_kwh"` // unshaded, unclipped
	LoadKWh         float64 `json:"load_kwh"`
	GridImportKWh   float64 `json:"grid_import_kwh"`
	GridExportKWh   float64 `json:"grid_export_kwh"`
	DirectUseKWh    float64 `json:"direct_use_kwh"`
	FromBatteryKWh  float64 `json:"from_battery_kwh"`
	ShadingLossKWh  float64 `json:"shading_loss_kwh"`
	ClippingLossKWh float64 `json:"clipping_loss_kwh"`

	SelfConsumptionRatio float64 `json:"self_consumption_ratio"`
	AutonomyRatio        float64 `json:"autonomy_ratio"`
}

func newResult() Result {
	return Result{
		ProductionKW:  make([]float64, Hours),
		LoadKW:        make([]float64, Hours),
		GridImportKW:  make([]float64, Hours),
		GridExportKW:  make([]float64, Hours),
		BatterySoC:    make([]float64, Hours),
		DirectUseKW:   make([]float64, Hours),
		FromBatteryKW: make([]float64, Hours),
		BatteryFlowKW: make([]float64, Hours),
	}
}

// SimulateYear runs the 8760-step energy balance for one scenario. The
// dispatch policy maximizes self-consumption: the battery absorbs surplus
// before anything is exported and covers deficit before anything is imported.
// Physically impossible configurations (zero panels, zero inverters) produce
// zero-filled series rather than an error; rejecting bad equipment
// combinations is the electrical verification's job.
func SimulateYear(
	segments []model.RoofSegment,
	panel model.PanelSpec,
	inverter model.InverterSpec,
	inverterCount int,
	battery *model.BatterySpec,
	batteryCount int,
	clim *climate.Record,
	loadCurve []float64,
) Result {
	res := newResult()

	acCapKW := inverter.RatedPowerKW * float64(inverterCount)

	var capKWh, maxPowerKW, chargeEff float64
	if battery != nil && batteryCount > 0 {
		capKWh = battery.CapacityKWh * float64(batteryCount)
		maxPowerKW = battery.MaxPowerKW * float64(batteryCount)
		chargeEff = battery.RoundTripEfficiency
		if chargeEff <= 0 || chargeEff > 1 {
			chargeEff = 1
		}
	}

	storedKWh := 0.0

	for i := 0; i < Hours; i++ {
		day := i/24 + 1
		hour := float64(i % 24)

		elev, az := solar.SunPosition(clim.Latitude, day, hour)

		var dcKW, potentialKW float64
		for _, seg := range segments {
			if seg.PanelCount <= 0 {
				continue
			}
			incident := solar.IncidentRadiation(clim.GHI[i], elev, az, seg.TiltDeg, seg.AzimuthDeg)
			if incident <= 0 {
				continue
			}

			cellTemp := clim.TempC[i] + incident*cellTempRise
			derate := 1 - math.Max(0, (cellTemp-25)*TempDerateCoeff)
			if derate < 0 {
				derate = 0
			}

			segKWp := float64(seg.PanelCount) * panel.PowerW / 1000
			raw := segKWp * incident / 1000 * derate * SystemLossFactor

			shade := solar.ShadingFactor(clim.Latitude, day, hour, seg, panel.HeightM)
			loss := math.Min(1, shade*solar.MismatchFactor)

			potentialKW += raw
			dcKW += raw * (1 - loss)
		}

		res.PotentialKWh += potentialKW
		res.ShadingLossKWh += potentialKW - dcKW

		prodKW := dcKW
		if prodKW > acCapKW {
			res.ClippingLossKWh += prodKW - acCapKW
			prodKW = acCapKW
		}

		loadKW := loadCurve[i]
		var direct, fromBattery, imp, exp, flow float64

		if prodKW >= loadKW {
			direct = loadKW
			surplus := prodKW - loadKW
			if capKWh > 0 && storedKWh < capKWh {
				charge := math.Min(surplus, math.Min(maxPowerKW, capKWh-storedKWh))
				storedKWh = math.Min(capKWh, storedKWh+charge*chargeEff)
				surplus -= charge
				flow = charge
			}
			exp = surplus
		} else {
			direct = prodKW
			deficit := loadKW - prodKW
			if capKWh > 0 && storedKWh > 0 {
				discharge := math.Min(deficit, math.Min(maxPowerKW, storedKWh))
				storedKWh -= discharge
				deficit -= discharge
				fromBattery = discharge
				flow = -discharge
			}
			imp = deficit
		}

		res.ProductionKW[i] = prodKW
		res.LoadKW[i] = loadKW
		res.GridImportKW[i] = imp
		res.GridExportKW[i] = exp
		res.DirectUseKW[i] = direct
		res.FromBatteryKW[i] = fromBattery
		res.BatteryFlowKW[i] = flow
		if capKWh > 0 {
			res.BatterySoC[i] = storedKWh / capKWh * 100
		}
	}

	res.ProductionKWh = floats.Sum(res.ProductionKW)
	res.LoadKWh = floats.Sum(res.LoadKW)
	res.GridImportKWh = floats.Sum(res.GridImportKW)
	res.GridExportKWh = floats.Sum(res.GridExportKW)
	res.DirectUseKWh = floats.Sum(res.DirectUseKW)
	res.FromBatteryKWh = floats.Sum(res.FromBatteryKW)

	if res.ProductionKWh > 0 {
		res.SelfConsumptionRatio = (res.ProductionKWh - res.GridExportKWh) / res.ProductionKWh
	}
	if res.LoadKWh > 0 {
		res.AutonomyRatio = (res.LoadKWh - res.GridImportKWh) / res.LoadKWh
	}
	return res
}

// MonthlyProductionKWh sums hourly production per calendar month.
func (r *Result) MonthlyProductionKWh() [12]float64 {
	var out [12]float64
	monthDays := [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	start := 0
	for m, days := range monthDays {
		end := start + days*24
		out[m] = floats.Sum(r.ProductionKW[start:end])
		start = end
	}
	return out
}
