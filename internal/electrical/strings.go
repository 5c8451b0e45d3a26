package electrical

import (
	"fmt"
	"math"

	"pv_sizer/internal/model"
)

// Worst-case design temperatures for string voltage checks.
const (
	coldAmbientC = -10.0
	hotCellC     = 70.0
	stcTempC     = 25.0
)

// DC/AC ratio advisory band.
const (
	dcacIdealMin   = 0.7
	dcacIdealMax   = 1.4
	dcacUndersized = 1.3
)

// StringConfig is one active MPPT input: parallel strings of series panels,
// with the derived electrical operating point.
type StringConfig struct {
	Inverter        int     `json:"inverter"` // 1-based unit index
	MPPT            int     `json:"mppt"`     // 1-based input index
	Strings         int     `json:"strings"`
	PanelsPerString int     `json:"panels_per_string"`
	VocV            float64 `json:"voc_v"` // at worst-case cold
	VmpV            float64 `json:"vmp_v"` // at STC
	IscA            float64 `json:"isc_a"` // all strings combined
	ImpA            float64 `json:"imp_a"`
	PowerW          float64 `json:"power_w"`
}

// Verification is the outcome of the wiring check: hard errors block
// simulation, warnings are advisory.
type Verification struct {
	Valid      bool           `json:"valid"`
	Errors     []string       `json:"errors"`
	Warnings   []string       `json:"warnings"`
	Strings    []StringConfig `json:"strings"`
	DCACRatio  float64        `json:"dc_ac_ratio"`
	Unassigned int            `json:"unassigned_panels"`
	Cable      CableSizing    `json:"cable"`
}

// VocCold is the string-design open-circuit voltage of one panel at the
// worst-case cold ambient. Voc rises as temperature falls.
func VocCold(p model.PanelSpec) float64 {
	return p.VocV * (1 + math.Abs(p.TempCoeffVocPct)/100*(stcTempC-coldAmbientC))
}

// VmpHot is the max-power voltage of one panel at the worst-case hot cell
// temperature. Vmp sags with heat, which sets the minimum series length.
func VmpHot(p model.PanelSpec) float64 {
	return p.VmpV * (1 - math.Abs(p.TempCoeffVocPct)/100*(hotCellC-stcTempC))
}

// Verify partitions the project's panels into series/parallel strings per
// MPPT input and checks every voltage and current limit. Infeasibility is
// reported as data, never as an error value.
func Verify(segments []model.RoofSegment, panel model.PanelSpec, inverter model.InverterSpec, inverterCount int) Verification {
	v := Verification{}

	totalPanels := 0
	for _, s := range segments {
		totalPanels += s.PanelCount
	}

	if panel.PowerW <= 0 || inverter.RatedPowerKW <= 0 {
		v.Errors = append(v.Errors, "no equipment selected")
		return v
	}
	if panel.VocV <= 0 || panel.VmpV <= 0 || panel.IscA <= 0 {
		v.Errors = append(v.Errors, "panel electrical ratings are incomplete")
		return v
	}
	if totalPanels == 0 {
		v.Errors = append(v.Errors, "no panels placed on any roof segment")
		return v
	}
	if inverterCount < 1 {
		v.Errors = append(v.Errors, "no inverter units configured")
		return v
	}

	if panel.IscA > inverter.MaxInputCurrentA {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"panel short-circuit current %.1f A exceeds inverter max input current %.1f A per MPPT",
			panel.IscA, inverter.MaxInputCurrentA))
		return v
	}

	vocCold := VocCold(panel)
	vmpHot := VmpHot(panel)

	maxSeries := int(inverter.MaxDCVoltageV / vocCold)
	minSeries := int(math.Ceil(inverter.MPPTMinV / vmpHot))
	if minSeries < 1 {
		minSeries = 1
	}
	maxParallel := int(inverter.MaxInputCurrentA / panel.IscA)

	if maxSeries < 1 {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"cold-weather Voc %.0f V of a single panel exceeds inverter max DC voltage %.0f V",
			vocCold, inverter.MaxDCVoltageV))
		return v
	}
	if minSeries > maxSeries {
		v.Errors = append(v.Errors, fmt.Sprintf(
			"MPPT voltage window cannot be met: need at least %d panels in series but at most %d fit under %.0f V",
			minSeries, maxSeries, inverter.MaxDCVoltageV))
		return v
	}

	mppts := inverter.MPPTInputs
	if mppts < 1 {
		mppts = 1
	}

	unassigned := 0
	for u, perUnit := range evenSplit(totalPanels, inverterCount) {
		for m, target := range evenSplit(perUnit, mppts) {
			if target == 0 {
				continue
			}
			numStrings, series, leftover := solveMPPT(target, minSeries, maxSeries, maxParallel)
			unassigned += leftover
			if numStrings == 0 {
				continue
			}
			v.Strings = append(v.Strings, StringConfig{
				Inverter:        u + 1,
				MPPT:            m + 1,
				Strings:         numStrings,
				PanelsPerString: series,
				VocV:            float64(series) * vocCold,
				VmpV:            float64(series) * panel.VmpV,
				IscA:            float64(numStrings) * panel.IscA,
				ImpA:            float64(numStrings) * panel.ImpA,
				PowerW:          float64(numStrings*series) * panel.PowerW,
			})
		}
	}

	if unassigned > 0 {
		v.Unassigned = unassigned
		v.Errors = append(v.Errors, fmt.Sprintf("%d panels could not be connected", unassigned))
	}

	// Defensive recheck of what the construction above should guarantee.
	maxStringsPerMPPT := 0
	assignedW := 0.0
	for _, sc := range v.Strings {
		if sc.VocV > inverter.MaxDCVoltageV+1e-9 {
			v.Errors = append(v.Errors, fmt.Sprintf(
				"string Voc %.0f V exceeds inverter max DC voltage %.0f V", sc.VocV, inverter.MaxDCVoltageV))
		}
		if sc.IscA > inverter.MaxInputCurrentA+1e-9 {
			v.Errors = append(v.Errors, fmt.Sprintf(
				"string Isc %.1f A exceeds inverter max input current %.1f A", sc.IscA, inverter.MaxInputCurrentA))
		}
		if float64(sc.PanelsPerString)*vmpHot < inverter.MPPTStartV {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"inverter %d MPPT %d: hot-weather string voltage %.0f V is marginal against the %.0f V startup threshold",
				sc.Inverter, sc.MPPT, float64(sc.PanelsPerString)*vmpHot, inverter.MPPTStartV))
		}
		if inverter.MPPTMaxV > 0 && sc.VmpV > inverter.MPPTMaxV {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"inverter %d MPPT %d: string Vmp %.0f V sits above the MPPT tracking window top %.0f V",
				sc.Inverter, sc.MPPT, sc.VmpV, inverter.MPPTMaxV))
		}
		if sc.Strings > maxStringsPerMPPT {
			maxStringsPerMPPT = sc.Strings
		}
		assignedW += sc.PowerW
	}

	acW := inverter.RatedPowerKW * float64(inverterCount) * 1000
	if acW > 0 {
		v.DCACRatio = assignedW / acW
	}
	switch {
	case v.DCACRatio > 0 && v.DCACRatio < dcacIdealMin:
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"DC/AC ratio %.2f below %.1f: inverter oversized for the array", v.DCACRatio, dcacIdealMin))
	case v.DCACRatio > dcacIdealMax:
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"DC/AC ratio %.2f above %.1f: heavy clipping expected", v.DCACRatio, dcacIdealMax))
	case v.DCACRatio > dcacUndersized:
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"DC/AC ratio %.2f above %.1f: inverter undersized", v.DCACRatio, dcacUndersized))
	}

	if len(v.Strings) > 0 {
		v.Cable = SizeDCCable(float64(maxStringsPerMPPT) * panel.IscA)
	}

	v.Valid = len(v.Errors) == 0
	return v
}

// solveMPPT finds the string layout for one MPPT input's panel target.
// Ascending numStrings scan biases toward fewer, longer strings; the order is
// kept as-is for parity with established sizing output even though it is not
// proven cost-optimal. Returns leftover panels when no exact layout exists.
func solveMPPT(target, minSeries, maxSeries, maxParallel int) (numStrings, series, leftover int) {
	for ns := 1; ns <= maxParallel; ns++ {
		if target%ns != 0 {
			continue
		}
		s := target / ns
		if s >= minSeries && s <= maxSeries {
			return ns, s, 0
		}
	}

	// No exact divisor: fill with the longest permitted series and report
	// the remainder as unconnectable.
	s := maxSeries
	ns := target / s
	if ns > maxParallel {
		ns = maxParallel
	}
	if ns == 0 {
		return 0, 0, target
	}
	return ns, s, target - ns*s
}

// evenSplit divides total into parts of near-equal size (±1), larger parts
// first.
func evenSplit(total, parts int) []int {
	out := make([]int, parts)
	if parts == 0 {
		return out
	}
	base := total / parts
	rem := total % parts
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}
