package electrical

import (
	"fmt"
	"math"

	"pv_sizer/internal/model"
)

// maxSuggestUnits caps how many inverter units the auto-fix search will
// propose before declaring a model infeasible.
const maxSuggestUnits = 10

// Suggestion is a feasible alternative inverter selection found by the
// auto-fix search.
type Suggestion struct {
	Inverter     model.InverterSpec `json:"inverter"`
	Count        int                `json:"count"`
	Reason       string             `json:"reason"`
	Verification Verification       `json:"verification"`
}

// SuggestFix treats the inverter selection as a free variable: it first tries
// scaling the quantity of the currently selected model, then scans the
// catalog for alternatives, preferring fewer total units. Returns nil when
// the current selection is already valid or when nothing in the catalog
// works.
func SuggestFix(p model.Project, catalog *model.Catalog) *Suggestion {
	current := Verify(p.Segments, p.Panel, p.Inverter, p.InverterCount)
	if current.Valid {
		return nil
	}

	// Stage 1: more (or fewer) units of the selected model.
	for n := 1; n <= maxSuggestUnits; n++ {
		if n == p.InverterCount {
			continue
		}
		if v := Verify(p.Segments, p.Panel, p.Inverter, n); v.Valid {
			return &Suggestion{
				Inverter:     p.Inverter,
				Count:        n,
				Reason:       fmt.Sprintf("use %d unit(s) of the selected %s", n, p.Inverter.Model),
				Verification: v,
			}
		}
	}

	if catalog == nil {
		return nil
	}

	// Stage 2: scan the catalog. Skip models whose DC window cannot hold
	// even a minimal string, then search unit counts upward from the
	// power-matched estimate.
	dcKW := p.InstalledDCPowerKW()
	var best *Suggestion
	for _, inv := range catalog.Inverters {
		if inv.Model == p.Inverter.Model {
			continue
		}
		if inv.MaxDCVoltageV < VocCold(p.Panel) {
			continue
		}

		startCount := 1
		if inv.RatedPowerKW > 0 {
			startCount = int(math.Ceil(dcKW / (inv.RatedPowerKW * dcacIdealMax)))
			if startCount < 1 {
				startCount = 1
			}
		}
		for n := startCount; n <= maxSuggestUnits; n++ {
			v := Verify(p.Segments, p.Panel, inv, n)
			if !v.Valid {
				continue
			}
			if best == nil || n < best.Count {
				best = &Suggestion{
					Inverter:     inv,
					Count:        n,
					Reason:       fmt.Sprintf("replace %s with %d unit(s) of %s", p.Inverter.Model, n, inv.Model),
					Verification: v,
				}
			}
			break
		}
	}
	return best
}
