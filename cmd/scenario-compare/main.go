package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/load"
	"pv_sizer/internal/model"
	"pv_sizer/internal/simulator"
)

// scenario is one point of the sweep grid.
type scenario struct {
	panels      int
	batteryKWh  float64
	batterySpec *model.BatterySpec
	batteryQty  int
}

type result struct {
	scenario
	sim simulator.Result
}

func main() {
	lat := flag.Float64("lat", 38.72, "site latitude in degrees")
	tilt := flag.Float64("tilt", 30, "segment tilt in degrees")
	azimuth := flag.Float64("azimuth", 0, "segment azimuth (0=south)")
	rowSpacing := flag.Float64("row-spacing", 1.5, "clear gap between rows in meters")
	panelModel := flag.String("panel", "HS-400M", "panel catalog model")
	inverterModel := flag.String("inverter", "VT-3000S", "inverter catalog model")
	inverterCount := flag.Int("inverter-count", 1, "inverter unit count")
	batteryModel := flag.String("battery", "CX-5", "battery catalog model for the sweep")
	annualLoad := flag.Float64("annual-load", 6500, "annual consumption in kWh")
	panelsFlag := flag.String("panel-counts", "8,10,12,14,16", "comma-separated panel counts")
	battFlag := flag.String("battery-units", "0,1,2", "comma-separated battery unit counts")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel simulation workers")
	flag.Parse()

	catalog := model.SampleCatalog()
	panel, ok := catalog.PanelByModel(*panelModel)
	if !ok {
		log.Fatalf("Unknown panel model %q", *panelModel)
	}
	inverter, ok := catalog.InverterByModel(*inverterModel)
	if !ok {
		log.Fatalf("Unknown inverter model %q", *inverterModel)
	}
	battery, ok := catalog.BatteryByModel(*batteryModel)
	if !ok {
		log.Fatalf("Unknown battery model %q", *batteryModel)
	}

	panelCounts, err := parseInts(*panelsFlag)
	if err != nil {
		log.Fatalf("Invalid panel counts %q: %v", *panelsFlag, err)
	}
	batteryUnits, err := parseInts(*battFlag)
	if err != nil {
		log.Fatalf("Invalid battery units %q: %v", *battFlag, err)
	}

	// Shared read-only inputs; every run works on its own state, so the
	// fan-out needs no locking.
	clim := climate.Synthesize(*lat)
	curve, err := load.Resolve(load.Profile{AnnualKWh: *annualLoad})
	if err != nil {
		log.Fatalf("Resolving load curve: %v", err)
	}

	var scenarios []scenario
	for _, pc := range panelCounts {
		for _, bu := range batteryUnits {
			s := scenario{panels: pc}
			if bu > 0 {
				s.batterySpec = &battery
				s.batteryQty = bu
				s.batteryKWh = battery.CapacityKWh * float64(bu)
			}
			scenarios = append(scenarios, s)
		}
	}

	jobs := make(chan scenario, len(scenarios))
	out := make(chan result, len(scenarios))

	var wg sync.WaitGroup
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range jobs {
				segments := []model.RoofSegment{{
					TiltDeg:     *tilt,
					AzimuthDeg:  *azimuth,
					PanelCount:  s.panels,
					RowSpacingM: *rowSpacing,
				}}
				sim := simulator.SimulateYear(segments, panel, inverter, *inverterCount,
					s.batterySpec, s.batteryQty, clim, curve)
				out <- result{scenario: s, sim: sim}
			}
		}()
	}

	for _, s := range scenarios {
		jobs <- s
	}
	close(jobs)
	wg.Wait()
	close(out)

	results := make([]result, 0, len(scenarios))
	for r := range out {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].panels != results[j].panels {
			return results[i].panels < results[j].panels
		}
		return results[i].batteryKWh < results[j].batteryKWh
	})

	fmt.Println("Panels  Battery   Production  Import    Export    Self-cons  Autonomy")
	for _, r := range results {
		fmt.Printf("%-7d %5.1f kWh %7.0f kWh %5.0f kWh %5.0f kWh %8.1f%% %8.1f%%\n",
			r.panels, r.batteryKWh,
			r.sim.ProductionKWh, r.sim.GridImportKWh, r.sim.GridExportKWh,
			r.sim.SelfConsumptionRatio*100, r.sim.AutonomyRatio*100)
	}
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
