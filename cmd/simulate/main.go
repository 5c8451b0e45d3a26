package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/electrical"
	"pv_sizer/internal/load"
	"pv_sizer/internal/model"
	"pv_sizer/internal/simulator"
	"pv_sizer/internal/solar"
)

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func main() {
	lat := flag.Float64("lat", 38.72, "site latitude in degrees")
	tilt := flag.Float64("tilt", 30, "segment tilt in degrees")
	azimuth := flag.Float64("azimuth", 0, "segment azimuth (0=south, negative=east)")
	panels := flag.Int("panels", 10, "panel count")
	rowSpacing := flag.Float64("row-spacing", 1.5, "clear gap between rows in meters")
	panelModel := flag.String("panel", "HS-400M", "panel catalog model")
	inverterModel := flag.String("inverter", "VT-3000S", "inverter catalog model")
	inverterCount := flag.Int("inverter-count", 1, "inverter unit count")
	batteryModel := flag.String("battery", "", "battery catalog model (empty: none)")
	batteryCount := flag.Int("battery-count", 1, "battery unit count")
	annualLoad := flag.Float64("annual-load", 6500, "annual consumption in kWh")
	catalogPath := flag.String("catalog", "", "JSON equipment catalog (empty: built-in sample)")
	climatePath := flag.String("climate", "", "hourly weather CSV (empty: synthesize)")
	flag.Parse()

	catalog := model.SampleCatalog()
	if *catalogPath != "" {
		var err error
		catalog, err = model.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("Loading catalog: %v", err)
		}
	}

	panel, ok := catalog.PanelByModel(*panelModel)
	if !ok {
		log.Fatalf("Unknown panel model %q", *panelModel)
	}
	inverter, ok := catalog.InverterByModel(*inverterModel)
	if !ok {
		log.Fatalf("Unknown inverter model %q", *inverterModel)
	}
	var battery *model.BatterySpec
	if *batteryModel != "" {
		b, ok := catalog.BatteryByModel(*batteryModel)
		if !ok {
			log.Fatalf("Unknown battery model %q", *batteryModel)
		}
		battery = &b
	}

	segments := []model.RoofSegment{{
		TiltDeg:     *tilt,
		AzimuthDeg:  *azimuth,
		PanelCount:  *panels,
		RowSpacingM: *rowSpacing,
	}}

	verification := electrical.Verify(segments, panel, inverter, *inverterCount)
	for _, e := range verification.Errors {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", e)
	}
	for _, w := range verification.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !verification.Valid {
		os.Exit(1)
	}

	var clim *climate.Record
	if *climatePath != "" {
		var err error
		clim, err = climate.LoadCSVFile(*climatePath, *lat)
		if err != nil {
			log.Fatalf("Loading weather file: %v", err)
		}
	} else {
		clim = climate.Synthesize(*lat)
	}

	curve, err := load.Resolve(load.Profile{AnnualKWh: *annualLoad})
	if err != nil {
		log.Fatalf("Resolving load curve: %v", err)
	}

	result := simulator.SimulateYear(segments, panel, inverter, *inverterCount,
		battery, *batteryCount, clim, curve)

	dcKW := float64(*panels) * panel.PowerW / 1000
	fmt.Printf("Array:            %d × %s (%.2f kWp), tilt %.0f°\n", *panels, panel.Model, dcKW, *tilt)
	fmt.Printf("Inverter:         %d × %s (%.1f kW AC)\n", *inverterCount, inverter.Model, inverter.RatedPowerKW*float64(*inverterCount))
	if battery != nil {
		fmt.Printf("Battery:          %d × %s (%.1f kWh)\n", *batteryCount, battery.Model, battery.CapacityKWh*float64(*batteryCount))
	}
	fmt.Printf("Recommended gap:  %.2f m between rows\n", solar.RecommendedRowSpacing(*lat, *tilt, *azimuth, panel.HeightM))
	fmt.Println()
	fmt.Printf("Annual production:  %8.0f kWh (%.0f kWh/kWp)\n", result.ProductionKWh, result.ProductionKWh/dcKW)
	fmt.Printf("Annual load:        %8.0f kWh\n", result.LoadKWh)
	fmt.Printf("Grid import:        %8.0f kWh\n", result.GridImportKWh)
	fmt.Printf("Grid export:        %8.0f kWh\n", result.GridExportKWh)
	fmt.Printf("Shading loss:       %8.0f kWh\n", result.ShadingLossKWh)
	fmt.Printf("Clipping loss:      %8.0f kWh\n", result.ClippingLossKWh)
	fmt.Printf("Self-consumption:   %7.1f %%\n", result.SelfConsumptionRatio*100)
	fmt.Printf("Autonomy:           %7.1f %%\n", result.AutonomyRatio*100)
	fmt.Println()

	monthly := result.MonthlyProductionKWh()
	fmt.Println("Month  Production (kWh)")
	for m, kwh := range monthly {
		fmt.Printf("%-6s %8.0f\n", monthNames[m], kwh)
	}
}
