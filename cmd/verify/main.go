package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pv_sizer/internal/electrical"
	"pv_sizer/internal/model"
)

func main() {
	tilt := flag.Float64("tilt", 30, "segment tilt in degrees")
	azimuth := flag.Float64("azimuth", 0, "segment azimuth (0=south, negative=east)")
	panels := flag.Int("panels", 10, "panel count")
	panelModel := flag.String("panel", "HS-400M", "panel catalog model")
	inverterModel := flag.String("inverter", "VT-3000S", "inverter catalog model")
	inverterCount := flag.Int("inverter-count", 1, "inverter unit count")
	suggest := flag.Bool("suggest", false, "search the catalog for a fix when invalid")
	catalogPath := flag.String("catalog", "", "JSON equipment catalog (empty: built-in sample)")
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

	segments := []model.RoofSegment{{
		TiltDeg:    *tilt,
		AzimuthDeg: *azimuth,
		PanelCount: *panels,
	}}

	v := electrical.Verify(segments, panel, inverter, *inverterCount)

	fmt.Printf("Panel:    %s (Voc %.1f V cold: %.1f V, Isc %.1f A)\n",
		panel.Model, panel.VocV, electrical.VocCold(panel), panel.IscA)
	fmt.Printf("Inverter: %d × %s (max DC %.0f V, %.0f A per MPPT, %d MPPTs)\n",
		*inverterCount, inverter.Model, inverter.MaxDCVoltageV, inverter.MaxInputCurrentA, inverter.MPPTInputs)
	fmt.Println()

	if len(v.Strings) > 0 {
		fmt.Println("Inv  MPPT  Strings  Panels/str  Voc(cold)  Isc     Power")
		for _, sc := range v.Strings {
			fmt.Printf("%-4d %-5d %-8d %-11d %6.0f V   %4.1f A  %5.0f W\n",
				sc.Inverter, sc.MPPT, sc.Strings, sc.PanelsPerString, sc.VocV, sc.IscA, sc.PowerW)
		}
		fmt.Printf("\nDC/AC ratio: %.2f\n", v.DCACRatio)
		fmt.Printf("DC cable:    %.1f mm², fuse %d A (design %.1f A)\n",
			v.Cable.CableSectionMM2, v.Cable.FuseA, v.Cable.DesignCurrentA)
		ac := electrical.SizeACProtection(inverter, *inverterCount)
		fmt.Printf("AC breaker:  %d A (design %.1f A)\n", ac.BreakerA, ac.DesignCurrentA)
	}

	for _, w := range v.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	for _, e := range v.Errors {
		fmt.Printf("ERROR: %s\n", e)
	}

	if v.Valid {
		fmt.Println("\nConfiguration is valid.")
		return
	}

	if *suggest {
		proj := model.Project{
			Segments:      segments,
			Panel:         panel,
			Inverter:      inverter,
			InverterCount: *inverterCount,
		}
		if s := electrical.SuggestFix(proj, catalog); s != nil {
			fmt.Printf("\nSuggestion: %s\n", s.Reason)
			os.Exit(1)
		}
		fmt.Println("\nNo feasible configuration found in the catalog.")
	}
	os.Exit(1)
}
