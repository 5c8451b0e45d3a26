package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// PanelSpec is a read-only catalog entry for a PV module.
type PanelSpec struct {
	Manufacturer    string  `json:"manufacturer"`
	Model           string  `json:"model"`
	PowerW          float64 `json:"power_w"`
	WidthM          float64 `json:"width_m"`
	HeightM         float64 `json:"height_m"`
	Efficiency      float64 `json:"efficiency"`
	VocV            float64 `json:"voc_v"`
	IscA            float64 `json:"isc_a"`
	VmpV            float64 `json:"vmp_v"`
	ImpA            float64 `json:"imp_a"`
	TempCoeffVocPct float64 `json:"temp_coeff_voc_pct"` // %/°C, negative for silicon
	PriceEUR        float64 `json:"price_eur"`
}

// InverterSpec is a read-only catalog entry for a grid-tie inverter.
type InverterSpec struct {
	Manufacturer     string  `json:"manufacturer"`
	Model            string  `json:"model"`
	RatedPowerKW     float64 `json:"rated_power_kw"`
	Phases           int     `json:"phases"`
	MaxDCVoltageV    float64 `json:"max_dc_voltage_v"`
	MPPTStartV       float64 `json:"mppt_start_v"`
	MPPTMinV         float64 `json:"mppt_min_v"`
	MPPTMaxV         float64 `json:"mppt_max_v"`
	MaxInputCurrentA float64 `json:"max_input_current_a"` // per MPPT
	MPPTInputs       int     `json:"mppt_inputs"`
	PriceEUR         float64 `json:"price_eur"`
}

// BatterySpec is a read-only catalog entry for a storage unit.
type BatterySpec struct {
	Manufacturer        string  `json:"manufacturer"`
	Model               string  `json:"model"`
	CapacityKWh         float64 `json:"capacity_kwh"` // usable
	MaxPowerKW          float64 `json:"max_power_kw"` // charge and discharge limit
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	PriceEUR            float64 `json:"price_eur"`
}

// Catalog is an explicit read-only equipment registry. It is passed by
// parameter into every function that needs a lookup, never held as a
// package-level singleton.
type Catalog struct {
	Panels    []PanelSpec    `json:"panels"`
	Inverters []InverterSpec `json:"inverters"`
	Batteries []BatterySpec  `json:"batteries"`
}

// PanelByModel looks up a panel by its model name.
func (c *Catalog) PanelByModel(name string) (PanelSpec, bool) {
	for _, p := range c.Panels {
		if p.Model == name {
			return p, true
		}
	}
	return PanelSpec{}, false
}

// InverterByModel looks up an inverter by its model name.
func (c *Catalog) InverterByModel(name string) (InverterSpec, bool) {
	for _, inv := range c.Inverters {
		if inv.Model == name {
			return inv, true
		}
	}
	return InverterSpec{}, false
}

// BatteryByModel looks up a battery by its model name.
func (c *Catalog) BatteryByModel(name string) (BatterySpec, bool) {
	for _, b := range c.Batteries {
		if b.Model == name {
			return b, true
		}
	}
	return BatterySpec{}, false
}

// LoadCatalog reads a JSON catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return &c, nil
}

// SampleCatalog returns a small built-in catalog used by the CLIs when no
// catalog file is given.
func SampleCatalog() *Catalog {
	return &Catalog{
		Panels: []PanelSpec{
			{
				Manufacturer: "Helios", Model: "HS-400M",
				PowerW: 400, WidthM: 1.134, HeightM: 1.722, Efficiency: 0.205,
				VocV: 37.2, IscA: 13.7, VmpV: 31.0, ImpA: 12.9,
				TempCoeffVocPct: -0.27, PriceEUR: 145,
			},
			{
				Manufacturer: "Helios", Model: "HS-455M",
				PowerW: 455, WidthM: 1.134, HeightM: 1.909, Efficiency: 0.21,
				VocV: 41.1, IscA: 13.9, VmpV: 34.3, ImpA: 13.3,
				TempCoeffVocPct: -0.26, PriceEUR: 168,
			},
			{
				Manufacturer: "Ortasol", Model: "OS-550B",
				PowerW: 550, WidthM: 1.134, HeightM: 2.279, Efficiency: 0.213,
				VocV: 49.9, IscA: 14.0, VmpV: 41.9, ImpA: 13.1,
				TempCoeffVocPct: -0.25, PriceEUR: 198,
			},
		},
		Inverters: []InverterSpec{
			{
				Manufacturer: "Voltara", Model: "VT-3000S",
				RatedPowerKW: 3, Phases: 1,
				MaxDCVoltageV: 600, MPPTStartV: 100, MPPTMinV: 90, MPPTMaxV: 520,
				MaxInputCurrentA: 14, MPPTInputs: 2, PriceEUR: 780,
			},
			{
				Manufacturer: "Voltara", Model: "VT-5000S",
				RatedPowerKW: 5, Phases: 1,
				MaxDCVoltageV: 600, MPPTStartV: 100, MPPTMinV: 90, MPPTMaxV: 520,
				MaxInputCurrentA: 15, MPPTInputs: 2, PriceEUR: 1090,
			},
			{
				Manufacturer: "Voltara", Model: "VT-10KT",
				RatedPowerKW: 10, Phases: 3,
				MaxDCVoltageV: 1000, MPPTStartV: 160, MPPTMinV: 140, MPPTMaxV: 850,
				MaxInputCurrentA: 26, MPPTInputs: 2, PriceEUR: 1980,
			},
		},
		Batteries: []BatterySpec{
			{
				Manufacturer: "Cellix", Model: "CX-5",
				CapacityKWh: 5.1, MaxPowerKW: 2.5, RoundTripEfficiency: 0.94, PriceEUR: 2450,
			},
			{
				Manufacturer: "Cellix", Model: "CX-10",
				CapacityKWh: 10.2, MaxPowerKW: 5.0, RoundTripEfficiency: 0.94, PriceEUR: 4400,
			},
		},
	}
}
