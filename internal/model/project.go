package model

// RoofSegment is one tilted, oriented group of panels laid out in rows.
// Azimuth follows the 0°=south convention, negative=east, positive=west.
type RoofSegment struct {
	TiltDeg     float64 `json:"tilt_deg"`
	AzimuthDeg  float64 `json:"azimuth_deg"`
	PanelCount  int     `json:"panel_count"`
	EdgeMarginM float64 `json:"edge_margin_m"`
	RowSpacingM float64 `json:"row_spacing_m"` // clear gap between rows
	ColSpacingM float64 `json:"col_spacing_m"`
}

// Project is one sizing scenario: a roof layout plus the selected equipment.
// Catalog entries are resolved before the project is built, so the core never
// performs lookups of its own.
type Project struct {
	Latitude      float64       `json:"latitude"`
	Segments      []RoofSegment `json:"segments"`
	Panel         PanelSpec     `json:"panel"`
	Inverter      InverterSpec  `json:"inverter"`
	InverterCount int           `json:"inverter_count"`
	Battery       *BatterySpec  `json:"battery,omitempty"`
	BatteryCount  int           `json:"battery_count"`
	AnnualLoadKWh float64       `json:"annual_load_kwh"`
}

// TotalPanelCount sums panels over all segments.
func (p *Project) TotalPanelCount() int {
	n := 0
	for _, s := range p.Segments {
		n += s.PanelCount
	}
	return n
}

// InstalledDCPowerKW is the array nameplate power.
func (p *Project) InstalledDCPowerKW() float64 {
	return float64(p.TotalPanelCount()) * p.Panel.PowerW / 1000
}

// InstalledACPowerKW is the total inverter nameplate power.
func (p *Project) InstalledACPowerKW() float64 {
	return p.Inverter.RatedPowerKW * float64(p.InverterCount)
}
