package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleCatalog_Lookups(t *testing.T) {
	c := SampleCatalog()

	p, ok := c.PanelByModel("HS-400M")
	require.True(t, ok)
	assert.Equal(t, 400.0, p.PowerW)
	assert.Negative(t, p.TempCoeffVocPct)

	inv, ok := c.InverterByModel("VT-3000S")
	require.True(t, ok)
	assert.Equal(t, 2, inv.MPPTInputs)

	b, ok := c.BatteryByModel("CX-10")
	require.True(t, ok)
	assert.Greater(t, b.RoundTripEfficiency, 0.8)

	_, ok = c.PanelByModel("nope")
	assert.False(t, ok)
}

func TestSampleCatalog_Plausible(t *testing.T) {
	c := SampleCatalog()
	for _, p := range c.Panels {
		assert.Greater(t, p.VocV, p.VmpV, "%s: Voc must exceed Vmp", p.Model)
		assert.Greater(t, p.IscA, p.ImpA, "%s: Isc must exceed Imp", p.Model)
	}
	for _, inv := range c.Inverters {
		assert.Greater(t, inv.MaxDCVoltageV, inv.MPPTMaxV, "%s", inv.Model)
		assert.Less(t, inv.MPPTMinV, inv.MPPTMaxV, "%s", inv.Model)
	}
}

func TestLoadCatalog(t *testing.T) {
	data, err := json.Marshal(SampleCatalog())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Panels, 3)
	assert.Len(t, c.Inverters, 3)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog("/does/not/exist.json")
	require.Error(t, err)
}

func TestProject_Totals(t *testing.T) {
	c := SampleCatalog()
	panel, _ := c.PanelByModel("HS-400M")
	inverter, _ := c.InverterByModel("VT-3000S")

	p := Project{
		Segments: []RoofSegment{
			{PanelCount: 10},
			{PanelCount: 6},
		},
		Panel:         panel,
		Inverter:      inverter,
		InverterCount: 2,
	}

	assert.Equal(t, 16, p.TotalPanelCount())
	assert.InDelta(t, 6.4, p.InstalledDCPowerKW(), 1e-9)
	assert.InDelta(t, 6.0, p.InstalledACPowerKW(), 1e-9)
}
