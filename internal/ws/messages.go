package ws

import (
	"encoding/json"

	"pv_sizer/internal/electrical"
	"pv_sizer/internal/model"
)

// Envelope wraps all WebSocket messages with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message type constants
const (
	// Client -> Server
	TypeScenarioRun = "scenario:run"
	TypeSuggestFix  = "scenario:suggest_fix"
	TypeCatalogGet  = "catalog:get"

	// Server -> Client
	TypeScenarioResult = "scenario:result"
	TypeScenarioError  = "scenario:error"
	TypeSuggestion     = "scenario:suggestion"
	TypeCatalogData    = "catalog:data"
)

// Client -> Server messages

// ScenarioRunPayload describes one sizing scenario. Equipment is referenced
// by catalog model name and resolved server-side.
type ScenarioRunPayload struct {
	Latitude      float64             `json:"latitude"`
	Segments      []model.RoofSegment `json:"segments"`
	PanelModel    string              `json:"panel_model"`
	InverterModel string              `json:"inverter_model"`
	InverterCount int                 `json:"inverter_count"`
	BatteryModel  string              `json:"battery_model,omitempty"`
	BatteryCount  int                 `json:"battery_count,omitempty"`
	AnnualLoadKWh float64             `json:"annual_load_kwh"`
	BaseLoadKW    float64             `json:"base_load_kw,omitempty"`
	PeakLoadKW    float64             `json:"peak_load_kw,omitempty"`
}

// Server -> Client messages

type ScenarioResultPayload struct {
	ProductionKWh        float64                 `json:"production_kwh"`
	LoadKWh              float64                 `json:"load_kwh"`
	GridImportKWh        float64                 `json:"grid_import_kwh"`
	GridExportKWh        float64                 `json:"grid_export_kwh"`
	FromBatteryKWh       float64                 `json:"from_battery_kwh"`
	ShadingLossKWh       float64                 `json:"shading_loss_kwh"`
	ClippingLossKWh      float64                 `json:"clipping_loss_kwh"`
	SelfConsumptionRatio float64                 `json:"self_consumption_ratio"`
	AutonomyRatio        float64                 `json:"autonomy_ratio"`
	MonthlyProductionKWh [12]float64             `json:"monthly_production_kwh"`
	Verification         electrical.Verification `json:"verification"`
}

type ScenarioErrorPayload struct {
	Message string `json:"message"`
}

type SuggestionPayload struct {
	Found      bool                   `json:"found"`
	Suggestion *electrical.Suggestion `json:"suggestion,omitempty"`
}

type CatalogPayload struct {
	Panels    []model.PanelSpec    `json:"panels"`
	Inverters []model.InverterSpec `json:"inverters"`
	Batteries []model.BatterySpec  `json:"batteries"`
}

// NewEnvelope marshals a payload into a typed envelope ready to send.
func NewEnvelope(msgType string, payload any) ([]byte, error) {
	env := Envelope{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Payload = data
	}
	return json.Marshal(env)
}
