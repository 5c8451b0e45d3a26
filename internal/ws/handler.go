package ws

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/electrical"
	"pv_sizer/internal/load"
	"pv_sizer/internal/model"
	"pv_sizer/internal/simulator"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler manages WebSocket connections and runs scenarios on request.
// Catalog and climate are read-only; each scenario run is an independent
// computation, so no locking is needed around them.
type Handler struct {
	hub     *Hub
	catalog *model.Catalog
	climate *climate.Record
	logger  *zap.SugaredLogger
}

func NewHandler(hub *Hub, catalog *model.Catalog, clim *climate.Record, logger *zap.SugaredLogger) *Handler {
	return &Handler{hub: hub, catalog: catalog, climate: clim, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.hub.Register(client)
	go client.writePump()

	// Every new client gets the catalog up front.
	h.sendCatalog(client)

	h.readPump(client)
}

func (h *Handler) readPump(c *Client) {
	defer func() {
		h.hub.Unregister(c)
		c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("websocket read failed", "error", err)
			}
			return
		}
		h.handleMessage(c, msg)
	}
}

func (h *Handler) handleMessage(c *Client, msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		h.sendError(c, fmt.Sprintf("invalid message: %v", err))
		return
	}

	switch env.Type {
	case TypeScenarioRun:
		var p ScenarioRunPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, fmt.Sprintf("invalid scenario payload: %v", err))
			return
		}
		h.runScenario(c, p)

	case TypeSuggestFix:
		var p ScenarioRunPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			h.sendError(c, fmt.Sprintf("invalid scenario payload: %v", err))
			return
		}
		h.suggestFix(c, p)

	case TypeCatalogGet:
		h.sendCatalog(c)

	default:
		h.sendError(c, fmt.Sprintf("unknown message type %q", env.Type))
	}
}

// buildProject resolves catalog references and assembles a project.
func (h *Handler) buildProject(p ScenarioRunPayload) (model.Project, error) {
	panel, ok := h.catalog.PanelByModel(p.PanelModel)
	if !ok {
		return model.Project{}, fmt.Errorf("unknown panel model %q", p.PanelModel)
	}
	inverter, ok := h.catalog.InverterByModel(p.InverterModel)
	if !ok {
		return model.Project{}, fmt.Errorf("unknown inverter model %q", p.InverterModel)
	}
	proj := model.Project{
		Latitude:      p.Latitude,
		Segments:      p.Segments,
		Panel:         panel,
		Inverter:      inverter,
		InverterCount: p.InverterCount,
		AnnualLoadKWh: p.AnnualLoadKWh,
	}
	if p.BatteryModel != "" {
		battery, ok := h.catalog.BatteryByModel(p.BatteryModel)
		if !ok {
			return model.Project{}, fmt.Errorf("unknown battery model %q", p.BatteryModel)
		}
		proj.Battery = &battery
		proj.BatteryCount = p.BatteryCount
		if proj.BatteryCount < 1 {
			proj.BatteryCount = 1
		}
	}
	return proj, nil
}

func (h *Handler) runScenario(c *Client, p ScenarioRunPayload) {
	proj, err := h.buildProject(p)
	if err != nil {
		h.sendError(c, err.Error())
		return
	}

	curve, err := load.Resolve(load.Profile{
		BaseKW:    p.BaseLoadKW,
		PeakKW:    p.PeakLoadKW,
		AnnualKWh: p.AnnualLoadKWh,
	})
	if err != nil {
		h.sendError(c, err.Error())
		return
	}

	clim := h.climate
	if clim == nil || clim.Latitude != proj.Latitude {
		clim = climate.Synthesize(proj.Latitude)
	}

	verification := electrical.Verify(proj.Segments, proj.Panel, proj.Inverter, proj.InverterCount)
	result := simulator.SimulateYear(proj.Segments, proj.Panel, proj.Inverter, proj.InverterCount,
		proj.Battery, proj.BatteryCount, clim, curve)

	h.logger.Infow("scenario complete",
		"panels", proj.TotalPanelCount(),
		"production_kwh", result.ProductionKWh,
		"valid", verification.Valid)

	msg, err := NewEnvelope(TypeScenarioResult, ScenarioResultPayload{
		ProductionKWh:        result.ProductionKWh,
		LoadKWh:              result.LoadKWh,
		GridImportKWh:        result.GridImportKWh,
		GridExportKWh:        result.GridExportKWh,
		FromBatteryKWh:       result.FromBatteryKWh,
		ShadingLossKWh:       result.ShadingLossKWh,
		ClippingLossKWh:      result.ClippingLossKWh,
		SelfConsumptionRatio: result.SelfConsumptionRatio,
		AutonomyRatio:        result.AutonomyRatio,
		MonthlyProductionKWh: result.MonthlyProductionKWh(),
		Verification:         verification,
	})
	if err != nil {
		h.logger.Errorw("marshaling scenario result", "error", err)
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) suggestFix(c *Client, p ScenarioRunPayload) {
	proj, err := h.buildProject(p)
	if err != nil {
		h.sendError(c, err.Error())
		return
	}
	suggestion := electrical.SuggestFix(proj, h.catalog)
	msg, err := NewEnvelope(TypeSuggestion, SuggestionPayload{
		Found:      suggestion != nil,
		Suggestion: suggestion,
	})
	if err != nil {
		h.logger.Errorw("marshaling suggestion", "error", err)
		return
	}
	h.send(c, msg)
}

func (h *Handler) sendCatalog(c *Client) {
	msg, err := NewEnvelope(TypeCatalogData, CatalogPayload{
		Panels:    h.catalog.Panels,
		Inverters: h.catalog.Inverters,
		Batteries: h.catalog.Batteries,
	})
	if err != nil {
		h.logger.Errorw("marshaling catalog", "error", err)
		return
	}
	h.send(c, msg)
}

func (h *Handler) sendError(c *Client, message string) {
	h.logger.Warnw("scenario rejected", "reason", message)
	msg, err := NewEnvelope(TypeScenarioError, ScenarioErrorPayload{Message: message})
	if err != nil {
		return
	}
	h.send(c, msg)
}

func (h *Handler) send(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		h.logger.Warnw("client buffer full, dropping message")
	}
}
