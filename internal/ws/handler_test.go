package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_sizer/internal/climate"
	"pv_sizer/internal/model"
)

func testHandler() *Handler {
	logger := testLogger()
	hub := NewHub(logger)
	return NewHandler(hub, model.SampleCatalog(), climate.Synthesize(38.72), logger)
}

// dialHandler sets up a test server with the handler and returns a WS connection.
func dialHandler(t *testing.T, handler *Handler) (*websocket.Conn, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn, func() {
		conn.Close()
		server.Close()
	}
}

// readJSON reads the next JSON message from the connection.
func readJSON(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(msg, &env))
	return env
}

// sendJSON sends a JSON message on the connection.
func sendJSON(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	data, err := NewEnvelope(msgType, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func referenceScenario() ScenarioRunPayload {
	return ScenarioRunPayload{
		Latitude: 38.72,
		Segments: []model.RoofSegment{{
			TiltDeg:     30,
			PanelCount:  10,
			RowSpacingM: 2.0,
		}},
		PanelModel:    "HS-400M",
		InverterModel: "VT-3000S",
		InverterCount: 1,
		AnnualLoadKWh: 6500,
	}
}

func TestHandler_InitialCatalog(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	env := readJSON(t, conn)
	require.Equal(t, TypeCatalogData, env.Type)

	var cat CatalogPayload
	require.NoError(t, json.Unmarshal(env.Payload, &cat))
	assert.NotEmpty(t, cat.Panels)
	assert.NotEmpty(t, cat.Inverters)
	assert.NotEmpty(t, cat.Batteries)
}

func TestHandler_RunScenario(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn) // catalog:data

	sendJSON(t, conn, TypeScenarioRun, referenceScenario())

	env := readJSON(t, conn)
	require.Equal(t, TypeScenarioResult, env.Type)

	var res ScenarioResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &res))

	assert.Greater(t, res.ProductionKWh, 5800.0)
	assert.Less(t, res.ProductionKWh, 7200.0)
	assert.InDelta(t, 6500.0, res.LoadKWh, 1.0)
	assert.True(t, res.Verification.Valid, "errors: %v", res.Verification.Errors)
	assert.Greater(t, res.SelfConsumptionRatio, 0.0)
}

func TestHandler_RunScenarioWithBattery(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	p := referenceScenario()
	p.BatteryModel = "CX-5"
	p.BatteryCount = 1
	sendJSON(t, conn, TypeScenarioRun, p)

	env := readJSON(t, conn)
	require.Equal(t, TypeScenarioResult, env.Type)

	var res ScenarioResultPayload
	require.NoError(t, json.Unmarshal(env.Payload, &res))
	assert.Greater(t, res.FromBatteryKWh, 0.0)
}

func TestHandler_UnknownPanelModel(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	p := referenceScenario()
	p.PanelModel = "NOPE-1"
	sendJSON(t, conn, TypeScenarioRun, p)

	env := readJSON(t, conn)
	require.Equal(t, TypeScenarioError, env.Type)

	var e ScenarioErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	assert.Contains(t, e.Message, "NOPE-1")
}

func TestHandler_InvalidMessage(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	env := readJSON(t, conn)
	assert.Equal(t, TypeScenarioError, env.Type)
}

func TestHandler_UnknownType(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	sendJSON(t, conn, "scenario:frobnicate", nil)

	env := readJSON(t, conn)
	require.Equal(t, TypeScenarioError, env.Type)

	var e ScenarioErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	assert.Contains(t, e.Message, "scenario:frobnicate")
}

func TestHandler_CatalogGet(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn) // initial catalog

	sendJSON(t, conn, TypeCatalogGet, nil)

	env := readJSON(t, conn)
	assert.Equal(t, TypeCatalogData, env.Type)
}

func TestHandler_SuggestFix(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	// 30 panels overload a single 3 kW dual-MPPT unit.
	p := referenceScenario()
	p.Segments[0].PanelCount = 30
	sendJSON(t, conn, TypeSuggestFix, p)

	env := readJSON(t, conn)
	require.Equal(t, TypeSuggestion, env.Type)

	var s SuggestionPayload
	require.NoError(t, json.Unmarshal(env.Payload, &s))
	require.True(t, s.Found)
	require.NotNil(t, s.Suggestion)
	assert.Equal(t, 2, s.Suggestion.Count)
	assert.True(t, s.Suggestion.Verification.Valid)
}

func TestHandler_SuggestFix_AlreadyValid(t *testing.T) {
	conn, cleanup := dialHandler(t, testHandler())
	defer cleanup()

	readJSON(t, conn)

	sendJSON(t, conn, TypeSuggestFix, referenceScenario())

	env := readJSON(t, conn)
	require.Equal(t, TypeSuggestion, env.Type)

	var s SuggestionPayload
	require.NoError(t, json.Unmarshal(env.Payload, &s))
	assert.False(t, s.Found)
	assert.Nil(t, s.Suggestion)
}
