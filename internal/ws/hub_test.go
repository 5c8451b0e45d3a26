package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestNewEnvelope(t *testing.T) {
	payload := ScenarioErrorPayload{Message: "unknown panel model"}

	msg, err := NewEnvelope(TypeScenarioError, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeScenarioError, env.Type)

	var parsed ScenarioErrorPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "unknown panel model", parsed.Message)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeCatalogGet, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeCatalogGet, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub(testLogger())

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub(testLogger())

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "scenario:run", TypeScenarioRun)
	assert.Equal(t, "scenario:suggest_fix", TypeSuggestFix)
	assert.Equal(t, "catalog:get", TypeCatalogGet)
	assert.Equal(t, "scenario:result", TypeScenarioResult)
	assert.Equal(t, "scenario:error", TypeScenarioError)
	assert.Equal(t, "scenario:suggestion", TypeSuggestion)
	assert.Equal(t, "catalog:data", TypeCatalogData)
}
