package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pantrypilot/internal/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamAlertsRequiresOwner(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/ws/alerts", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamAlertsPushesExpiryAlerts(t *testing.T) {
	s := newTestServer(t)

	expiry := time.Now().Add(24 * time.Hour)
	_, err := s.Inventory.AddItem("alice", models.InventoryItem{
		Name: "milk", Quantity: 1, Unit: "l", Location: "fridge", ExpiryDate: &expiry,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(s.Router)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/alerts?owner=alice"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var alerts []models.ExpiryAlert
	require.NoError(t, json.Unmarshal(payload, &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "milk", alerts[0].Item.Name)
	assert.Equal(t, models.UrgencyHigh, alerts[0].Urgency)
}
