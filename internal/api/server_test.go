package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pantrypilot/internal/database"
	"pantrypilot/internal/inventory"
	"pantrypilot/internal/models"
	"pantrypilot/internal/monitoring"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/scoring"
	"pantrypilot/internal/shopping"
	"pantrypilot/internal/travel"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a different in-memory database.
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaultData(db))
	t.Cleanup(func() { db.Close() })

	metrics := monitoring.NewCollector()
	cache := travel.NewTTLCache(0, nil)
	estimator := travel.NewEstimator(nil, cache).WithMetrics(metrics)

	inv := inventory.NewStore(db)
	catalog := planner.NewCatalogStore(db)
	engine := scoring.NewEngine()
	home := models.Coordinates{Lat: 51.4545, Lng: -2.5879}

	return NewServer(
		inv,
		catalog,
		planner.NewPlanner(catalog, inv, engine),
		planner.NewPlanRepository(db),
		shopping.NewStoreRepository(db),
		shopping.NewOptimizer(estimator, home),
		estimator,
		metrics,
	)
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestInventoryLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/inventory", gin.H{
		"owner": "alice",
		"item":  gin.H{"name": "eggs", "quantity": 6, "unit": "pc", "location": "fridge"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ItemID)

	w = doJSON(t, s, http.MethodGet, "/api/v1/inventory?owner=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	w = doJSON(t, s, http.MethodPost, "/api/v1/inventory/"+created.ItemID+"/consume", gin.H{
		"owner": "alice", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var remaining models.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &remaining))
	assert.Equal(t, 4.0, remaining.Quantity)
}

func TestInventoryRequiresOwner(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/inventory", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInventoryValidationMapsTo400(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/inventory", gin.H{
		"owner": "alice",
		"item":  gin.H{"name": "eggs", "quantity": -2},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsumeMissingItemMapsTo404(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/inventory/no-such-item/consume", gin.H{
		"owner": "alice", "quantity": 1,
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recipes []models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	assert.NotEmpty(t, recipes)

	w = doJSON(t, s, http.MethodGet, "/api/v1/recipes/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanGenerateAndFetch(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/plans", gin.H{
		"owner":      "alice",
		"week_start": "2025-03-10",
		"constraints": gin.H{
			"budget": 200,
			"time_ceilings": gin.H{
				"breakfast": 20, "lunch": 45, "dinner": 60,
			},
			"servings": 2,
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan models.WeeklyMealPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Len(t, plan.Meals, 21)

	w = doJSON(t, s, http.MethodGet, "/api/v1/plans?owner=alice&week_start=2025-03-10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPlanInvalidConstraintsMapTo400(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/plans", gin.H{
		"owner":       "alice",
		"week_start":  "2025-03-10",
		"constraints": gin.H{"budget": 0, "servings": 2},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShoppingOptimizeEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/shopping/optimize", gin.H{
		"items": []gin.H{
			{"name": "milk", "quantity": 2, "unit": "l", "priority": "essential", "category": "dairy"},
			{"name": "bread", "quantity": 1, "unit": "loaf", "priority": "essential", "category": "bakery"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result models.ShoppingAllocation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Allocations, 2)
	assert.NotEmpty(t, result.VisitOrder)
}

func TestTravelRouteEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/travel/route?origin=51.45,-2.59&destination=51.47,-2.58&mode=bike", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var estimate models.RouteEstimate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &estimate))
	assert.Equal(t, models.ModeBike, estimate.Mode)
	assert.Greater(t, estimate.Duration, 0)

	w = doJSON(t, s, http.MethodGet, "/api/v1/travel/route?origin=nope&destination=51.47,-2.58", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/v1/travel/route?origin=51.45,-2.59&destination=51.47,-2.58&mode=helicopter", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTravelForecastEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/travel/forecast?location=51.45,-2.59&day=2025-03-12", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forecast models.Forecast
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forecast))
	assert.NotEmpty(t, forecast.Summary)
}
