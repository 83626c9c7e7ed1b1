package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantrypilot/internal/inventory"
	"pantrypilot/internal/models"
	"pantrypilot/internal/monitoring"
	"pantrypilot/internal/planner"
	"pantrypilot/internal/shopping"
	"pantrypilot/internal/travel"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP surface over the planning core. It is a thin
// adapter: all semantics live in the core packages.
type Server struct {
	Router    *gin.Engine
	Inventory *inventory.Store
	Catalog   *planner.CatalogStore
	Planner   *planner.Planner
	Plans     *planner.PlanRepository
	Stores    *shopping.StoreRepository
	Optimizer *shopping.Optimizer
	Travel    *travel.Estimator
	Metrics   *monitoring.Collector
}

// NewServer creates the API server and wires its routes.
func NewServer(inv *inventory.Store, catalog *planner.CatalogStore, plnr *planner.Planner, plans *planner.PlanRepository, stores *shopping.StoreRepository, optimizer *shopping.Optimizer, estimator *travel.Estimator, metrics *monitoring.Collector) *Server {
	s := &Server{
		Router:    gin.Default(),
		Inventory: inv,
		Catalog:   catalog,
		Planner:   plnr,
		Plans:     plans,
		Stores:    stores,
		Optimizer: optimizer,
		Travel:    estimator,
		Metrics:   metrics,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	// Health check
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "PantryPilot API is running"})
	})

	s.Router.GET("/ws/alerts", s.StreamAlerts)

	v1 := s.Router.Group("/api/v1")
	{
		// Inventory management
		v1.POST("/inventory", s.AddInventoryItem)
		v1.GET("/inventory", s.ListInventory)
		v1.DELETE("/inventory/:id", s.DeleteInventoryItem)
		v1.POST("/inventory/:id/consume", s.ConsumeInventoryItem)
		v1.GET("/inventory/status", s.InventoryStatus)
		v1.GET("/inventory/alerts", s.ExpiryAlerts)

		// Recipe catalog (read-only)
		v1.GET("/recipes", s.ListRecipes)
		v1.GET("/recipes/:id", s.GetRecipe)

		// Meal planning
		v1.POST("/plans", s.GeneratePlan)
		v1.GET("/plans", s.GetPlan)

		// Shopping optimization
		v1.GET("/stores", s.ListStores)
		v1.POST("/shopping/optimize", s.OptimizeShoppingList)

		// Travel estimates
		v1.GET("/travel/route", s.GetRoute)
		v1.GET("/travel/forecast", s.GetForecast)
	}
}

// respondError maps the core error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var validation *models.ValidationError
	var notFound *models.NotFoundError
	var storage *models.StorageError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &storage):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ownerParam extracts the owner scope common to every request.
func ownerParam(c *gin.Context) (string, bool) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner query parameter required"})
		return "", false
	}
	return owner, true
}

// Inventory handlers

func (s *Server) AddInventoryItem(c *gin.Context) {
	var req struct {
		Owner string               `json:"owner"`
		Item  models.InventoryItem `json:"item"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required"})
		return
	}

	item, err := s.Inventory.AddItem(req.Owner, req.Item)
	if err != nil {
		respondError(c, err)
		return
	}
	s.Metrics.RecordInventoryAction("add")
	c.JSON(http.StatusCreated, item)
}

func (s *Server) ListInventory(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	items, err := s.Inventory.ListItems(owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) DeleteInventoryItem(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	if err := s.Inventory.DeleteItem(owner, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	s.Metrics.RecordInventoryAction("delete")
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

func (s *Server) ConsumeInventoryItem(c *gin.Context) {
	var req struct {
		Owner    string  `json:"owner"`
		Quantity float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.Inventory.Consume(req.Owner, c.Param("id"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	s.Metrics.RecordInventoryAction("consume")
	if item == nil {
		c.JSON(http.StatusOK, gin.H{"message": "item fully consumed"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) InventoryStatus(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	status, err := s.Inventory.Status(owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) ExpiryAlerts(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	alerts, err := s.Inventory.ExpiryAlerts(owner)
	if err != nil {
		respondError(c, err)
		return
	}
	counts := map[models.ExpiryUrgency]int{}
	for _, alert := range alerts {
		counts[alert.Urgency]++
	}
	for urgency, count := range counts {
		s.Metrics.RecordExpiringItems(string(urgency), count)
	}
	c.JSON(http.StatusOK, alerts)
}

// Recipe handlers

func (s *Server) ListRecipes(c *gin.Context) {
	recipes, err := s.Catalog.Recipes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) GetRecipe(c *gin.Context) {
	recipe, err := s.Catalog.GetRecipe(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// Planning handlers

func (s *Server) GeneratePlan(c *gin.Context) {
	var req struct {
		Owner       string                 `json:"owner"`
		WeekStart   string                 `json:"week_start"`
		Constraints models.MealConstraints `json:"constraints"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Owner == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner required"})
		return
	}
	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
		return
	}

	started := time.Now()
	plan, err := s.Planner.GenerateWeeklyPlan(req.Owner, weekStart, req.Constraints)
	if err != nil {
		s.Metrics.RecordPlanGeneration(time.Since(started), "error")
		respondError(c, err)
		return
	}
	if err := s.Plans.Save(plan); err != nil {
		s.Metrics.RecordPlanGeneration(time.Since(started), "error")
		respondError(c, err)
		return
	}

	s.Metrics.RecordPlanGeneration(time.Since(started), "ok")
	for _, warning := range plan.Warnings {
		s.Metrics.RecordPlanWarning(string(warning.Code))
	}
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) GetPlan(c *gin.Context) {
	owner, ok := ownerParam(c)
	if !ok {
		return
	}
	weekStart, err := time.Parse("2006-01-02", c.Query("week_start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
		return
	}
	plan, err := s.Plans.Get(owner, weekStart)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := plan.GetMeals(); err != nil {
		respondError(c, err)
		return
	}
	if _, err := plan.GetShoppingList(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// Shopping handlers

func (s *Server) ListStores(c *gin.Context) {
	stores, err := s.Stores.ListStores()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (s *Server) OptimizeShoppingList(c *gin.Context) {
	var req struct {
		Items     []models.ShoppingItem `json:"items"`
		StoreIDs  []string              `json:"store_ids,omitempty"`
		MaxBudget float64               `json:"max_budget,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stores, err := s.Stores.ListStores()
	if err != nil {
		respondError(c, err)
		return
	}
	if len(req.StoreIDs) > 0 {
		stores = filterStores(stores, req.StoreIDs)
	}

	result, err := s.Optimizer.Optimize(c.Request.Context(), req.Items, stores, req.MaxBudget)
	if err != nil {
		respondError(c, err)
		return
	}
	s.Metrics.RecordShoppingAllocation(len(result.VisitOrder))
	s.Metrics.RecordShoppingSavings(result.Savings)
	c.JSON(http.StatusOK, result)
}

func filterStores(stores []models.Store, ids []string) []models.Store {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var out []models.Store
	for _, store := range stores {
		if keep[store.StoreID] {
			out = append(out, store)
		}
	}
	return out
}

// Travel handlers

func (s *Server) GetRoute(c *gin.Context) {
	origin, err := parseCoordinates(c.Query("origin"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "origin must be lat,lng"})
		return
	}
	dest, err := parseCoordinates(c.Query("destination"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "destination must be lat,lng"})
		return
	}
	mode := c.DefaultQuery("mode", string(models.ModeWalk))
	if !models.ValidMode(mode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be walk, bike or train"})
		return
	}

	estimate := s.Travel.Route(c.Request.Context(), origin, dest, models.TravelMode(mode))
	c.JSON(http.StatusOK, estimate)
}

func (s *Server) GetForecast(c *gin.Context) {
	location, err := parseCoordinates(c.Query("location"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location must be lat,lng"})
		return
	}
	day := time.Now()
	if raw := c.Query("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "day must be YYYY-MM-DD"})
			return
		}
	}

	forecast := s.Travel.Forecast(c.Request.Context(), location, day)
	c.JSON(http.StatusOK, forecast)
}

func parseCoordinates(raw string) (models.Coordinates, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return models.Coordinates{}, errors.New("expected lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return models.Coordinates{}, err
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return models.Coordinates{}, err
	}
	return models.Coordinates{Lat: lat, Lng: lng}, nil
}
