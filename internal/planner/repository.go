package planner

import (
	"sync"
	"time"

	"pantrypilot/internal/models"

	"github.com/jinzhu/gorm"
)

// CatalogStore reads the recipe catalog from the database. The planning core
// treats recipes as immutable; there are no write paths here.
type CatalogStore struct {
	db *gorm.DB
}

// NewCatalogStore creates a catalog backed by db.
func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Recipes returns all publicly visible recipes.
func (c *CatalogStore) Recipes() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := c.db.Where("visibility = ?", "public").Find(&recipes).Error; err != nil {
		return nil, models.NewStorageError("list recipes", err)
	}
	return recipes, nil
}

// GetRecipe returns a single recipe by its business id.
func (c *CatalogStore) GetRecipe(recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := c.db.Where("recipe_id = ?", recipeID).First(&recipe).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.NewNotFoundError("recipe", recipeID)
	}
	if err != nil {
		return nil, models.NewStorageError("get recipe", err)
	}
	return &recipe, nil
}

// PlanRepository stores weekly meal plans. Saving a plan replaces any
// existing plan for the same (owner, week start); concurrent regenerations
// of the same week are serialized so writes never interleave, with
// last-writer-wins semantics.
type PlanRepository struct {
	db    *gorm.DB
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewPlanRepository creates a plan repository backed by db.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db, locks: make(map[string]*sync.Mutex)}
}

// Save replaces the stored plan for (plan.Owner, plan.WeekStart).
func (r *PlanRepository) Save(plan *models.WeeklyMealPlan) error {
	lock := r.lockFor(plan.Owner, plan.WeekStart)
	lock.Lock()
	defer lock.Unlock()

	tx := r.db.Begin()
	if tx.Error != nil {
		return models.NewStorageError("save plan", tx.Error)
	}
	if err := tx.Where("owner = ? AND week_start = ?", plan.Owner, plan.WeekStart).
		Delete(&models.WeeklyMealPlan{}).Error; err != nil {
		tx.Rollback()
		return models.NewStorageError("save plan", err)
	}
	if err := tx.Create(plan).Error; err != nil {
		tx.Rollback()
		return models.NewStorageError("save plan", err)
	}
	if err := tx.Commit().Error; err != nil {
		return models.NewStorageError("save plan", err)
	}
	return nil
}

// Get returns the stored plan for (owner, weekStart).
func (r *PlanRepository) Get(owner string, weekStart time.Time) (*models.WeeklyMealPlan, error) {
	var plan models.WeeklyMealPlan
	err := r.db.Where("owner = ? AND week_start = ?", owner, weekStart).First(&plan).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.NewNotFoundError("meal plan", owner+"/"+weekStart.Format("2006-01-02"))
	}
	if err != nil {
		return nil, models.NewStorageError("get plan", err)
	}
	return &plan, nil
}

// lockFor returns the mutex serializing writes for one (owner, week start).
func (r *PlanRepository) lockFor(owner string, weekStart time.Time) *sync.Mutex {
	key := owner + "|" + weekStart.Format("2006-01-02")
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}
