package planner

import (
	"testing"
	"time"

	"pantrypilot/internal/models"
	"pantrypilot/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	recipes []models.Recipe
}

func (f *fakeCatalog) Recipes() ([]models.Recipe, error) {
	return f.recipes, nil
}

type fakeInventory struct {
	items []models.InventoryItem
}

func (f *fakeInventory) ListItems(owner string) ([]models.InventoryItem, error) {
	return f.items, nil
}

func testRecipe(t *testing.T, id, name string, cook, prep, servings int, tags []string, ingredients ...models.Ingredient) models.Recipe {
	t.Helper()
	r := models.Recipe{
		RecipeID:    id,
		Name:        name,
		CookingTime: cook,
		PrepTime:    prep,
		Difficulty:  1,
		Servings:    servings,
		Tags:        models.StringSlice(tags),
	}
	require.NoError(t, r.SetIngredients(ingredients))
	return r
}

func weekCatalog(t *testing.T) *fakeCatalog {
	t.Helper()
	return &fakeCatalog{recipes: []models.Recipe{
		testRecipe(t, "r-eggs", "Scrambled Eggs", 5, 3, 2, []string{"breakfast"},
			models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"}),
		testRecipe(t, "r-pasta", "Tomato Pasta", 15, 5, 2, []string{"lunch", "dinner"},
			models.Ingredient{Name: "pasta", Quantity: 150, Unit: "g"},
			models.Ingredient{Name: "tomatoes", Quantity: 2, Unit: "pc"}),
	}}
}

func defaultConstraints() models.MealConstraints {
	return models.MealConstraints{
		Budget:       150,
		TimeCeilings: models.TimeCeilings{Breakfast: 15, Lunch: 45, Dinner: 45},
		Servings:     2,
	}
}

func monday() time.Time {
	return time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
}

func TestGenerateWeeklyPlanValidation(t *testing.T) {
	p := NewPlanner(weekCatalog(t), &fakeInventory{}, scoring.NewEngine())
	var validation *models.ValidationError

	bad := defaultConstraints()
	bad.Budget = 0
	_, err := p.GenerateWeeklyPlan("alice", monday(), bad)
	assert.ErrorAs(t, err, &validation)

	bad = defaultConstraints()
	bad.TimeCeilings.Lunch = 0
	_, err = p.GenerateWeeklyPlan("alice", monday(), bad)
	assert.ErrorAs(t, err, &validation)

	bad = defaultConstraints()
	bad.Servings = -1
	_, err = p.GenerateWeeklyPlan("alice", monday(), bad)
	assert.ErrorAs(t, err, &validation)
}

func TestGenerateWeeklyPlanFillsEverySlot(t *testing.T) {
	inv := &fakeInventory{items: []models.InventoryItem{
		{Name: "eggs", Quantity: 6, Unit: "pc", Owner: "alice"},
		{Name: "pasta", Quantity: 500, Unit: "g", Owner: "alice"},
	}}
	p := NewPlanner(weekCatalog(t), inv, scoring.NewEngine())

	plan, err := p.GenerateWeeklyPlan("alice", monday(), defaultConstraints())
	require.NoError(t, err)

	meals, err := plan.GetMeals()
	require.NoError(t, err)
	require.Len(t, meals, 21)

	for _, meal := range meals {
		require.False(t, meal.Empty(), "slot %s/%s left empty", meal.Date.Format("2006-01-02"), meal.Slot)
		switch meal.Slot {
		case models.SlotBreakfast:
			assert.Equal(t, "Scrambled Eggs", meal.RecipeName)
		default:
			assert.Equal(t, "Tomato Pasta", meal.RecipeName)
		}
	}
	assert.Empty(t, plan.Warnings)
	assert.LessOrEqual(t, plan.TotalCost, 150.0)
	assert.Greater(t, plan.TotalCost, 0.0)
}

func TestShoppingDeltaNetsInventory(t *testing.T) {
	inv := &fakeInventory{items: []models.InventoryItem{
		{Name: "eggs", Quantity: 6, Unit: "pc", Owner: "alice"},
		{Name: "pasta", Quantity: 500, Unit: "g", Owner: "alice"},
	}}
	p := NewPlanner(weekCatalog(t), inv, scoring.NewEngine())

	plan, err := p.GenerateWeeklyPlan("alice", monday(), defaultConstraints())
	require.NoError(t, err)

	list, err := plan.GetShoppingList()
	require.NoError(t, err)

	byName := make(map[string]models.ShoppingItem)
	for _, item := range list {
		byName[item.Name] = item
	}

	// 7 breakfasts need 14 eggs, 6 on hand.
	eggs, ok := byName["eggs"]
	require.True(t, ok)
	assert.Equal(t, 8.0, eggs.Quantity)
	assert.Equal(t, models.PriorityEssential, eggs.Priority)

	// 14 pasta meals need 2100g, 500g on hand.
	pasta, ok := byName["pasta"]
	require.True(t, ok)
	assert.Equal(t, 1600.0, pasta.Quantity)
}

func TestGenerateWeeklyPlanBudgetShortfall(t *testing.T) {
	p := NewPlanner(weekCatalog(t), &fakeInventory{}, scoring.NewEngine())

	constraints := defaultConstraints()
	constraints.Budget = 10

	plan, err := p.GenerateWeeklyPlan("alice", monday(), constraints)
	require.NoError(t, err)

	shortfalls := 0
	for _, w := range plan.Warnings {
		if w.Code == models.WarnBudgetShortfall {
			shortfalls++
		}
	}
	assert.Greater(t, shortfalls, 0)
	assert.LessOrEqual(t, plan.TotalCost, constraints.Budget)

	meals, err := plan.GetMeals()
	require.NoError(t, err)
	require.Len(t, meals, 21)
	empty := 0
	for _, meal := range meals {
		if meal.Empty() {
			empty++
		}
	}
	assert.Equal(t, shortfalls, empty)
}

func TestGenerateWeeklyPlanNoFeasibleMeal(t *testing.T) {
	p := NewPlanner(weekCatalog(t), &fakeInventory{}, scoring.NewEngine())

	constraints := defaultConstraints()
	constraints.DietaryRestrictions = []string{"eggs", "pasta"}

	plan, err := p.GenerateWeeklyPlan("alice", monday(), constraints)
	require.NoError(t, err)

	require.Len(t, plan.Warnings, 21)
	for _, w := range plan.Warnings {
		assert.Equal(t, models.WarnNoFeasibleMeal, w.Code)
		assert.NotEmpty(t, w.Slot)
	}
	assert.Zero(t, plan.TotalCost)
}

func TestGenerateWeeklyPlanRespectsCeilings(t *testing.T) {
	catalog := &fakeCatalog{recipes: []models.Recipe{
		testRecipe(t, "r-roast", "Sunday Roast", 90, 30, 4, nil,
			models.Ingredient{Name: "chicken", Quantity: 1, Unit: "kg"}),
	}}
	p := NewPlanner(catalog, &fakeInventory{}, scoring.NewEngine())

	plan, err := p.GenerateWeeklyPlan("alice", monday(), defaultConstraints())
	require.NoError(t, err)

	// 120 minutes exceeds twice every slot ceiling.
	meals, err := plan.GetMeals()
	require.NoError(t, err)
	for _, meal := range meals {
		assert.True(t, meal.Empty())
	}
	require.Len(t, plan.Warnings, 21)
}

func TestGenerateWeeklyPlanNeverFillsSlotOverCeiling(t *testing.T) {
	// 60 minutes sits inside the engine's 2x tolerance for 45-minute
	// ceilings, but a filled slot must still respect the ceiling itself.
	catalog := &fakeCatalog{recipes: []models.Recipe{
		testRecipe(t, "r-stew", "Slow Stew", 45, 15, 2, nil,
			models.Ingredient{Name: "beef", Quantity: 500, Unit: "g"}),
	}}
	p := NewPlanner(catalog, &fakeInventory{}, scoring.NewEngine())

	constraints := defaultConstraints()
	constraints.TimeCeilings = models.TimeCeilings{Breakfast: 45, Lunch: 45, Dinner: 45}

	plan, err := p.GenerateWeeklyPlan("alice", monday(), constraints)
	require.NoError(t, err)

	meals, err := plan.GetMeals()
	require.NoError(t, err)
	for _, meal := range meals {
		assert.True(t, meal.Empty(), "slot %s filled with a %d-minute recipe over its ceiling", meal.Slot, meal.TotalTime)
	}
	require.Len(t, plan.Warnings, 21)
	for _, w := range plan.Warnings {
		assert.Equal(t, models.WarnNoFeasibleMeal, w.Code)
	}
}

func TestGenerateWeeklyPlanPrefersFeasibleOverHigherRanked(t *testing.T) {
	// The stew outranks the salad on ingredient match but breaches the
	// ceiling; the slot must take the feasible salad instead.
	catalog := &fakeCatalog{recipes: []models.Recipe{
		testRecipe(t, "r-stew", "Slow Stew", 45, 15, 2, nil,
			models.Ingredient{Name: "beef", Quantity: 500, Unit: "g"}),
		testRecipe(t, "r-salad", "Quick Salad", 5, 15, 2, nil,
			models.Ingredient{Name: "cucumber", Quantity: 1, Unit: "pc"}),
	}}
	inv := &fakeInventory{items: []models.InventoryItem{
		{Name: "beef", Quantity: 2000, Unit: "g", Owner: "alice"},
	}}
	p := NewPlanner(catalog, inv, scoring.NewEngine())

	constraints := defaultConstraints()
	constraints.TimeCeilings = models.TimeCeilings{Breakfast: 45, Lunch: 45, Dinner: 45}

	plan, err := p.GenerateWeeklyPlan("alice", monday(), constraints)
	require.NoError(t, err)

	meals, err := plan.GetMeals()
	require.NoError(t, err)
	for _, meal := range meals {
		require.False(t, meal.Empty())
		assert.Equal(t, "Quick Salad", meal.RecipeName)
		assert.LessOrEqual(t, meal.TotalTime, 45)
	}
	assert.Empty(t, plan.Warnings)
}

func TestEligibleForSlot(t *testing.T) {
	tagged := models.Recipe{Tags: models.StringSlice{"Breakfast"}}
	assert.True(t, eligibleForSlot(tagged, models.SlotBreakfast))
	assert.False(t, eligibleForSlot(tagged, models.SlotDinner))

	untagged := models.Recipe{Tags: models.StringSlice{"vegetarian"}}
	assert.True(t, eligibleForSlot(untagged, models.SlotBreakfast))
	assert.True(t, eligibleForSlot(untagged, models.SlotDinner))
}
