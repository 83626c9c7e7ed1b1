package scoring

import (
	"testing"

	"pantrypilot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipe(t *testing.T, id, name string, cook, prep, difficulty, servings int, bulk float64, ingredients ...models.Ingredient) models.Recipe {
	t.Helper()
	r := models.Recipe{
		RecipeID:       id,
		Name:           name,
		CookingTime:    cook,
		PrepTime:       prep,
		Difficulty:     difficulty,
		Servings:       servings,
		BulkMultiplier: bulk,
	}
	require.NoError(t, r.SetIngredients(ingredients))
	return r
}

func TestRankEmptyCandidates(t *testing.T) {
	engine := NewEngine()

	result := engine.Rank(Request{TimeCeiling: 30})

	assert.Empty(t, result)
}

func TestRankExcludesOverTwiceCeiling(t *testing.T) {
	engine := NewEngine()
	slow := recipe(t, "r1", "Slow Roast", 50, 15, 2, 2, 1,
		models.Ingredient{Name: "beef", Quantity: 1, Unit: "kg"})

	result := engine.Rank(Request{
		Candidates:  []models.Recipe{slow},
		TimeCeiling: 30, // 65 minutes > 2×30
	})

	assert.Empty(t, result)
}

func TestRankExcludesRestrictedIngredients(t *testing.T) {
	engine := NewEngine()
	omelette := recipe(t, "r1", "Omelette", 5, 5, 1, 1, 1,
		models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"})
	porridge := recipe(t, "r2", "Porridge", 5, 2, 1, 1, 1,
		models.Ingredient{Name: "oats", Quantity: 50, Unit: "g"})

	result := engine.Rank(Request{
		Candidates:          []models.Recipe{omelette, porridge},
		TimeCeiling:         30,
		DietaryRestrictions: []string{"eggs"},
	})

	require.Len(t, result, 1)
	assert.Equal(t, "Porridge", result[0].Recipe.Name)
}

func TestTimeMatchDecay(t *testing.T) {
	assert.Equal(t, 100.0, timeMatch(20, 30))
	assert.Equal(t, 100.0, timeMatch(30, 30))
	assert.Equal(t, 50.0, timeMatch(45, 30))
	assert.Equal(t, 0.0, timeMatch(60, 30))
}

func TestDifficultyPenalty(t *testing.T) {
	assert.Equal(t, 100.0, difficultyMatch(2, 3))
	assert.Equal(t, 80.0, difficultyMatch(4, 3))
	assert.Equal(t, 60.0, difficultyMatch(5, 3))
	assert.Equal(t, 100.0, difficultyMatch(5, 0)) // no preference
}

func TestRankPrefersAvailableIngredients(t *testing.T) {
	engine := NewEngine()
	eggs := recipe(t, "r1", "Boiled Eggs", 6, 2, 1, 1, 1,
		models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"})
	pancakes := recipe(t, "r2", "Pancakes", 5, 5, 2, 1, 1,
		models.Ingredient{Name: "flour", Quantity: 100, Unit: "g"},
		models.Ingredient{Name: "milk", Quantity: 200, Unit: "ml"})

	result := engine.Rank(Request{
		Candidates:           []models.Recipe{pancakes, eggs},
		AvailableIngredients: []string{"eggs"},
		TimeCeiling:          10,
	})

	require.Len(t, result, 2)
	assert.Equal(t, "Boiled Eggs", result[0].Recipe.Name)
	assert.Equal(t, 100.0, result[0].Breakdown.IngredientMatch)
	assert.Equal(t, 0.0, result[1].Breakdown.IngredientMatch)
}

func TestRankTieBreaksOnTimeThenName(t *testing.T) {
	engine := NewEngine()
	// Identical scores except total time.
	quick := recipe(t, "r1", "Zucchini Frittata", 5, 5, 1, 1, 1,
		models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"})
	slower := recipe(t, "r2", "Avocado Frittata", 10, 5, 1, 1, 1,
		models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"})
	sameTime := recipe(t, "r3", "Basil Frittata", 5, 5, 1, 1, 1,
		models.Ingredient{Name: "eggs", Quantity: 2, Unit: "pc"})

	result := engine.Rank(Request{
		Candidates:           []models.Recipe{slower, quick, sameTime},
		AvailableIngredients: []string{"eggs"},
		TimeCeiling:          30,
	})

	require.Len(t, result, 3)
	assert.Equal(t, "Basil Frittata", result[0].Recipe.Name)
	assert.Equal(t, "Zucchini Frittata", result[1].Recipe.Name)
	assert.Equal(t, "Avocado Frittata", result[2].Recipe.Name)
}

func TestBulkBonusOnlyWhenRequested(t *testing.T) {
	chili := models.Recipe{Name: "Chili", BulkMultiplier: 2.5}
	stirFry := models.Recipe{Name: "Stir Fry", BulkMultiplier: 1.0}

	assert.Equal(t, 100.0, bulkBonus(chili, true))
	assert.Equal(t, 0.0, bulkBonus(chili, false))
	assert.Equal(t, 0.0, bulkBonus(stirFry, true))
}

func TestRankBoundsResultSize(t *testing.T) {
	engine := NewEngine()
	var candidates []models.Recipe
	for i := 0; i < 15; i++ {
		candidates = append(candidates, recipe(t, "r", "Recipe", 5, 5, 1, 1, 1))
	}

	result := engine.Rank(Request{Candidates: candidates, TimeCeiling: 30})

	assert.Len(t, result, DefaultLimit)
}

func TestBulkSizing(t *testing.T) {
	chili := models.Recipe{Name: "Chili", Servings: 4, FridgeDays: 4, FreezerDays: 60}

	plan := BulkSizing(chili, 2, 3)
	assert.Equal(t, 2, plan.Multiplier) // ceil(6/4)
	assert.Equal(t, "fridge", plan.Storage)
	assert.Nil(t, plan.Warning)

	plan = BulkSizing(chili, 2, 7)
	assert.Equal(t, "freezer", plan.Storage)

	delicate := models.Recipe{Name: "Salad", Servings: 2, FridgeDays: 1, FreezerDays: 0}
	plan = BulkSizing(delicate, 2, 5)
	require.NotNil(t, plan.Warning)
	assert.Equal(t, models.WarnStorageAdvice, plan.Warning.Code)
	assert.Empty(t, plan.Storage)
}
