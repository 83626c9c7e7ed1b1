package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"pantrypilot/internal/models"
)

const (
	// Aggregate score weights
	weightIngredients = 0.4
	weightTime        = 0.3
	weightDifficulty  = 0.2
	weightBulk        = 0.1

	// bulkThreshold is the multiplier above which a recipe counts as
	// batch-friendly
	bulkThreshold = 1.5

	// DefaultLimit bounds the size of a ranked result list
	DefaultLimit = 10
)

// Request represents one scoring query: the candidate set and the constraint
// vector to rank it against.
type Request struct {
	Candidates           []models.Recipe
	AvailableIngredients []string
	TimeCeiling          int // minutes, per slot
	MaxDifficulty        int // 1-5; zero means no preference
	DietaryRestrictions  []string
	BulkCooking          bool
	Limit                int // zero means DefaultLimit
}

// Breakdown represents the per-criterion sub-scores behind an aggregate score
type Breakdown struct {
	IngredientMatch float64 `json:"ingredient_match"`
	TimeMatch       float64 `json:"time_match"`
	DifficultyMatch float64 `json:"difficulty_match"`
	BulkBonus       float64 `json:"bulk_bonus"`
}

// ScoredRecipe represents a candidate with its aggregate score and breakdown
type ScoredRecipe struct {
	Recipe    models.Recipe `json:"recipe"`
	Score     float64       `json:"score"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Engine ranks candidate recipes against a constraint vector. It is pure:
// no persistence, no clock, deterministic output for a given input.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Rank scores the candidates and returns them best-first. Recipes whose
// total time exceeds twice the ceiling or that contain a restricted
// ingredient are dropped outright rather than scored. An empty candidate set
// yields an empty slice, never an error. Ties break on lower total time,
// then name, so results are deterministic.
func (e *Engine) Rank(req Request) []ScoredRecipe {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	available := lowerSet(req.AvailableIngredients)

	scored := make([]ScoredRecipe, 0, len(req.Candidates))
	for _, recipe := range req.Candidates {
		if req.TimeCeiling > 0 && recipe.TotalTime() > 2*req.TimeCeiling {
			continue
		}
		ingredients, err := recipe.GetIngredients()
		if err != nil {
			continue
		}
		if containsRestricted(ingredients, req.DietaryRestrictions) {
			continue
		}

		breakdown := Breakdown{
			IngredientMatch: ingredientMatch(ingredients, available),
			TimeMatch:       timeMatch(recipe.TotalTime(), req.TimeCeiling),
			DifficultyMatch: difficultyMatch(recipe.Difficulty, req.MaxDifficulty),
			BulkBonus:       bulkBonus(recipe, req.BulkCooking),
		}
		score := weightIngredients*breakdown.IngredientMatch +
			weightTime*breakdown.TimeMatch +
			weightDifficulty*breakdown.DifficultyMatch +
			weightBulk*breakdown.BulkBonus

		scored = append(scored, ScoredRecipe{Recipe: recipe, Score: score, Breakdown: breakdown})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		ti, tj := scored[i].Recipe.TotalTime(), scored[j].Recipe.TotalTime()
		if ti != tj {
			return ti < tj
		}
		return scored[i].Recipe.Name < scored[j].Recipe.Name
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// ingredientMatch returns the share of the recipe's ingredients already on
// hand, 0-100. A recipe with no ingredients trivially matches.
func ingredientMatch(ingredients []models.Ingredient, available map[string]bool) float64 {
	if len(ingredients) == 0 {
		return 100
	}
	matched := 0
	for _, ing := range ingredients {
		if matchesAvailable(ing.Name, available) {
			matched++
		}
	}
	return float64(matched) / float64(len(ingredients)) * 100
}

// timeMatch is 100 at or under the ceiling and decays linearly to 0 at twice
// the ceiling. A zero ceiling disables the criterion.
func timeMatch(totalTime, ceiling int) float64 {
	if ceiling <= 0 || totalTime <= ceiling {
		return 100
	}
	if totalTime >= 2*ceiling {
		return 0
	}
	return 100 * float64(2*ceiling-totalTime) / float64(ceiling)
}

// difficultyMatch penalizes 20 points per difficulty step above the maximum.
func difficultyMatch(difficulty, maxDifficulty int) float64 {
	if maxDifficulty <= 0 {
		return 100
	}
	over := difficulty - maxDifficulty
	if over <= 0 {
		return 100
	}
	score := 100 - 20*float64(over)
	if score < 0 {
		return 0
	}
	return score
}

// bulkBonus rewards batch-friendly recipes, but only when the user actually
// wants to bulk cook.
func bulkBonus(recipe models.Recipe, bulkCooking bool) float64 {
	if !bulkCooking || recipe.BulkMultiplier <= bulkThreshold {
		return 0
	}
	return 100
}

// containsRestricted reports whether any recipe ingredient matches a dietary
// restriction. Matching is a case-insensitive substring check in both
// directions, so "nuts" excludes "peanuts" and "dairy" excludes items tagged
// with the full restriction name.
func containsRestricted(ingredients []models.Ingredient, restrictions []string) bool {
	for _, restriction := range restrictions {
		r := strings.ToLower(strings.TrimSpace(restriction))
		if r == "" {
			continue
		}
		for _, ing := range ingredients {
			name := strings.ToLower(ing.Name)
			if strings.Contains(name, r) || strings.Contains(r, name) {
				return true
			}
		}
	}
	return false
}

// matchesAvailable reports whether an ingredient name is covered by the
// available set, tolerating simple plural/partial differences.
func matchesAvailable(name string, available map[string]bool) bool {
	lower := strings.ToLower(name)
	if available[lower] {
		return true
	}
	for have := range available {
		if strings.Contains(lower, have) || strings.Contains(have, lower) {
			return true
		}
	}
	return false
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}

// BulkPlan represents how many batches to cook and where to keep them
type BulkPlan struct {
	Multiplier int             `json:"multiplier"`
	Storage    string          `json:"storage"`
	Warning    *models.Warning `json:"warning,omitempty"`
}

// BulkSizing works out the batch multiplier needed to cover the requested
// servings over a horizon of days, and where the surplus should be stored.
// When neither fridge nor freezer can hold the batch for the horizon, the
// advice degrades to cooking smaller batches.
func BulkSizing(recipe models.Recipe, servings, days int) BulkPlan {
	if recipe.Servings <= 0 || servings <= 0 || days <= 0 {
		return BulkPlan{Multiplier: 1}
	}

	multiplier := int(math.Ceil(float64(servings*days) / float64(recipe.Servings)))
	if multiplier < 1 {
		multiplier = 1
	}

	plan := BulkPlan{Multiplier: multiplier}
	switch {
	case days <= recipe.FridgeDays:
		plan.Storage = string(models.LocationFridge)
	case recipe.FreezerDays > 0:
		plan.Storage = string(models.LocationFreezer)
	default:
		plan.Warning = &models.Warning{
			Code:    models.WarnStorageAdvice,
			Message: fmt.Sprintf("batch will not keep for %d days; cook smaller batches", days),
		}
	}
	return plan
}
