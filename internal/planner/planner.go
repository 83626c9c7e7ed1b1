package planner

import (
	"fmt"
	"strings"
	"time"

	"pantrypilot/internal/inventory"
	"pantrypilot/internal/models"
	"pantrypilot/internal/scoring"
)

const planDays = 7

// Catalog is the read-only recipe source the planner scores against.
type Catalog interface {
	Recipes() ([]models.Recipe, error)
}

// InventorySource lists a user's current stock.
type InventorySource interface {
	ListItems(owner string) ([]models.InventoryItem, error)
}

// Planner builds weekly meal plans: it queries the scoring engine slot by
// slot, keeps a running budget, and derives the consolidated shopping delta.
// Infeasible slots degrade to warnings; plan generation never aborts after
// validation has passed.
type Planner struct {
	catalog   Catalog
	inventory InventorySource
	engine    *scoring.Engine
}

// NewPlanner creates a meal plan planner.
func NewPlanner(catalog Catalog, inv InventorySource, engine *scoring.Engine) *Planner {
	return &Planner{catalog: catalog, inventory: inv, engine: engine}
}

// GenerateWeeklyPlan builds a 7-day, 3-meals-a-day plan for the owner's week
// starting at weekStart. Constraints are validated before anything else;
// invalid constraints return a ValidationError with no side effects.
func (p *Planner) GenerateWeeklyPlan(owner string, weekStart time.Time, constraints models.MealConstraints) (*models.WeeklyMealPlan, error) {
	if err := validateConstraints(constraints); err != nil {
		return nil, err
	}

	recipes, err := p.catalog.Recipes()
	if err != nil {
		return nil, err
	}
	items, err := p.inventory.ListItems(owner)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(items)+len(constraints.AvailableOverride))
	for _, item := range items {
		available = append(available, item.Name)
	}
	available = append(available, constraints.AvailableOverride...)

	plan := &models.WeeklyMealPlan{Owner: owner, WeekStart: weekStart}
	var meals []models.PlannedMeal
	var warnings models.WarningList
	runningCost := 0.0
	var chosen []chosenMeal

	for day := 0; day < planDays; day++ {
		date := weekStart.AddDate(0, 0, day)
		for _, slot := range models.Slots() {
			meal := models.PlannedMeal{Date: date, Slot: slot}
			ceiling := constraints.TimeCeilings.For(slot)

			ranked := p.engine.Rank(scoring.Request{
				Candidates:           filterBySlot(recipes, slot),
				AvailableIngredients: available,
				TimeCeiling:          ceiling,
				DietaryRestrictions:  constraints.DietaryRestrictions,
				BulkCooking:          constraints.BulkCooking,
			})
			ranked = withinCeiling(ranked, ceiling)

			if len(ranked) == 0 {
				warnings = append(warnings, models.Warning{
					Code:    models.WarnNoFeasibleMeal,
					Slot:    slotKey(date, slot),
					Message: "no recipe fits this slot's constraints",
				})
				meals = append(meals, meal)
				continue
			}

			pick, cost, ok := pickWithinBudget(ranked, constraints, runningCost)
			if !ok {
				warnings = append(warnings, models.Warning{
					Code:    models.WarnBudgetShortfall,
					Slot:    slotKey(date, slot),
					Message: "remaining budget cannot cover any feasible recipe",
				})
				meals = append(meals, meal)
				continue
			}

			runningCost += cost
			meal.RecipeID = pick.RecipeID
			meal.RecipeName = pick.Name
			meal.Cost = round2(cost)
			meal.TotalTime = pick.TotalTime()
			meals = append(meals, meal)
			chosen = append(chosen, chosenMeal{recipe: pick, servings: constraints.Servings})

			if constraints.BulkCooking && pick.BulkMultiplier > 1.5 {
				bulk := scoring.BulkSizing(pick, constraints.Servings, planDays-day)
				if bulk.Warning != nil {
					w := *bulk.Warning
					w.Slot = slotKey(date, slot)
					warnings = append(warnings, w)
				}
			}
		}
	}

	if err := plan.SetMeals(meals); err != nil {
		return nil, fmt.Errorf("failed to serialize meals: %w", err)
	}

	delta := shoppingDelta(chosen, items)
	if err := plan.SetShoppingList(delta); err != nil {
		return nil, fmt.Errorf("failed to serialize shopping list: %w", err)
	}

	plan.TotalCost = round2(runningCost)
	plan.Warnings = warnings
	addNutrition(plan, chosen)
	return plan, nil
}

type chosenMeal struct {
	recipe   models.Recipe
	servings int
}

func validateConstraints(c models.MealConstraints) error {
	if c.Budget <= 0 {
		return models.NewValidationError("budget", "must be positive")
	}
	if c.TimeCeilings.Breakfast <= 0 || c.TimeCeilings.Lunch <= 0 || c.TimeCeilings.Dinner <= 0 {
		return models.NewValidationError("time_ceilings", "every slot ceiling must be positive")
	}
	if c.Servings <= 0 {
		return models.NewValidationError("servings", "must be positive")
	}
	return nil
}

// withinCeiling drops ranked candidates whose total time exceeds the slot
// ceiling. The engine tolerates candidates up to twice the ceiling so its
// scores stay informative; a filled slot never may.
func withinCeiling(ranked []scoring.ScoredRecipe, ceiling int) []scoring.ScoredRecipe {
	if ceiling <= 0 {
		return ranked
	}
	var out []scoring.ScoredRecipe
	for _, candidate := range ranked {
		if candidate.Recipe.TotalTime() <= ceiling {
			out = append(out, candidate)
		}
	}
	return out
}

// pickWithinBudget takes the top-ranked recipe whose cost keeps the running
// total inside budget. When the top choice would blow the budget it falls
// back to the cheapest feasible option; when nothing fits, the slot stays
// empty.
func pickWithinBudget(ranked []scoring.ScoredRecipe, constraints models.MealConstraints, runningCost float64) (models.Recipe, float64, bool) {
	top := ranked[0].Recipe
	topCost := recipeCost(top, constraints.Servings)
	if runningCost+topCost <= constraints.Budget {
		return top, topCost, true
	}

	bestCost := -1.0
	var best models.Recipe
	for _, candidate := range ranked {
		cost := recipeCost(candidate.Recipe, constraints.Servings)
		if runningCost+cost > constraints.Budget {
			continue
		}
		if bestCost < 0 || cost < bestCost {
			best, bestCost = candidate.Recipe, cost
		}
	}
	if bestCost < 0 {
		return models.Recipe{}, 0, false
	}
	return best, bestCost, true
}

// recipeCost estimates what the recipe's required ingredients cost at the
// requested servings, using category baselines. Optional ingredients are
// excluded.
func recipeCost(recipe models.Recipe, servings int) float64 {
	ingredients, err := recipe.GetIngredients()
	if err != nil {
		return 0
	}
	scale := 1.0
	if recipe.Servings > 0 {
		scale = float64(servings) / float64(recipe.Servings)
	}
	cost := 0.0
	for _, ing := range ingredients {
		if ing.Optional {
			continue
		}
		base, ok := models.BaselineCostFor(string(inventory.Categorize(ing.Name)))
		if !ok {
			base = 1.0
		}
		cost += base * scale
	}
	return cost
}

// filterBySlot keeps recipes tagged for the slot. Recipes carrying none of
// the three slot tags are eligible anywhere.
func filterBySlot(recipes []models.Recipe, slot models.MealSlot) []models.Recipe {
	var out []models.Recipe
	for _, recipe := range recipes {
		if eligibleForSlot(recipe, slot) {
			out = append(out, recipe)
		}
	}
	return out
}

func eligibleForSlot(recipe models.Recipe, slot models.MealSlot) bool {
	hasSlotTag := false
	for _, tag := range recipe.Tags {
		switch models.MealSlot(strings.ToLower(tag)) {
		case slot:
			return true
		case models.SlotBreakfast, models.SlotLunch, models.SlotDinner:
			hasSlotTag = true
		}
	}
	return !hasSlotTag
}

// shoppingDelta consolidates the chosen recipes' required quantities, nets
// out current inventory (clamped at zero), and tags items essential when any
// source ingredient is non-optional. Scarce inventory never blocked
// selection; the unmet need lands here instead.
func shoppingDelta(chosen []chosenMeal, stock []models.InventoryItem) []models.ShoppingItem {
	type need struct {
		quantity  float64
		unit      string
		essential bool
	}
	needs := make(map[string]*need)
	var order []string

	for _, meal := range chosen {
		ingredients, err := meal.recipe.GetIngredients()
		if err != nil {
			continue
		}
		scale := 1.0
		if meal.recipe.Servings > 0 {
			scale = float64(meal.servings) / float64(meal.recipe.Servings)
		}
		for _, ing := range ingredients {
			key := strings.ToLower(ing.Name)
			n, ok := needs[key]
			if !ok {
				n = &need{unit: ing.Unit}
				needs[key] = n
				order = append(order, key)
			}
			n.quantity += ing.Quantity * scale
			if !ing.Optional {
				n.essential = true
			}
		}
	}

	onHand := make(map[string]float64)
	for _, item := range stock {
		onHand[strings.ToLower(item.Name)] += item.Quantity
	}

	var delta []models.ShoppingItem
	for _, key := range order {
		n := needs[key]
		remaining := n.quantity - onHand[key]
		if remaining <= 0 {
			continue
		}
		priority := models.PriorityOptional
		if n.essential {
			priority = models.PriorityEssential
		}
		category := string(inventory.Categorize(key))
		cost, _ := models.BaselineCostFor(category)
		delta = append(delta, models.ShoppingItem{
			Name:          key,
			Quantity:      round2(remaining),
			Unit:          n.unit,
			Priority:      priority,
			Category:      category,
			EstimatedCost: cost,
		})
	}
	return delta
}

func addNutrition(plan *models.WeeklyMealPlan, chosen []chosenMeal) {
	for _, meal := range chosen {
		scale := 1.0
		if meal.recipe.Servings > 0 {
			scale = float64(meal.servings) / float64(meal.recipe.Servings)
		}
		plan.Calories += meal.recipe.Calories * scale
		plan.Protein += meal.recipe.Protein * scale
		plan.Carbs += meal.recipe.Carbs * scale
		plan.Fat += meal.recipe.Fat * scale
	}
}

func slotKey(date time.Time, slot models.MealSlot) string {
	return date.Format("2006-01-02") + "/" + string(slot)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
