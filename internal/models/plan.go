package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/jinzhu/gorm"
)

// MealSlot represents one of the three daily meal slots
type MealSlot string

const (
	// Meal slots, in planning order
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
)

// Slots lists the meal slots in the order the planner fills them.
func Slots() []MealSlot {
	return []MealSlot{SlotBreakfast, SlotLunch, SlotDinner}
}

// TimeCeilings represents the per-slot maximum cook+prep time in minutes
type TimeCeilings struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
}

// For returns the ceiling for the given slot.
func (t TimeCeilings) For(slot MealSlot) int {
	switch slot {
	case SlotBreakfast:
		return t.Breakfast
	case SlotLunch:
		return t.Lunch
	default:
		return t.Dinner
	}
}

// MealConstraints represents the user constraints a weekly plan is built under
type MealConstraints struct {
	Budget              float64      `json:"budget"`
	TimeCeilings        TimeCeilings `json:"time_ceilings"`
	DietaryRestrictions []string     `json:"dietary_restrictions,omitempty"`
	Servings            int          `json:"servings"`
	BulkCooking         bool         `json:"bulk_cooking"`
	AvailableOverride   []string     `json:"available_override,omitempty"`
}

// PlannedMeal represents a single filled (or empty) slot in a weekly plan
type PlannedMeal struct {
	Date       time.Time `json:"date"`
	Slot       MealSlot  `json:"slot"`
	RecipeID   string    `json:"recipe_id,omitempty"`
	RecipeName string    `json:"recipe_name,omitempty"`
	Cost       float64   `json:"cost"`
	TotalTime  int       `json:"total_time"`
}

// Empty reports whether the slot was left unfilled.
func (m PlannedMeal) Empty() bool {
	return m.RecipeID == ""
}

// WarningCode represents the category of a plan or optimizer warning
type WarningCode string

const (
	// Warning codes surfaced to the consuming UI
	WarnBudgetShortfall WarningCode = "budget_shortfall"
	WarnNoFeasibleMeal  WarningCode = "no_feasible_meal"
	WarnStorageAdvice   WarningCode = "storage_advice"
	WarnItemUnallocated WarningCode = "item_unallocated"
)

// Warning represents a structured, renderable warning attached to a result.
// Warnings are data, not log lines: the UI decides how to present them.
type Warning struct {
	Code    WarningCode `json:"code"`
	Slot    string      `json:"slot,omitempty"`
	Message string      `json:"message"`
}

// WarningList represents warnings persisted as a JSON column
type WarningList []Warning

// Value converts the warning list to JSON for storage
func (w WarningList) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "[]", nil
	}
	return json.Marshal(w)
}

// Scan converts the database value back to a warning list
func (w *WarningList) Scan(value interface{}) error {
	if value == nil {
		*w = WarningList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return errors.New("unsupported type for WarningList")
	}
}

// WeeklyMealPlan represents a 7-day, 3-meals-a-day plan for a single user.
// Regenerating a plan for the same (owner, week start) replaces the stored
// plan wholesale; plans are never merged.
type WeeklyMealPlan struct {
	gorm.Model
	Owner        string    `gorm:"index"`
	WeekStart    time.Time `gorm:"index"`
	MealsJSON    string    `gorm:"type:text"`
	ShoppingJSON string    `gorm:"type:text"`
	TotalCost    float64
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Warnings     WarningList `gorm:"type:text"`
	// Transient fields (ignored by GORM)
	Meals        []PlannedMeal  `gorm:"-" json:"meals,omitempty"`
	ShoppingList []ShoppingItem `gorm:"-" json:"shopping_list,omitempty"`
}

// TableName sets the table name for WeeklyMealPlan
func (WeeklyMealPlan) TableName() string {
	return "weekly_meal_plans"
}

// GetMeals returns the deserialized planned meals
func (p *WeeklyMealPlan) GetMeals() ([]PlannedMeal, error) {
	if len(p.Meals) > 0 {
		return p.Meals, nil
	}
	var meals []PlannedMeal
	if p.MealsJSON == "" {
		return meals, nil
	}
	if err := json.Unmarshal([]byte(p.MealsJSON), &meals); err != nil {
		return nil, err
	}
	p.Meals = meals
	return meals, nil
}

// SetMeals serializes the planned meals for storage
func (p *WeeklyMealPlan) SetMeals(meals []PlannedMeal) error {
	data, err := json.Marshal(meals)
	if err != nil {
		return err
	}
	p.MealsJSON = string(data)
	p.Meals = meals
	return nil
}

// GetShoppingList returns the deserialized shopping list
func (p *WeeklyMealPlan) GetShoppingList() ([]ShoppingItem, error) {
	if len(p.ShoppingList) > 0 {
		return p.ShoppingList, nil
	}
	var items []ShoppingItem
	if p.ShoppingJSON == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(p.ShoppingJSON), &items); err != nil {
		return nil, err
	}
	p.ShoppingList = items
	return items, nil
}

// SetShoppingList serializes the shopping list for storage
func (p *WeeklyMealPlan) SetShoppingList(items []ShoppingItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	p.ShoppingJSON = string(data)
	p.ShoppingList = items
	return nil
}

// NutritionSummaryOf returns the plan's aggregate nutrition.
func (p *WeeklyMealPlan) NutritionSummaryOf() NutritionSummary {
	return NutritionSummary{Calories: p.Calories, Protein: p.Protein, Carbs: p.Carbs, Fat: p.Fat}
}
