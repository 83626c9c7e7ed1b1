package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jinzhu/gorm"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Recipe represents a recipe in the read-only catalog. The planning core
// never mutates recipes; it only scores and selects them.
type Recipe struct {
	gorm.Model
	RecipeID        string `gorm:"column:recipe_id;unique_index"`
	Name            string
	IngredientsJSON string `gorm:"type:text"`
	Instructions    string `gorm:"type:text"`
	CookingTime     int    // minutes
	PrepTime        int    // minutes
	Difficulty      int    // 1-5
	Servings        int
	Calories        float64
	Protein         float64
	Carbs           float64
	Fat             float64
	FridgeDays      int
	FreezerDays     int
	BulkMultiplier  float64
	Tags            StringSlice `gorm:"type:text"`
	Visibility      string
	// Transient fields (ignored by GORM)
	Ingredients []Ingredient `gorm:"-" json:"ingredients,omitempty"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// TotalTime returns cooking plus preparation time in minutes.
func (r *Recipe) TotalTime() int {
	return r.CookingTime + r.PrepTime
}

// GetIngredients returns the deserialized ingredients
func (r *Recipe) GetIngredients() ([]Ingredient, error) {
	if len(r.Ingredients) > 0 {
		return r.Ingredients, nil
	}
	var ingredients []Ingredient
	if r.IngredientsJSON == "" {
		return ingredients, nil
	}
	if err := json.Unmarshal([]byte(r.IngredientsJSON), &ingredients); err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return ingredients, nil
}

// SetIngredients serializes the ingredients for storage
func (r *Recipe) SetIngredients(ingredients []Ingredient) error {
	data, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}
	r.IngredientsJSON = string(data)
	r.Ingredients = ingredients
	return nil
}

// Ingredient represents a required ingredient for a recipe
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Optional bool    `json:"optional,omitempty"`
}

// NutritionSummary represents aggregate nutrition across a plan
type NutritionSummary struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
