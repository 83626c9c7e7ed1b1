package database

import (
	"fmt"
	"time"

	"pantrypilot/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var db *gorm.DB

// InitDB initializes the database connection for the configured driver
func InitDB(driver, dsn string) error {
	var err error
	db, err = gorm.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Migrate creates and updates all required tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.InventoryItem{},
		&models.Recipe{},
		&models.WeeklyMealPlan{},
		&models.Store{},
	).Error
}

// SeedDefaultData ensures essential reference data exists in the database
func SeedDefaultData(db *gorm.DB) error {
	var storeCount int64
	db.Model(&models.Store{}).Count(&storeCount)
	if storeCount == 0 {
		defaultStores := []models.Store{
			{StoreID: "aldi-central", Name: "Aldi Central", Lat: 51.4545, Lng: -2.5879, OpeningHours: "08:00-22:00", PriceLevel: string(models.PriceBudget), Rating: 4.0},
			{StoreID: "tesco-metro", Name: "Tesco Metro", Lat: 51.4560, Lng: -2.5920, OpeningHours: "07:00-23:00", PriceLevel: string(models.PriceMid), Rating: 4.0},
			{StoreID: "waitrose-park", Name: "Waitrose Park Street", Lat: 51.4532, Lng: -2.6010, OpeningHours: "08:00-21:00", PriceLevel: string(models.PricePremium), Rating: 4.5},
		}
		for _, store := range defaultStores {
			if err := db.Create(&store).Error; err != nil {
				return fmt.Errorf("failed to seed store %s: %w", store.StoreID, err)
			}
		}
	}

	var recipeCount int64
	db.Model(&models.Recipe{}).Count(&recipeCount)
	if recipeCount == 0 {
		if err := seedSampleRecipes(db); err != nil {
			return err
		}
	}

	return nil
}

// seedSampleRecipes creates a small starter catalog
func seedSampleRecipes(db *gorm.DB) error {
	scrambled := models.Recipe{
		RecipeID:       "scrambled-eggs",
		Name:           "Scrambled Eggs on Toast",
		Instructions:   "Whisk eggs, cook gently in butter, serve on toast.",
		CookingTime:    5,
		PrepTime:       3,
		Difficulty:     1,
		Servings:       1,
		Calories:       320,
		Protein:        19,
		Carbs:          18,
		Fat:            18,
		FridgeDays:     1,
		FreezerDays:    0,
		BulkMultiplier: 1.0,
		Tags:           models.StringSlice{"breakfast", "quick"},
		Visibility:     "public",
	}
	if err := scrambled.SetIngredients([]models.Ingredient{
		{Name: "eggs", Quantity: 2, Unit: "pc"},
		{Name: "bread", Quantity: 2, Unit: "slice"},
		{Name: "butter", Quantity: 10, Unit: "g", Optional: true},
	}); err != nil {
		return err
	}

	pasta := models.Recipe{
		RecipeID:       "tomato-pasta",
		Name:           "Tomato Pasta",
		Instructions:   "Boil pasta, heat sauce, combine.",
		CookingTime:    15,
		PrepTime:       5,
		Difficulty:     2,
		Servings:       2,
		Calories:       540,
		Protein:        16,
		Carbs:          95,
		Fat:            9,
		FridgeDays:     3,
		FreezerDays:    30,
		BulkMultiplier: 2.0,
		Tags:           models.StringSlice{"lunch", "dinner", "vegetarian"},
		Visibility:     "public",
	}
	if err := pasta.SetIngredients([]models.Ingredient{
		{Name: "pasta", Quantity: 200, Unit: "g"},
		{Name: "tomato sauce", Quantity: 300, Unit: "g"},
		{Name: "olive oil", Quantity: 1, Unit: "tbsp", Optional: true},
	}); err != nil {
		return err
	}

	chili := models.Recipe{
		RecipeID:       "bean-chili",
		Name:           "Bean Chili",
		Instructions:   "Soften onion, add beans, tomatoes and spices, simmer.",
		CookingTime:    35,
		PrepTime:       10,
		Difficulty:     2,
		Servings:       4,
		Calories:       420,
		Protein:        18,
		Carbs:          60,
		Fat:            10,
		FridgeDays:     4,
		FreezerDays:    60,
		BulkMultiplier: 2.5,
		Tags:           models.StringSlice{"dinner", "vegetarian", "bulk"},
		Visibility:     "public",
	}
	if err := chili.SetIngredients([]models.Ingredient{
		{Name: "kidney beans", Quantity: 400, Unit: "g"},
		{Name: "chopped tomatoes", Quantity: 400, Unit: "g"},
		{Name: "onion", Quantity: 1, Unit: "pc"},
		{Name: "rice", Quantity: 300, Unit: "g"},
	}); err != nil {
		return err
	}

	for _, recipe := range []models.Recipe{scrambled, pasta, chili} {
		if err := db.Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to seed recipe %s: %w", recipe.RecipeID, err)
		}
	}
	return nil
}
