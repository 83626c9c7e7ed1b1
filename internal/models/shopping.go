package models

import "github.com/jinzhu/gorm"

// ShoppingPriority represents whether an item is required or merely desirable
type ShoppingPriority string

const (
	// Shopping priorities
	PriorityEssential ShoppingPriority = "essential"
	PriorityOptional  ShoppingPriority = "optional"
)

// ShoppingItem represents a single entry on a consolidated shopping list.
// StorePrices carries exact per-store prices where known; everywhere else
// the price is estimated from EstimatedCost (or a category baseline) scaled
// by the store's price-level multiplier.
type ShoppingItem struct {
	Name          string             `json:"name"`
	Quantity      float64            `json:"quantity"`
	Unit          string             `json:"unit"`
	Priority      ShoppingPriority   `json:"priority"`
	Category      string             `json:"category,omitempty"`
	EstimatedCost float64            `json:"estimated_cost,omitempty"`
	StorePrices   map[string]float64 `json:"store_prices,omitempty"`
}

// PriceLevel represents a store's broad pricing tier
type PriceLevel string

const (
	// Store price levels
	PriceBudget  PriceLevel = "budget"
	PriceMid     PriceLevel = "mid"
	PricePremium PriceLevel = "premium"
)

// Multiplier returns the price scaling applied to baseline item costs for
// this tier. Exact per-store catalog prices are unknown; this is a
// deliberate placeholder estimator.
func (p PriceLevel) Multiplier() float64 {
	switch p {
	case PriceBudget:
		return 0.85
	case PricePremium:
		return 1.3
	default:
		return 1.0
	}
}

// baselineCosts provides rough per-category unit prices used whenever exact
// pricing is unknown. A placeholder estimator, not real catalog data.
var baselineCosts = map[string]float64{
	string(CategoryProduce):    1.20,
	string(CategoryProtein):    4.50,
	string(CategoryDairy):      1.80,
	string(CategoryGrains):     1.50,
	string(CategoryBakery):     1.40,
	string(CategoryFrozen):     2.50,
	string(CategorySnacks):     2.00,
	string(CategoryBeverages):  1.60,
	string(CategoryCondiments): 2.20,
}

// BaselineCostFor returns the fallback price for a category. The second
// return value is false for categories with no baseline, notably "other".
func BaselineCostFor(category string) (float64, bool) {
	cost, ok := baselineCosts[category]
	return cost, ok
}

// Store represents a grocery store candidate for shopping allocation
type Store struct {
	gorm.Model
	StoreID      string `gorm:"column:store_id;unique_index"`
	Name         string
	Lat          float64
	Lng          float64
	OpeningHours string
	PriceLevel   string
	Rating       float64
}

// TableName sets the table name for Store
func (Store) TableName() string {
	return "stores"
}

// ItemAllocation represents the store a shopping item was assigned to
type ItemAllocation struct {
	Item      ShoppingItem `json:"item"`
	StoreID   string       `json:"store_id"`
	StoreName string       `json:"store_name"`
	Price     float64      `json:"price"`
}

// StoreVisit represents one stop in the shopping route
type StoreVisit struct {
	StoreID    string  `json:"store_id"`
	StoreName  string  `json:"store_name"`
	TravelTime int     `json:"travel_time"` // minutes from previous stop
	DistanceKm float64 `json:"distance_km"`
}

// ShoppingAllocation represents the optimizer's result: which item to buy
// where, the order to visit stores, and the total cost and time. Essential
// items no store carries appear in Unallocated rather than failing the run.
type ShoppingAllocation struct {
	Allocations []ItemAllocation `json:"allocations"`
	VisitOrder  []StoreVisit     `json:"visit_order"`
	Unallocated []ShoppingItem   `json:"unallocated,omitempty"`
	TotalCost   float64          `json:"total_cost"`
	TotalTime   int              `json:"total_time"` // minutes, dwell + travel
	Savings     float64          `json:"savings"`    // versus the best single-store plan
	Warnings    []Warning        `json:"warnings,omitempty"`
}
