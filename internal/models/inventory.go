package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// InventoryItem represents a single item in a user's food inventory.
// Tracks quantity, storage location and expiry so the planner can prefer
// ingredients that are already on hand and about to expire.
type InventoryItem struct {
	gorm.Model
	ItemID       string `gorm:"column:item_id;unique_index"`
	Owner        string `gorm:"index"`
	Name         string
	Quantity     float64
	Unit         string
	Category     string
	Location     string
	ExpiryDate   *time.Time
	PurchaseDate *time.Time
	Store        string
	Cost         float64
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// DaysUntilExpiry returns the whole days left before the item expires,
// relative to now. The second return value is false when the item has no
// expiry date.
func (i *InventoryItem) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.ExpiryDate == nil {
		return 0, false
	}
	days := int(i.ExpiryDate.Sub(now).Hours() / 24)
	return days, true
}

// InventoryLocation represents the storage location of an inventory item
type InventoryLocation string

const (
	// Storage locations
	LocationFridge  InventoryLocation = "fridge"
	LocationPantry  InventoryLocation = "pantry"
	LocationFreezer InventoryLocation = "freezer"
)

// ValidLocation reports whether s names a known storage location.
func ValidLocation(s string) bool {
	switch InventoryLocation(s) {
	case LocationFridge, LocationPantry, LocationFreezer:
		return true
	}
	return false
}

// ItemCategory represents the category of an inventory item
type ItemCategory string

const (
	// Item categories
	CategoryProduce    ItemCategory = "produce"
	CategoryProtein    ItemCategory = "protein"
	CategoryDairy      ItemCategory = "dairy"
	CategoryGrains     ItemCategory = "grains"
	CategoryBakery     ItemCategory = "bakery"
	CategoryFrozen     ItemCategory = "frozen"
	CategorySnacks     ItemCategory = "snacks"
	CategoryBeverages  ItemCategory = "beverages"
	CategoryCondiments ItemCategory = "condiments"
	CategoryOther      ItemCategory = "other"
)

// ExpiryUrgency represents how urgently an expiring item needs attention
type ExpiryUrgency string

const (
	// Expiry urgency bands
	UrgencyHigh   ExpiryUrgency = "high"   // expires within 1 day
	UrgencyMedium ExpiryUrgency = "medium" // expires within 3 days
	UrgencyLow    ExpiryUrgency = "low"    // expires within 7 days
)

// ExpiryAlert represents a single expiring-item warning
type ExpiryAlert struct {
	Item     InventoryItem `json:"item"`
	DaysLeft int           `json:"days_left"`
	Urgency  ExpiryUrgency `json:"urgency"`
}

// InventoryStatus represents an aggregate snapshot of a user's inventory
type InventoryStatus struct {
	TotalItems     int            `json:"total_items"`
	ExpiringSoon   int            `json:"expiring_soon"`
	LowStock       int            `json:"low_stock"`
	CategoryCounts map[string]int `json:"category_counts"`
}
