package inventory

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"time"

	"pantrypilot/internal/models"

	"github.com/jinzhu/gorm"
)

const (
	expiringSoonDays = 3
	alertWindowDays  = 7
	lowStockCeiling  = 1.0
)

// Store manages a user's food inventory. All operations are scoped by owner;
// quantity decrements happen as conditional updates at the storage layer so
// concurrent consumers can never drive a quantity negative.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// NewStore creates an inventory store backed by db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// WithClock overrides the store's clock, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// AddItem validates and persists a new inventory item for owner. When the
// category is omitted it is inferred from the item name via the keyword
// table, defaulting to "other".
func (s *Store) AddItem(owner string, item models.InventoryItem) (*models.InventoryItem, error) {
	if item.Name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}
	if item.Quantity < 0 {
		return nil, models.NewValidationError("quantity", "must not be negative")
	}
	if item.Location == "" {
		item.Location = string(models.LocationPantry)
	}
	if !models.ValidLocation(item.Location) {
		return nil, models.NewValidationError("location", "must be fridge, pantry or freezer")
	}
	if item.Category == "" {
		item.Category = string(Categorize(item.Name))
	}

	item.Owner = owner
	if item.ItemID == "" {
		item.ItemID = newItemID()
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, models.NewStorageError("add item", err)
	}
	return &item, nil
}

// GetItem returns the owner's item with the given id.
func (s *Store) GetItem(owner, itemID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := s.db.Where("item_id = ? AND owner = ?", itemID, owner).First(&item).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.NewNotFoundError("inventory item", itemID)
	}
	if err != nil {
		return nil, models.NewStorageError("get item", err)
	}
	return &item, nil
}

// ListItems returns all of the owner's inventory items.
func (s *Store) ListItems(owner string) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.Where("owner = ?", owner).Find(&items).Error; err != nil {
		return nil, models.NewStorageError("list items", err)
	}
	return items, nil
}

// DeleteItem removes the owner's item with the given id.
func (s *Store) DeleteItem(owner, itemID string) error {
	res := s.db.Where("item_id = ? AND owner = ?", itemID, owner).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return models.NewStorageError("delete item", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("inventory item", itemID)
	}
	return nil
}

// Consume decrements the item's quantity by qty. The decrement is a single
// conditional UPDATE so concurrent consumers of the same item can never
// produce a negative or double-spent quantity. Consuming the full remaining
// quantity (or more) deletes the row and returns a nil item.
func (s *Store) Consume(owner, itemID string, qty float64) (*models.InventoryItem, error) {
	if qty < 0 {
		return nil, models.NewValidationError("quantity", "must not be negative")
	}

	res := s.db.Model(&models.InventoryItem{}).
		Where("item_id = ? AND owner = ? AND quantity > ?", itemID, owner, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return nil, models.NewStorageError("consume", res.Error)
	}
	if res.RowsAffected > 0 {
		return s.GetItem(owner, itemID)
	}

	// Remaining quantity would hit zero or below: remove the row, again
	// guarded so a racing decrement cannot be spent twice.
	res = s.db.Where("item_id = ? AND owner = ? AND quantity <= ?", itemID, owner, qty).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return nil, models.NewStorageError("consume", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("inventory item", itemID)
	}
	return nil, nil
}

// Status returns an aggregate snapshot of the owner's inventory: total item
// count, items expiring within 3 days, items at or below one unit, and
// per-category counts.
func (s *Store) Status(owner string) (*models.InventoryStatus, error) {
	items, err := s.ListItems(owner)
	if err != nil {
		return nil, err
	}

	status := &models.InventoryStatus{CategoryCounts: make(map[string]int)}
	now := s.now()
	for _, item := range items {
		status.TotalItems++
		status.CategoryCounts[item.Category]++
		if item.Quantity <= lowStockCeiling {
			status.LowStock++
		}
		if days, ok := item.DaysUntilExpiry(now); ok && days <= expiringSoonDays {
			status.ExpiringSoon++
		}
	}
	return status, nil
}

// ExpiryAlerts returns the owner's items expiring within the alert window,
// sorted ascending by days until expiry. Urgency bands: high within 1 day,
// medium within 3, low within 7.
func (s *Store) ExpiryAlerts(owner string) ([]models.ExpiryAlert, error) {
	items, err := s.ListItems(owner)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var alerts []models.ExpiryAlert
	for _, item := range items {
		days, ok := item.DaysUntilExpiry(now)
		if !ok || days > alertWindowDays {
			continue
		}
		alerts = append(alerts, models.ExpiryAlert{
			Item:     item,
			DaysLeft: days,
			Urgency:  urgencyFor(days),
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].DaysLeft != alerts[j].DaysLeft {
			return alerts[i].DaysLeft < alerts[j].DaysLeft
		}
		return alerts[i].Item.Name < alerts[j].Item.Name
	})
	return alerts, nil
}

func urgencyFor(days int) models.ExpiryUrgency {
	switch {
	case days <= 1:
		return models.UrgencyHigh
	case days <= expiringSoonDays:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

// newItemID generates a random item identifier.
func newItemID() string {
	buf := make([]byte, 8)
	rand.Read(buf)
	return "item-" + hex.EncodeToString(buf)
}
