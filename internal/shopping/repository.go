package shopping

import (
	"pantrypilot/internal/models"

	"github.com/jinzhu/gorm"
)

// StoreRepository reads candidate store records.
type StoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository creates a store repository backed by db.
func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// ListStores returns all known stores.
func (r *StoreRepository) ListStores() ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.Find(&stores).Error; err != nil {
		return nil, models.NewStorageError("list stores", err)
	}
	return stores, nil
}

// GetStore returns a store by its business id.
func (r *StoreRepository) GetStore(storeID string) (*models.Store, error) {
	var store models.Store
	err := r.db.Where("store_id = ?", storeID).First(&store).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, models.NewNotFoundError("store", storeID)
	}
	if err != nil {
		return nil, models.NewStorageError("get store", err)
	}
	return &store, nil
}
