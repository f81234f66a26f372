package inventory

import (
	"StockCount-Backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	ItemRepository interface {
		UpsertItem(ctx context.Context, item *entities.InventoryItem) error
		GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error)
		GetItemBySessionProduct(ctx context.Context, sessionID, productID string) (*entities.InventoryItem, error)
		GetItemsBySession(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error)
		UpdateItem(ctx context.Context, item *entities.InventoryItem) error
		DeleteItem(ctx context.Context, id string) error
	}

	itemRepository struct {
		db *gorm.DB
	}
)

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// UpsertItem inserts or overwrites the row for (session_id, product_id) in
// one statement. Together with the composite unique index this keeps the
// one-item-per-product invariant even when two devices scan the same
// product at once; a plain read-then-insert would race.
func (r *itemRepository) UpsertItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"quantity_full_units",
			"quantity_partial_hundredths",
			"unit_price",
			"total_price",
			"scan_method",
			"ai_confidence",
			"notes",
			"updated_at",
		}),
	}).Create(item).Error
}

func (r *itemRepository) GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	if err := r.db.WithContext(ctx).Preload("Product").Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemBySessionProduct returns nil without an error when the product has
// not been counted in the session yet.
func (r *itemRepository) GetItemBySessionProduct(ctx context.Context, sessionID, productID string) (*entities.InventoryItem, error) {
	var item entities.InventoryItem
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetItemsBySession(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Preload("Product").
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepository) UpdateItem(ctx context.Context, item *entities.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.InventoryItem{}).Error
}
