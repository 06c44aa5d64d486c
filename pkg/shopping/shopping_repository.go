package shopping

import (
	"context"
	"lixozero/entities"

	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		AddItem(ctx context.Context, item *entities.ShoppingListItem) error
		GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error)
		GetItemByName(ctx context.Context, userID string, name string) (*entities.ShoppingListItem, error)
		UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error
		DeleteItem(ctx context.Context, id string) error
		GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error)
		ClearItems(ctx context.Context, userID string) error
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) AddItem(ctx context.Context, item *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *shoppingRepository) GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) GetItemByName(ctx context.Context, userID string, name string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *shoppingRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingListItem{}).Error
}

func (r *shoppingRepository) GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) ClearItems(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entities.ShoppingListItem{}).Error
}
