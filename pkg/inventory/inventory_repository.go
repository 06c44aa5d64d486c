package inventory

import (
	"context"
	"lixozero/domain"
	"lixozero/entities"
	"time"

	"gorm.io/gorm"
)

type (
	InventoryRepository interface {
		AddFoodItems(ctx context.Context, foodItems []*entities.FoodItem) error
		GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error)
		UpdateFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		GetFoodItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.FoodItem, int64, error)
		GetActiveItemsByName(ctx context.Context, userID string, name string) ([]*entities.FoodItem, error)
		GetExpiredActiveItems(ctx context.Context, userID string, now time.Time) ([]*entities.FoodItem, error)
		GetAllExpiredActiveItems(ctx context.Context, now time.Time) ([]*entities.FoodItem, error)
		GetWastedItems(ctx context.Context, userID string) ([]*entities.FoodItem, error)
		CountConsumedItems(ctx context.Context, userID string) (int64, error)
		GetItemsExpiringBetween(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.FoodItem, error)
	}

	inventoryRepository struct {
		db *gorm.DB
	}
)

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// AddFoodItems inserts the whole batch in one statement so a failed
// registration never leaves a partial acquisition behind.
func (r *inventoryRepository) AddFoodItems(ctx context.Context, foodItems []*entities.FoodItem) error {
	return r.db.WithContext(ctx).Create(&foodItems).Error
}

func (r *inventoryRepository) GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	var foodItem entities.FoodItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&foodItem).Error; err != nil {
		return nil, err
	}
	return &foodItem, nil
}

func (r *inventoryRepository) UpdateFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return r.db.WithContext(ctx).Save(foodItem).Error
}

func (r *inventoryRepository) GetFoodItems(ctx context.Context, userID string, status string, page, limit int) ([]*entities.FoodItem, int64, error) {
	var foodItems []*entities.FoodItem
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if status != "all" && status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Model(&entities.FoodItem{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("expiry_date asc").Find(&foodItems).Error; err != nil {
		return nil, 0, err
	}

	return foodItems, count, nil
}

// GetActiveItemsByName matches case-insensitively and orders by expiry so
// the consumption reconciler drains the earliest-expiring batch first.
func (r *inventoryRepository) GetActiveItemsByName(ctx context.Context, userID string, name string) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND LOWER(name) = LOWER(?) AND current_quantity > 0", userID, name).
		Order("expiry_date asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *inventoryRepository) GetExpiredActiveItems(ctx context.Context, userID string, now time.Time) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND current_quantity > 0 AND expiry_date < ?",
			userID, domain.FoodStatusActive, now).
		Order("expiry_date asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *inventoryRepository) GetAllExpiredActiveItems(ctx context.Context, now time.Time) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("status = ? AND current_quantity > 0 AND expiry_date < ?",
			domain.FoodStatusActive, now).
		Order("expiry_date asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *inventoryRepository) GetWastedItems(ctx context.Context, userID string) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID,
			[]string{domain.FoodStatusExpired, domain.FoodStatusSpoiled}).
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *inventoryRepository) CountConsumedItems(ctx context.Context, userID string) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(&entities.FoodItem{}).
		Where("user_id = ? AND status = ?", userID, domain.FoodStatusConsumed).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *inventoryRepository) GetItemsExpiringBetween(ctx context.Context, userID string, startDate, endDate time.Time) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND current_quantity > 0 AND expiry_date BETWEEN ? AND ?",
			userID, domain.FoodStatusActive, startDate, endDate).
		Order("expiry_date asc").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}
