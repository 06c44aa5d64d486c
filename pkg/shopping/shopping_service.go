package shopping

import (
	"context"
	"errors"
	"lixozero/domain"
	"lixozero/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingService interface {
		AddManualItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingListItemResponse, error)
		AdjustQuantity(ctx context.Context, id string, req domain.AdjustShoppingQuantityRequest, userID string) error
		SetPriority(ctx context.Context, id string, req domain.SetShoppingPriorityRequest, userID string) error
		RemoveItem(ctx context.Context, id string, userID string) error
		ClearList(ctx context.Context, userID string) error
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItemResponse, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
	}
)

func NewShoppingService(shoppingRepository ShoppingRepository) ShoppingService {
	return &shoppingService{shoppingRepository: shoppingRepository}
}

// AddManualItem appends a user-entered entry. Unlike the derived
// replenishment paths, manual adds are not deduplicated.
func (s *shoppingService) AddManualItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingListItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.ShoppingListItem{
		ID:                uuid.New(),
		UserID:            userUUID,
		Name:              req.Name,
		SuggestedQuantity: 1,
		Unit:              domain.DefaultUnit,
		Reason:            domain.ReasonManual,
		Priority:          domain.PriorityNormal,
	}

	if err := s.shoppingRepository.AddItem(ctx, item); err != nil {
		return domain.ShoppingListItemResponse{}, err
	}

	return toShoppingItemResponse(item), nil
}

func (s *shoppingService) AdjustQuantity(ctx context.Context, id string, req domain.AdjustShoppingQuantityRequest, userID string) error {
	item, err := s.shoppingRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrShoppingItemNotFound
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	newQuantity := item.SuggestedQuantity + req.Delta
	if newQuantity < 1 {
		newQuantity = 1
	}
	item.SuggestedQuantity = newQuantity

	return s.shoppingRepository.UpdateItem(ctx, item)
}

func (s *shoppingService) SetPriority(ctx context.Context, id string, req domain.SetShoppingPriorityRequest, userID string) error {
	item, err := s.shoppingRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrShoppingItemNotFound
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	item.Priority = req.Priority

	return s.shoppingRepository.UpdateItem(ctx, item)
}

// RemoveItem deletes one entry. A missing id is a no-op so removal stays
// idempotent.
func (s *shoppingService) RemoveItem(ctx context.Context, id string, userID string) error {
	item, err := s.shoppingRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if item.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	return s.shoppingRepository.DeleteItem(ctx, id)
}

func (s *shoppingService) ClearList(ctx context.Context, userID string) error {
	return s.shoppingRepository.ClearItems(ctx, userID)
}

func (s *shoppingService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItemResponse, error) {
	items, err := s.shoppingRepository.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ShoppingListItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toShoppingItemResponse(item))
	}
	return response, nil
}

func toShoppingItemResponse(item *entities.ShoppingListItem) domain.ShoppingListItemResponse {
	return domain.ShoppingListItemResponse{
		ID:                item.ID.String(),
		Name:              item.Name,
		SuggestedQuantity: item.SuggestedQuantity,
		Unit:              item.Unit,
		Reason:            item.Reason,
		Priority:          item.Priority,
	}
}
