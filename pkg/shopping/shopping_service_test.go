package shopping

import (
	"context"
	"lixozero/domain"
	"lixozero/entities"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeShoppingRepository struct {
	items []*entities.ShoppingListItem
}

func (r *fakeShoppingRepository) AddItem(_ context.Context, item *entities.ShoppingListItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *fakeShoppingRepository) GetItemByID(_ context.Context, id string) (*entities.ShoppingListItem, error) {
	for _, item := range r.items {
		if item.ID.String() == id {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShoppingRepository) GetItemByName(_ context.Context, userID string, name string) (*entities.ShoppingListItem, error) {
	for _, item := range r.items {
		if item.UserID.String() == userID && strings.EqualFold(item.Name, name) {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeShoppingRepository) UpdateItem(_ context.Context, updated *entities.ShoppingListItem) error {
	for i, item := range r.items {
		if item.ID == updated.ID {
			r.items[i] = updated
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeShoppingRepository) DeleteItem(_ context.Context, id string) error {
	for i, item := range r.items {
		if item.ID.String() == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeShoppingRepository) GetItems(_ context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var matched []*entities.ShoppingListItem
	for _, item := range r.items {
		if item.UserID.String() == userID {
			matched = append(matched, item)
		}
	}
	return matched, nil
}

func (r *fakeShoppingRepository) ClearItems(_ context.Context, userID string) error {
	var remaining []*entities.ShoppingListItem
	for _, item := range r.items {
		if item.UserID.String() != userID {
			remaining = append(remaining, item)
		}
	}
	r.items = remaining
	return nil
}

func seedItem(repo *fakeShoppingRepository, userID uuid.UUID, name string, quantity int) *entities.ShoppingListItem {
	item := &entities.ShoppingListItem{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		SuggestedQuantity: quantity,
		Unit:              domain.DefaultUnit,
		Reason:            domain.ReasonManual,
		Priority:          domain.PriorityNormal,
	}
	repo.items = append(repo.items, item)
	return item
}

func TestAddManualItemAllowsDuplicates(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()

	first, err := service.AddManualItem(context.Background(), domain.AddShoppingItemRequest{Name: "Café"}, userID.String())
	require.NoError(t, err)

	second, err := service.AddManualItem(context.Background(), domain.AddShoppingItemRequest{Name: "Café"}, userID.String())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, repo.items, 2)

	assert.Equal(t, 1, first.SuggestedQuantity)
	assert.Equal(t, domain.DefaultUnit, first.Unit)
	assert.Equal(t, domain.ReasonManual, first.Reason)
	assert.Equal(t, domain.PriorityNormal, first.Priority)
}

func TestAdjustQuantityFloorsAtOne(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()
	item := seedItem(repo, userID, "Café", 1)

	err := service.AdjustQuantity(context.Background(), item.ID.String(), domain.AdjustShoppingQuantityRequest{Delta: -1}, userID.String())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.items[0].SuggestedQuantity)

	err = service.AdjustQuantity(context.Background(), item.ID.String(), domain.AdjustShoppingQuantityRequest{Delta: 1}, userID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.items[0].SuggestedQuantity)
}

func TestAdjustQuantityMissingItem(t *testing.T) {
	service := NewShoppingService(&fakeShoppingRepository{})

	err := service.AdjustQuantity(context.Background(), uuid.New().String(), domain.AdjustShoppingQuantityRequest{Delta: 1}, uuid.New().String())

	require.ErrorIs(t, err, domain.ErrShoppingItemNotFound)
}

func TestAdjustQuantityRejectsForeignItem(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	item := seedItem(repo, uuid.New(), "Café", 1)

	err := service.AdjustQuantity(context.Background(), item.ID.String(), domain.AdjustShoppingQuantityRequest{Delta: 1}, uuid.New().String())

	require.ErrorIs(t, err, domain.ErrUnauthorizedAccess)
}

func TestSetPriority(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()
	item := seedItem(repo, userID, "Café", 1)

	err := service.SetPriority(context.Background(), item.ID.String(), domain.SetShoppingPriorityRequest{Priority: domain.PriorityUrgent}, userID.String())

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityUrgent, repo.items[0].Priority)
}

func TestRemoveItemMissingIsNoOp(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()
	seedItem(repo, userID, "Café", 1)

	err := service.RemoveItem(context.Background(), uuid.New().String(), userID.String())

	require.NoError(t, err)
	assert.Len(t, repo.items, 1)
}

func TestRemoveItem(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()
	item := seedItem(repo, userID, "Café", 1)

	err := service.RemoveItem(context.Background(), item.ID.String(), userID.String())

	require.NoError(t, err)
	assert.Empty(t, repo.items)
}

func TestClearListOnlyTouchesOwnEntries(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	alice := uuid.New()
	bob := uuid.New()
	seedItem(repo, alice, "Café", 1)
	seedItem(repo, alice, "Leite", 1)
	other := seedItem(repo, bob, "Arroz", 1)

	err := service.ClearList(context.Background(), alice.String())

	require.NoError(t, err)
	require.Len(t, repo.items, 1)
	assert.Equal(t, other.ID, repo.items[0].ID)
}

func TestGetShoppingList(t *testing.T) {
	repo := &fakeShoppingRepository{}
	service := NewShoppingService(repo)
	userID := uuid.New()
	seedItem(repo, userID, "Café", 2)

	items, err := service.GetShoppingList(context.Background(), userID.String())

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Café", items[0].Name)
	assert.Equal(t, 2, items[0].SuggestedQuantity)
}
