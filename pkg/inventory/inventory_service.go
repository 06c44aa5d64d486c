package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"lixozero/domain"
	"lixozero/entities"
	"lixozero/internal/utils/mailing"
	"lixozero/internal/utils/storage"
	"lixozero/pkg/gateway"
	"lixozero/pkg/shopping"
	"lixozero/pkg/user"
	"log"
	"mime/multipart"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	InventoryService interface {
		RegisterAcquisitionText(ctx context.Context, req domain.RegisterAcquisitionTextRequest, userID string) ([]domain.FoodItemResponse, error)
		RegisterAcquisitionPhoto(ctx context.Context, req domain.RegisterAcquisitionPhotoRequest, userID string) ([]domain.FoodItemResponse, error)
		ConsumeFood(ctx context.Context, req domain.ConsumeRequest, userID string) (domain.ConsumeResponse, error)
		MarkAsSpoiled(ctx context.Context, req domain.MarkAsSpoiledRequest, userID string) error
		SweepExpired(ctx context.Context, userID string) (int, error)
		SweepAllExpired(ctx context.Context) (int, error)
		GetFoodItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.FoodItemResponse, int64, error)
		GetFoodItemByID(ctx context.Context, id string, userID string) (domain.FoodItemResponse, error)
		GetWasteReport(ctx context.Context, userID string) (domain.WasteReportResponse, error)
		SendExpiryDigests(ctx context.Context) error
	}

	inventoryService struct {
		inventoryRepository InventoryRepository
		shoppingRepository  shopping.ShoppingRepository
		userRepository      user.UserRepository
		extractor           gateway.Extractor
		s3                  storage.AwsS3

		// inflight enforces at most one extraction gateway call per user;
		// locks serializes all store mutations per user so multi-item
		// updates are never interleaved.
		inflight sync.Map
		locks    sync.Map
	}
)

func NewInventoryService(
	inventoryRepository InventoryRepository,
	shoppingRepository shopping.ShoppingRepository,
	userRepository user.UserRepository,
	extractor gateway.Extractor,
	s3 storage.AwsS3,
) InventoryService {
	return &inventoryService{
		inventoryRepository: inventoryRepository,
		shoppingRepository:  shoppingRepository,
		userRepository:      userRepository,
		extractor:           extractor,
		s3:                  s3,
	}
}

func (s *inventoryService) storeLock(userID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *inventoryService) acquireGateway(userID string) bool {
	_, busy := s.inflight.LoadOrStore(userID, struct{}{})
	return !busy
}

func (s *inventoryService) releaseGateway(userID string) {
	s.inflight.Delete(userID)
}

func (s *inventoryService) RegisterAcquisitionText(ctx context.Context, req domain.RegisterAcquisitionTextRequest, userID string) ([]domain.FoodItemResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return []domain.FoodItemResponse{}, nil
	}

	if !s.acquireGateway(userID) {
		return nil, domain.ErrExtractionInProgress
	}
	defer s.releaseGateway(userID)

	records, err := s.extractor.ExtractAcquisitionsFromText(ctx, text)
	if err != nil {
		return nil, err
	}

	return s.registerRecords(ctx, records, req.StorageType, "", userID)
}

func (s *inventoryService) RegisterAcquisitionPhoto(ctx context.Context, req domain.RegisterAcquisitionPhotoRequest, userID string) ([]domain.FoodItemResponse, error) {
	if !s.acquireGateway(userID) {
		return nil, domain.ErrExtractionInProgress
	}
	defer s.releaseGateway(userID)

	file, err := req.Photo.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("acquisition-%s", uuid.New().String())
	objectKey, err := s.s3.UploadFile(fileName, req.Photo, "acquisitions", storage.AllowImage...)
	if err != nil {
		return nil, err
	}
	photoURL := s.s3.GetPublicLinkKey(objectKey)

	records, err := s.extractor.ExtractAcquisitionsFromImage(ctx, gateway.ImageInput{
		Data:     fileData,
		MimeType: detectMimeType(req.Photo),
	})
	if err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return nil, err
	}

	return s.registerRecords(ctx, records, req.StorageType, photoURL, userID)
}

// registerRecords turns gateway records into fresh inventory rows. The batch
// is inserted as a whole; the storage override, when present, wins over the
// gateway's per-item inference.
func (s *inventoryService) registerRecords(ctx context.Context, records []gateway.AcquisitionRecord, storageOverride string, photoURL string, userID string) ([]domain.FoodItemResponse, error) {
	if len(records) == 0 {
		return []domain.FoodItemResponse{}, nil
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	now := time.Now()
	foodItems := make([]*entities.FoodItem, 0, len(records))
	for _, record := range records {
		storageType := record.StorageType
		if storageOverride != "" && storageOverride != domain.StorageAuto {
			storageType = storageOverride
		}

		foodItems = append(foodItems, &entities.FoodItem{
			ID:              uuid.New(),
			UserID:          userUUID,
			Name:            record.Name,
			InitialQuantity: record.Quantity,
			CurrentQuantity: record.Quantity,
			Unit:            record.Unit,
			StorageType:     storageType,
			ExpiryDate:      now.AddDate(0, 0, record.ExpiryDays),
			Status:          domain.FoodStatusActive,
			EstimatedValue:  record.EstimatedPrice,
			PhotoURL:        photoURL,
			AddedManually:   false,
		})
	}

	lock := s.storeLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.inventoryRepository.AddFoodItems(ctx, foodItems); err != nil {
		return nil, err
	}

	response := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		response = append(response, toFoodItemResponse(item))
	}
	return response, nil
}

// ConsumeFood applies every extracted (name, quantity) pair against the
// matching active items, earliest expiry first. Requesting more than is
// available drains the matches and drops the excess.
func (s *inventoryService) ConsumeFood(ctx context.Context, req domain.ConsumeRequest, userID string) (domain.ConsumeResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return domain.ConsumeResponse{Entries: []domain.ConsumedEntry{}}, nil
	}

	if !s.acquireGateway(userID) {
		return domain.ConsumeResponse{}, domain.ErrExtractionInProgress
	}
	defer s.releaseGateway(userID)

	records, err := s.extractor.ExtractConsumption(ctx, text)
	if err != nil {
		return domain.ConsumeResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ConsumeResponse{}, domain.ErrParseUUID
	}

	// Overdue items must not be consumable as if still fresh.
	if _, err := s.SweepExpired(ctx, userID); err != nil {
		return domain.ConsumeResponse{}, err
	}

	lock := s.storeLock(userID)
	lock.Lock()
	defer lock.Unlock()

	entries := make([]domain.ConsumedEntry, 0, len(records))
	for _, record := range records {
		matches, err := s.inventoryRepository.GetActiveItemsByName(ctx, userID, record.Name)
		if err != nil {
			return domain.ConsumeResponse{}, err
		}

		remaining := record.Quantity
		consumed := 0.0
		for _, item := range matches {
			if remaining <= 0 {
				break
			}

			take := item.CurrentQuantity
			if remaining < take {
				take = remaining
			}
			item.CurrentQuantity -= take
			remaining -= take
			consumed += take

			if item.CurrentQuantity == 0 {
				item.Status = domain.FoodStatusConsumed
			}
			if err := s.inventoryRepository.UpdateFoodItem(ctx, item); err != nil {
				return domain.ConsumeResponse{}, err
			}
			if item.Status == domain.FoodStatusConsumed {
				if err := s.suggestReplenishment(ctx, userUUID, item.Name, item.Unit, domain.ReasonFinished, domain.PriorityNormal); err != nil {
					return domain.ConsumeResponse{}, err
				}
			}
		}

		entries = append(entries, domain.ConsumedEntry{Name: record.Name, Consumed: consumed})
	}

	return domain.ConsumeResponse{Entries: entries}, nil
}

// MarkAsSpoiled is a direct user assertion: the item is zeroed and spoiled
// regardless of its remaining quantity. A missing id is a no-op.
func (s *inventoryService) MarkAsSpoiled(ctx context.Context, req domain.MarkAsSpoiledRequest, userID string) error {
	lock := s.storeLock(userID)
	lock.Lock()
	defer lock.Unlock()

	foodItem, err := s.inventoryRepository.GetFoodItemByID(ctx, req.FoodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if foodItem.UserID.String() != userID {
		return domain.ErrUnauthorizedAccess
	}

	foodItem.CurrentQuantity = 0
	foodItem.Status = domain.FoodStatusSpoiled
	if err := s.inventoryRepository.UpdateFoodItem(ctx, foodItem); err != nil {
		return err
	}

	existing, err := s.shoppingRepository.GetItemByName(ctx, userID, foodItem.Name)
	if err == nil {
		existing.Priority = domain.PriorityUrgent
		existing.Reason = domain.ReasonSpoiled
		return s.shoppingRepository.UpdateItem(ctx, existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.shoppingRepository.AddItem(ctx, &entities.ShoppingListItem{
		ID:                uuid.New(),
		UserID:            foodItem.UserID,
		Name:              foodItem.Name,
		SuggestedQuantity: 1,
		Unit:              foodItem.Unit,
		Reason:            domain.ReasonSpoiled,
		Priority:          domain.PriorityUrgent,
	})
}

// SweepExpired transitions every overdue active item to expired against one
// snapshot of now. Re-running with no new expirations changes nothing.
func (s *inventoryService) SweepExpired(ctx context.Context, userID string) (int, error) {
	lock := s.storeLock(userID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	foodItems, err := s.inventoryRepository.GetExpiredActiveItems(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	for _, item := range foodItems {
		if err := s.expireItem(ctx, item); err != nil {
			return 0, err
		}
	}

	return len(foodItems), nil
}

func (s *inventoryService) SweepAllExpired(ctx context.Context) (int, error) {
	now := time.Now()
	foodItems, err := s.inventoryRepository.GetAllExpiredActiveItems(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, item := range foodItems {
		lock := s.storeLock(item.UserID.String())
		lock.Lock()
		err := s.expireItem(ctx, item)
		lock.Unlock()
		if err != nil {
			return 0, err
		}
	}

	return len(foodItems), nil
}

func (s *inventoryService) expireItem(ctx context.Context, item *entities.FoodItem) error {
	item.Status = domain.FoodStatusExpired
	item.CurrentQuantity = 0
	if err := s.inventoryRepository.UpdateFoodItem(ctx, item); err != nil {
		return err
	}
	return s.suggestReplenishment(ctx, item.UserID, item.Name, item.Unit, domain.ReasonExpired, domain.PriorityUrgent)
}

// suggestReplenishment appends a derived shopping entry unless one already
// exists for the same name, compared case-insensitively.
func (s *inventoryService) suggestReplenishment(ctx context.Context, userID uuid.UUID, name string, unit string, reason string, priority string) error {
	_, err := s.shoppingRepository.GetItemByName(ctx, userID.String(), name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.shoppingRepository.AddItem(ctx, &entities.ShoppingListItem{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		SuggestedQuantity: 1,
		Unit:              unit,
		Reason:            reason,
		Priority:          priority,
	})
}

func (s *inventoryService) GetFoodItems(ctx context.Context, userID string, status string, page, limit int) ([]domain.FoodItemResponse, int64, error) {
	// Reads reflect the current wall clock: overdue items are expired
	// before listing, like the reactive sweep in the mobile app.
	if _, err := s.SweepExpired(ctx, userID); err != nil {
		return nil, 0, err
	}

	foodItems, count, err := s.inventoryRepository.GetFoodItems(ctx, userID, status, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		response = append(response, toFoodItemResponse(item))
	}

	return response, count, nil
}

func (s *inventoryService) GetFoodItemByID(ctx context.Context, id string, userID string) (domain.FoodItemResponse, error) {
	foodItem, err := s.inventoryRepository.GetFoodItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FoodItemResponse{}, domain.ErrFoodItemNotFound
		}
		return domain.FoodItemResponse{}, err
	}

	if foodItem.UserID.String() != userID {
		return domain.FoodItemResponse{}, domain.ErrUnauthorizedAccess
	}

	return toFoodItemResponse(foodItem), nil
}

// GetWasteReport recomputes waste totals on demand. The per-name breakdown
// groups names case-sensitively, unlike every other matching path; the
// mobile app reported this way and dashboards depend on it.
func (s *inventoryService) GetWasteReport(ctx context.Context, userID string) (domain.WasteReportResponse, error) {
	if _, err := s.SweepExpired(ctx, userID); err != nil {
		return domain.WasteReportResponse{}, err
	}

	wastedItems, err := s.inventoryRepository.GetWastedItems(ctx, userID)
	if err != nil {
		return domain.WasteReportResponse{}, err
	}

	consumedCount, err := s.inventoryRepository.CountConsumedItems(ctx, userID)
	if err != nil {
		return domain.WasteReportResponse{}, err
	}

	total := 0.0
	perName := make(map[string]float64)
	for _, item := range wastedItems {
		total += item.EstimatedValue
		perName[item.Name] += item.EstimatedValue
	}

	breakdown := make([]domain.WasteBreakdownEntry, 0, len(perName))
	for name, value := range perName {
		breakdown = append(breakdown, domain.WasteBreakdownEntry{Name: name, Value: value})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Value != breakdown[j].Value {
			return breakdown[i].Value > breakdown[j].Value
		}
		return breakdown[i].Name < breakdown[j].Name
	})

	return domain.WasteReportResponse{
		TotalWasteValue: total,
		ConsumedItems:   int(consumedCount),
		Breakdown:       breakdown,
	}, nil
}

// SendExpiryDigests e-mails each user the active items expiring within
// their alert window.
func (s *inventoryService) SendExpiryDigests(ctx context.Context) error {
	users, err := s.userRepository.GetAllUsers(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, u := range users {
		days := u.AlertDaysBefore
		if days <= 0 {
			days = domain.DefaultAlertDaysBefore
		}

		foodItems, err := s.inventoryRepository.GetItemsExpiringBetween(ctx, u.ID.String(), now, now.AddDate(0, 0, days))
		if err != nil {
			return err
		}
		if len(foodItems) == 0 {
			continue
		}

		var body strings.Builder
		fmt.Fprintf(&body, "<p>Olá %s,</p><p>Estes itens do seu estoque vencem nos próximos %d dias:</p><ul>", u.Name, days)
		for _, item := range foodItems {
			fmt.Fprintf(&body, "<li>%s (%.2g %s) - vence em %s</li>",
				item.Name, item.CurrentQuantity, item.Unit, item.ExpiryDate.Format("02/01/2006"))
		}
		body.WriteString("</ul><p>Consuma-os a tempo para evitar desperdício!</p>")

		if err := mailing.SendMail(u.Email, "LixoZero - Itens perto de vencer", body.String()); err != nil {
			log.Printf("Error sending expiry digest to %s: %v", u.Email, err)
		}
	}

	return nil
}

func toFoodItemResponse(item *entities.FoodItem) domain.FoodItemResponse {
	return domain.FoodItemResponse{
		ID:              item.ID.String(),
		Name:            item.Name,
		InitialQuantity: item.InitialQuantity,
		CurrentQuantity: item.CurrentQuantity,
		Unit:            item.Unit,
		StorageType:     item.StorageType,
		ExpiryDate:      item.ExpiryDate,
		Status:          item.Status,
		EstimatedValue:  item.EstimatedValue,
		PhotoURL:        item.PhotoURL,
		CreatedAt:       item.CreatedAt,
	}
}

func detectMimeType(file *multipart.FileHeader) string {
	mimeType := file.Header.Get("Content-Type")
	if mimeType != "" {
		return mimeType
	}

	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
