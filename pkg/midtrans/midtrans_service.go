package midtrans

import (
	"context"
	"errors"
	"fmt"
	"lixozero/domain"
	"lixozero/entities"
	"lixozero/internal/utils"
	"lixozero/pkg/user"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"
)

const defaultPremiumPlanPrice = 19900

type (
	MidtransService interface {
		CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error)
		HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error
	}

	midtransService struct {
		midtransRepository MidtransRepository
		userRepository     user.UserRepository
		snapClient         snap.Client
		coreClient         coreapi.Client
	}
)

func NewMidtransService(midtransRepository MidtransRepository, userRepository user.UserRepository) MidtransService {
	env := midtrans.Sandbox
	if utils.GetConfig("IsProd") == "true" {
		env = midtrans.Production
	}

	var snapClient snap.Client
	snapClient.New(utils.GetConfig("SERVER_KEY"), env)

	var coreClient coreapi.Client
	coreClient.New(utils.GetConfig("SERVER_KEY"), env)

	return &midtransService{
		midtransRepository: midtransRepository,
		userRepository:     userRepository,
		snapClient:         snapClient,
		coreClient:         coreClient,
	}
}

func (s *midtransService) CreateSubscription(ctx context.Context, req domain.SubscribeRequest, userID string) (domain.SubscribeResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SubscribeResponse{}, domain.ErrParseUUID
	}

	u, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubscribeResponse{}, domain.ErrUserNotFound
		}
		return domain.SubscribeResponse{}, err
	}
	if u.Plan == domain.PlanPremium {
		return domain.SubscribeResponse{}, domain.ErrAlreadyPremium
	}

	amount := utils.GetPremiumPlanPrice()
	if amount <= 0 {
		amount = defaultPremiumPlanPrice
	}

	orderID := fmt.Sprintf("premium-%s", uuid.New().String())

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: u.Name,
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "premium-plan",
				Name:  "LixoZero Premium",
				Price: amount,
				Qty:   1,
			},
		},
	}

	snapResp, snapErr := s.snapClient.CreateTransaction(snapReq)
	if snapErr != nil {
		return domain.SubscribeResponse{}, domain.ErrPaymentFailed
	}

	transaction := &entities.Transaction{
		ID:      uuid.New(),
		UserID:  userUUID,
		OrderID: orderID,
		Amount:  amount,
		Status:  "Pending",
	}
	if err := s.midtransRepository.CreateTransaction(ctx, transaction); err != nil {
		return domain.SubscribeResponse{}, err
	}

	return domain.SubscribeResponse{
		OrderID:     orderID,
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// HandleNotification re-checks the transaction status against Midtrans
// instead of trusting the webhook payload, then upgrades the user's plan on
// settlement.
func (s *midtransService) HandleNotification(ctx context.Context, req domain.MidtransNotificationRequest) error {
	transaction, err := s.midtransRepository.GetTransactionByOrderID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	statusResp, statusErr := s.coreClient.CheckTransaction(req.OrderID)
	if statusErr != nil {
		return domain.ErrPaymentFailed
	}

	switch statusResp.TransactionStatus {
	case "settlement", "capture":
		transaction.Status = "Settled"
	case "deny", "cancel", "expire":
		transaction.Status = "Failed"
	default:
		return nil
	}

	if err := s.midtransRepository.UpdateTransaction(ctx, transaction); err != nil {
		return err
	}

	if transaction.Status != "Settled" {
		return nil
	}

	u, err := s.userRepository.GetUserByID(ctx, transaction.UserID.String())
	if err != nil {
		return err
	}
	u.Plan = domain.PlanPremium
	return s.userRepository.UpdateUser(ctx, u)
}
