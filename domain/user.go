package domain

import (
	"errors"
	"time"
)

const (
	PlanFree    = "free"
	PlanPremium = "premium"

	DefaultAlertDaysBefore = 3
)

var (
	MessageSuccessRegister   = "user registered successfully"
	MessageSuccessLogin      = "login successful"
	MessageSuccessGetMe      = "user profile retrieved successfully"
	MessageSuccessUpdateUser = "user profile updated successfully"
	MessageSuccessForgot     = "password reset requested"
	MessageSuccessReset      = "password reset successfully"
	MessageSuccessSubscribe  = "subscription transaction created"
	MessageSuccessWebhook    = "notification processed"

	MessageFailedRegister   = "failed to register user"
	MessageFailedLogin      = "failed to login"
	MessageFailedGetMe      = "failed to retrieve user profile"
	MessageFailedUpdateUser = "failed to update user profile"
	MessageFailedForgot     = "failed to request password reset"
	MessageFailedReset      = "failed to reset password"
	MessageFailedSubscribe  = "failed to create subscription transaction"
	MessageFailedWebhook    = "failed to process notification"

	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongCredentials   = errors.New("wrong email or password")
	ErrAlreadyPremium     = errors.New("user already on premium plan")
	ErrPaymentFailed      = errors.New("payment processing failed")
)

type (
	RegisterUserRequest struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name            string `json:"name" validate:"omitempty"`
		AlertDaysBefore int    `json:"alert_days_before" validate:"omitempty,min=1,max=30"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID              string    `json:"id"`
		Name            string    `json:"name"`
		Email           string    `json:"email"`
		Plan            string    `json:"plan"`
		AlertDaysBefore int       `json:"alert_days_before"`
		CreatedAt       time.Time `json:"created_at"`
	}

	SubscribeRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SubscribeResponse struct {
		OrderID     string `json:"order_id"`
		Token       string `json:"token"`
		RedirectURL string `json:"redirect_url"`
	}

	MidtransNotificationRequest struct {
		OrderID           string `json:"order_id" validate:"required"`
		TransactionStatus string `json:"transaction_status"`
	}
)
