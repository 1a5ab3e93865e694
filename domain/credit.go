package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetUserCredits   = "user credits retrieved successfully"
	MessageSuccessGetCreditHistory = "credit transaction history retrieved successfully"

	MessageFailedGetUserCredits   = "failed to retrieve user credits"
	MessageFailedGetCreditHistory = "failed to retrieve credit transaction history"

	ErrInsufficientCredits = errors.New("Insufficient credits.")
	ErrInvalidCreditAmount = errors.New("credit amount must be positive")
	ErrNegativeBalance     = errors.New("credit balance cannot be negative")
)

const (
	CreditTypeSignup     = "Signup"
	CreditTypeUse        = "Use"
	CreditTypeRefund     = "Refund"
	CreditTypePurchase   = "Purchase"
	CreditTypeAdjustment = "Adjustment"

	FeatureImageGeneration = "ImageGeneration"
)

type (
	UserCredits struct {
		Balance        int `json:"balance"`
		TotalPurchased int `json:"total_purchased"`
		TotalUsed      int `json:"total_used"`
		TotalRefunded  int `json:"total_refunded"`
	}

	CreditTransaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"user_id"`
		Amount      int       `json:"amount"`
		Type        string    `json:"type"`
		Feature     string    `json:"feature,omitempty"`
		Reference   string    `json:"reference,omitempty"`
		Description string    `json:"description"`
		Balance     int       `json:"balance"`
		CreatedAt   time.Time `json:"created_at"`
	}

	SetCreditsRequest struct {
		Credits *int `json:"credits" validate:"required,min=0"`
	}

	AddCreditsRequest struct {
		Amount int    `json:"amount" validate:"required,min=1"`
		Reason string `json:"reason" validate:"omitempty,max=255"`
	}
)
