package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusApproved = "approved"
	PaymentStatusRejected = "rejected"

	CryptoStatusPending   = "pending"
	CryptoStatusCompleted = "completed"

	ProviderCashfree = "CASHFREE"
	ProviderOxapay   = "OXPAY"

	// Gateway names label gateway errors and stored crypto transactions.
	GatewayCashfree = "CASHFREE"
	GatewayOxapay   = "OXAPAY"

	CurrencyINR = "INR"
	CurrencyUSD = "USD"

	DefaultCustomerPhone = "9999999999"

	EventPaymentSettled = "payment.settled"
)

var (
	MessageSuccessCreateUpiPayment    = "Redirecting to UPI..."
	MessageSuccessCreateCryptoPayment = "Crypto payment intent recorded. Redirecting..."
	MessageSuccessVerifyPayment       = "payment verified successfully"
	MessageAlreadyCompleted           = "Already completed."
	MessageSuccessGetPayments         = "payment requests retrieved successfully"
	MessageSuccessGetCryptoPayments   = "crypto payment transactions retrieved successfully"
	MessageSuccessApprovePayment      = "Payment request approved."
	MessageApprovedWithoutCredits     = "Payment request approved (No specific credits found to add)."
	MessageSuccessRejectPayment       = "Payment request rejected."
	MessageSuccessWebhook             = "webhook processed"

	MessageFailedCreatePayment  = "failed to create payment"
	MessageFailedVerifyPayment  = "Payment verification failed."
	MessageFailedGetPayments    = "failed to retrieve payment requests"
	MessageFailedApprovePayment = "failed to approve payment request"
	MessageFailedRejectPayment  = "failed to reject payment request"
	MessageFailedWebhook        = "failed to process webhook"

	ErrPaymentRequestNotFound   = errors.New("Payment request not found.")
	ErrTransactionNotFound      = errors.New("Transaction record not found.")
	ErrPaymentAlreadyProcessed  = errors.New("Payment request already processed.")
	ErrPaymentNotCompleted      = errors.New("Payment not completed yet.")
	ErrPaymentExpired           = errors.New("Payment expired or was cancelled.")
	ErrPaymentGateway           = errors.New("Payment Gateway Error")
	ErrGatewayNotConfigured     = errors.New("payment gateway credentials missing")
	ErrInvalidProvider          = errors.New("invalid payment provider")
	ErrInvalidWebhookSignature  = errors.New("invalid webhook signature")
	ErrPaymentOwnerNotFound     = errors.New("User associated with request not found.")
	ErrPaymentAmountUnavailable = errors.New("plan price unavailable for this gateway")
)

type (
	CreateUpiPaymentRequest struct {
		PlanID        uint   `json:"plan_id" validate:"required,min=1"`
		CustomerPhone string `json:"customer_phone" validate:"omitempty,phone"`
		ReturnURL     string `json:"return_url" validate:"required,url"`
	}

	CreateUpiPaymentResponse struct {
		Message     string `json:"message"`
		PaymentLink string `json:"paymentLink,omitempty"`
		OrderID     string `json:"orderId"`
	}

	CreateCryptoPaymentRequest struct {
		PlanID    uint   `json:"plan_id" validate:"required,min=1"`
		ReturnURL string `json:"return_url" validate:"required,url"`
	}

	CreateCryptoPaymentResponse struct {
		Message    string `json:"message"`
		PaymentURL string `json:"paymentUrl,omitempty"`
		OrderID    string `json:"orderId"`
	}

	VerifyPaymentRequest struct {
		OrderID  string `json:"orderId" validate:"required"`
		Provider string `json:"provider" validate:"required,oneof=CASHFREE OXPAY"`
	}

	VerifyPaymentResponse struct {
		NewCredits int    `json:"newCredits"`
		Message    string `json:"message,omitempty"`
	}

	PaymentRequest struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		UserName    string          `json:"userName"`
		UserEmail   string          `json:"userEmail"`
		PlanID      uint            `json:"planId"`
		Plan        string          `json:"plan"`
		Credits     int             `json:"credits"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		OrderID     string          `json:"utrCode"`
		Date        string          `json:"date"`
		Note        string          `json:"note"`
		Status      string          `json:"status"`
		CreatedAt   time.Time       `json:"createdAt"`
		ProcessedAt *time.Time      `json:"processedAt,omitempty"`
	}

	CryptoPaymentTransaction struct {
		ID          string          `json:"id"`
		UserID      string          `json:"userId"`
		UserName    string          `json:"userName"`
		UserEmail   string          `json:"userEmail"`
		OrderID     string          `json:"orderId"`
		TrackID     string          `json:"trackId,omitempty"`
		Credits     int             `json:"credits"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		Gateway     string          `json:"gateway"`
		Status      string          `json:"status"`
		CreatedAt   time.Time       `json:"createdAt"`
		CompletedAt *time.Time      `json:"completedAt,omitempty"`
	}

	ApprovePaymentResponse struct {
		Message      string `json:"message"`
		CreditsAdded int    `json:"creditsAdded"`
	}

	PaymentSettledEvent struct {
		Provider  string          `json:"provider"`
		OrderID   string          `json:"order_id"`
		UserID    string          `json:"user_id"`
		UserName  string          `json:"user_name"`
		UserEmail string          `json:"user_email"`
		Credits   int             `json:"credits"`
		Amount    decimal.Decimal `json:"amount"`
		Currency  string          `json:"currency"`
		Balance   int             `json:"balance"`
		SettledAt time.Time       `json:"settled_at"`
	}
)
