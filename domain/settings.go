package domain

import (
	"errors"
	"mime/multipart"
)

const (
	SettingGlobalNotice      = "global_notice"
	SettingCreditsPageNotice = "credits_page_notice"
	SettingExchangeRate      = "exchange_rate"
	SettingContactInfo       = "contact_info"
	SettingSocialLinks       = "social_links"
	SettingLegalContent      = "legal_content"
	SettingPaymentInfo       = "payment_info"

	DefaultExchangeRate = 83.0
	DefaultContactEmail = "infobabe09@gmail.com"
	DefaultUpiID        = "ankanbayen@oksbi"
	BrandName           = "VERONIKAextra"
)

var (
	MessageSuccessGetSetting     = "setting retrieved successfully"
	MessageSuccessGlobalNotice   = "Global notice updated successfully."
	MessageSuccessCreditsNotice  = "Credits page notice updated successfully."
	MessageSuccessExchangeRate   = "Exchange rate updated successfully."
	MessageSuccessContactInfo    = "Contact info updated successfully."
	MessageSuccessSocialLinks    = "Social links updated."
	MessageSuccessLegalContent   = "Legal content updated."
	MessageSuccessPaymentInfo    = "Payment info updated."
	MessageFailedGetSetting      = "failed to retrieve setting"
	MessageFailedUpdateSetting   = "failed to update setting"
	ErrInvalidExchangeRate       = errors.New("exchange rate must be positive")
	ErrSettingStorageUnavailable = errors.New("object storage is not configured")
)

type (
	NoticeRequest struct {
		Message string `json:"message" validate:"max=2000"`
	}

	ExchangeRateRequest struct {
		Rate float64 `json:"rate" validate:"required,gt=0"`
	}

	ContactInfo struct {
		Email1   string `json:"email1" validate:"omitempty,email"`
		Email2   string `json:"email2" validate:"omitempty,email"`
		Location string `json:"location" validate:"max=255"`
		Phone    string `json:"phone" validate:"max=32"`
		Note     string `json:"note" validate:"max=2000"`
	}

	SocialLinks struct {
		Instagram string `json:"instagram" validate:"omitempty,url"`
		Twitter   string `json:"twitter" validate:"omitempty,url"`
		Website   string `json:"website" validate:"omitempty,url"`
		General   string `json:"general" validate:"omitempty,url"`
	}

	LegalContent struct {
		Terms   string `json:"terms"`
		Privacy string `json:"privacy"`
	}

	PaymentInfo struct {
		UpiID    string `json:"upi_id"`
		UpiQRURL string `json:"upi_qr_url,omitempty"`
	}

	UpdatePaymentInfoRequest struct {
		UpiID  string                `json:"upi_id" form:"upi_id" validate:"omitempty,max=128"`
		QRCode *multipart.FileHeader `json:"-" form:"-"`
	}
)
