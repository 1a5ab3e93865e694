package settings

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/internal/utils/storage"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	SettingsService interface {
		GetGlobalNotice(ctx context.Context) (string, error)
		SetGlobalNotice(ctx context.Context, message string) error
		GetCreditsPageNotice(ctx context.Context) (string, error)
		SetCreditsPageNotice(ctx context.Context, message string) error
		GetExchangeRate(ctx context.Context) (float64, error)
		SetExchangeRate(ctx context.Context, rate float64) error
		GetContactInfo(ctx context.Context) (*domain.ContactInfo, error)
		SetContactInfo(ctx context.Context, info domain.ContactInfo) error
		GetSocialLinks(ctx context.Context) (*domain.SocialLinks, error)
		SetSocialLinks(ctx context.Context, links domain.SocialLinks) error
		GetLegalContent(ctx context.Context) (*domain.LegalContent, error)
		SetLegalContent(ctx context.Context, content domain.LegalContent) error
		GetPaymentInfo(ctx context.Context) (*domain.PaymentInfo, error)
		UpdatePaymentInfo(ctx context.Context, upiID string, qrCode *multipart.FileHeader) (*domain.PaymentInfo, error)
		EnsureDefaults(ctx context.Context) error
	}

	settingsService struct {
		settingsRepository SettingsRepository
		s3                 storage.AwsS3
		defaults           map[string]any
	}
)

func NewSettingsService(settingsRepository SettingsRepository, s3 storage.AwsS3, imageCost, initialCredits int) SettingsService {
	return &settingsService{
		settingsRepository: settingsRepository,
		s3:                 s3,
		defaults:           defaultValues(imageCost, initialCredits),
	}
}

// load decodes the stored value into out, falling back to the default when the key is unset.
func (s *settingsService) load(ctx context.Context, key string, out any) error {
	setting, err := s.settingsRepository.GetSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		raw, err := json.Marshal(s.defaults[key])
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, out)
	}
	return json.Unmarshal(setting.Value, out)
}

func (s *settingsService) store(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.settingsRepository.UpsertSetting(ctx, key, datatypes.JSON(raw))
}

func (s *settingsService) GetGlobalNotice(ctx context.Context) (string, error) {
	var notice string
	err := s.load(ctx, domain.SettingGlobalNotice, &notice)
	return notice, err
}

func (s *settingsService) SetGlobalNotice(ctx context.Context, message string) error {
	return s.store(ctx, domain.SettingGlobalNotice, message)
}

func (s *settingsService) GetCreditsPageNotice(ctx context.Context) (string, error) {
	var notice string
	err := s.load(ctx, domain.SettingCreditsPageNotice, &notice)
	return notice, err
}

func (s *settingsService) SetCreditsPageNotice(ctx context.Context, message string) error {
	return s.store(ctx, domain.SettingCreditsPageNotice, message)
}

func (s *settingsService) GetExchangeRate(ctx context.Context) (float64, error) {
	var rate float64
	if err := s.load(ctx, domain.SettingExchangeRate, &rate); err != nil {
		return domain.DefaultExchangeRate, err
	}
	if rate <= 0 {
		return domain.DefaultExchangeRate, nil
	}
	return rate, nil
}

func (s *settingsService) SetExchangeRate(ctx context.Context, rate float64) error {
	if rate <= 0 {
		return domain.ErrInvalidExchangeRate
	}
	return s.store(ctx, domain.SettingExchangeRate, rate)
}

func (s *settingsService) GetContactInfo(ctx context.Context) (*domain.ContactInfo, error) {
	var info domain.ContactInfo
	if err := s.load(ctx, domain.SettingContactInfo, &info); err != nil {
		return nil, err
	}
	if info.Email1 == "" {
		info.Email1 = domain.DefaultContactEmail
	}
	return &info, nil
}

func (s *settingsService) SetContactInfo(ctx context.Context, info domain.ContactInfo) error {
	return s.store(ctx, domain.SettingContactInfo, info)
}

func (s *settingsService) GetSocialLinks(ctx context.Context) (*domain.SocialLinks, error) {
	var links domain.SocialLinks
	if err := s.load(ctx, domain.SettingSocialLinks, &links); err != nil {
		return nil, err
	}
	return &links, nil
}

func (s *settingsService) SetSocialLinks(ctx context.Context, links domain.SocialLinks) error {
	return s.store(ctx, domain.SettingSocialLinks, links)
}

func (s *settingsService) GetLegalContent(ctx context.Context) (*domain.LegalContent, error) {
	var content domain.LegalContent
	if err := s.load(ctx, domain.SettingLegalContent, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (s *settingsService) SetLegalContent(ctx context.Context, content domain.LegalContent) error {
	return s.store(ctx, domain.SettingLegalContent, content)
}

func (s *settingsService) GetPaymentInfo(ctx context.Context) (*domain.PaymentInfo, error) {
	var info domain.PaymentInfo
	if err := s.load(ctx, domain.SettingPaymentInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *settingsService) UpdatePaymentInfo(ctx context.Context, upiID string, qrCode *multipart.FileHeader) (*domain.PaymentInfo, error) {
	info, err := s.GetPaymentInfo(ctx)
	if err != nil {
		return nil, err
	}
	if upiID != "" {
		info.UpiID = upiID
	}

	if qrCode != nil {
		if !s.s3.Enabled() {
			return nil, domain.ErrSettingStorageUnavailable
		}
		objectKey, err := s.s3.UploadFile("upi-qr", qrCode, "payment", storage.AllowImage...)
		if err != nil {
			return nil, err
		}
		if old := s.s3.GetObjectKeyFromLink(info.UpiQRURL); old != "" {
			if err := s.s3.DeleteFile(old); err != nil {
				log.Warnf("failed to delete previous qr code %s: %v", old, err)
			}
		}
		info.UpiQRURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.store(ctx, domain.SettingPaymentInfo, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (s *settingsService) EnsureDefaults(ctx context.Context) error {
	for key, value := range s.defaults {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if err := s.settingsRepository.SeedSetting(ctx, key, datatypes.JSON(raw)); err != nil {
			return err
		}
	}
	return nil
}
