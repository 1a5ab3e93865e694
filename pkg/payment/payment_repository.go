package payment

import (
	"context"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type (
	PaymentRepository interface {
		CreatePaymentRequest(ctx context.Context, p *entities.PaymentRequest) error
		SavePaymentLink(ctx context.Context, id uuid.UUID, link string, payload datatypes.JSON) error
		GetPaymentRequestByID(ctx context.Context, id string) (*entities.PaymentRequest, error)
		GetPaymentRequestByOrderID(ctx context.Context, orderID string) (*entities.PaymentRequest, error)
		GetPaymentRequests(ctx context.Context, page, limit int) ([]*entities.PaymentRequest, int64, error)
		GetUserPaymentRequests(ctx context.Context, userID string) ([]*entities.PaymentRequest, error)

		// TransitionPaymentRequest moves a pending request to status and runs onFlip
		// in the same transaction. It reports false when the request was no longer pending.
		TransitionPaymentRequest(ctx context.Context, id uuid.UUID, status string, onFlip func(tx *gorm.DB) error) (bool, error)

		CreateCryptoTransaction(ctx context.Context, t *entities.CryptoPaymentTransaction) error
		SaveCryptoInvoice(ctx context.Context, id uuid.UUID, trackID, paymentURL string, payload datatypes.JSON) error
		GetCryptoTransactionByOrderID(ctx context.Context, orderID string) (*entities.CryptoPaymentTransaction, error)
		GetCryptoTransactions(ctx context.Context, page, limit int) ([]*entities.CryptoPaymentTransaction, int64, error)
		GetUserCryptoTransactions(ctx context.Context, userID string) ([]*entities.CryptoPaymentTransaction, error)
		CompleteCryptoTransaction(ctx context.Context, id uuid.UUID, onFlip func(tx *gorm.DB) error) (bool, error)
	}

	paymentRepository struct {
		db *gorm.DB
	}
)

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

func (r *paymentRepository) CreatePaymentRequest(ctx context.Context, p *entities.PaymentRequest) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *paymentRepository) SavePaymentLink(ctx context.Context, id uuid.UUID, link string, payload datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&entities.PaymentRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_link":    link,
			"gateway_payload": payload,
		}).Error
}

func (r *paymentRepository) GetPaymentRequestByID(ctx context.Context, id string) (*entities.PaymentRequest, error) {
	var p entities.PaymentRequest
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetPaymentRequestByOrderID(ctx context.Context, orderID string) (*entities.PaymentRequest, error) {
	var p entities.PaymentRequest
	if err := r.db.WithContext(ctx).Preload("User").Where("order_id = ?", orderID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) GetPaymentRequests(ctx context.Context, page, limit int) ([]*entities.PaymentRequest, int64, error) {
	var requests []*entities.PaymentRequest
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.PaymentRequest{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, count, nil
}

func (r *paymentRepository) GetUserPaymentRequests(ctx context.Context, userID string) ([]*entities.PaymentRequest, error) {
	var requests []*entities.PaymentRequest
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *paymentRepository) TransitionPaymentRequest(ctx context.Context, id uuid.UUID, status string, onFlip func(tx *gorm.DB) error) (bool, error) {
	flipped := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.PaymentRequest{}).
			Where("id = ? AND status = ?", id, domain.PaymentStatusPending).
			Updates(map[string]any{
				"status":       status,
				"processed_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if onFlip != nil {
			if err := onFlip(tx); err != nil {
				return err
			}
		}
		flipped = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return flipped, nil
}

func (r *paymentRepository) CreateCryptoTransaction(ctx context.Context, t *entities.CryptoPaymentTransaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *paymentRepository) SaveCryptoInvoice(ctx context.Context, id uuid.UUID, trackID, paymentURL string, payload datatypes.JSON) error {
	return r.db.WithContext(ctx).
		Model(&entities.CryptoPaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"track_id":        trackID,
			"payment_url":     paymentURL,
			"gateway_payload": payload,
		}).Error
}

func (r *paymentRepository) GetCryptoTransactionByOrderID(ctx context.Context, orderID string) (*entities.CryptoPaymentTransaction, error) {
	var t entities.CryptoPaymentTransaction
	if err := r.db.WithContext(ctx).Preload("User").Where("order_id = ?", orderID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *paymentRepository) GetCryptoTransactions(ctx context.Context, page, limit int) ([]*entities.CryptoPaymentTransaction, int64, error) {
	var transactions []*entities.CryptoPaymentTransaction
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.CryptoPaymentTransaction{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}

func (r *paymentRepository) GetUserCryptoTransactions(ctx context.Context, userID string) ([]*entities.CryptoPaymentTransaction, error) {
	var transactions []*entities.CryptoPaymentTransaction
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *paymentRepository) CompleteCryptoTransaction(ctx context.Context, id uuid.UUID, onFlip func(tx *gorm.DB) error) (bool, error) {
	flipped := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.CryptoPaymentTransaction{}).
			Where("id = ? AND status = ?", id, domain.CryptoStatusPending).
			Updates(map[string]any{
				"status":       domain.CryptoStatusCompleted,
				"completed_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if onFlip != nil {
			if err := onFlip(tx); err != nil {
				return err
			}
		}
		flipped = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return flipped, nil
}
