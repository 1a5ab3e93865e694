package credit

import (
	"context"
	"errors"
	"fmt"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"gorm.io/gorm"
)

type (
	CreditService interface {
		// WithTx binds the ledger to an open database transaction.
		WithTx(tx *gorm.DB) CreditService

		Reserve(ctx context.Context, userID string, amount int, feature, reference string) (int, error)
		Refund(ctx context.Context, userID string, amount int, reference string) (int, error)
		Purchase(ctx context.Context, userID string, amount int, reference, description string) (int, error)
		Signup(ctx context.Context, userID string, amount int) (int, error)
		Grant(ctx context.Context, userID string, amount int, reason string) (int, error)
		SetBalance(ctx context.Context, userID string, credits int) (int, error)

		GetUserCredits(ctx context.Context, userID string) (*domain.UserCredits, error)
		GetCreditTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.CreditTransaction, int64, error)
	}

	creditService struct {
		creditRepository CreditRepository
	}
)

func NewCreditService(creditRepository CreditRepository) CreditService {
	return &creditService{
		creditRepository: creditRepository,
	}
}

// Debit refuses to take the balance below zero.
func Debit(amount int) BalanceFunc {
	return func(balance int) (int, error) {
		if balance < amount {
			return balance, domain.ErrInsufficientCredits
		}
		return balance - amount, nil
	}
}

func Credit(amount int) BalanceFunc {
	return func(balance int) (int, error) {
		return balance + amount, nil
	}
}

func Set(credits int) BalanceFunc {
	return func(int) (int, error) {
		return credits, nil
	}
}

func (s *creditService) WithTx(tx *gorm.DB) CreditService {
	return &creditService{creditRepository: s.creditRepository.WithTx(tx)}
}

func (s *creditService) apply(ctx context.Context, userID string, change BalanceFunc, entry *entities.CreditTransaction) (int, error) {
	balance, err := s.creditRepository.ApplyLocked(ctx, userID, change, entry)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, domain.ErrUserNotFound
		}
		return balance, err
	}
	return balance, nil
}

func (s *creditService) Reserve(ctx context.Context, userID string, amount int, feature, reference string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	return s.apply(ctx, userID, Debit(amount), &entities.CreditTransaction{
		Type:        domain.CreditTypeUse,
		Feature:     feature,
		Reference:   reference,
		Description: fmt.Sprintf("Used %d credits for %s", amount, feature),
	})
}

func (s *creditService) Refund(ctx context.Context, userID string, amount int, reference string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	return s.apply(ctx, userID, Credit(amount), &entities.CreditTransaction{
		Type:        domain.CreditTypeRefund,
		Reference:   reference,
		Description: fmt.Sprintf("Refunded %d credits", amount),
	})
}

func (s *creditService) Purchase(ctx context.Context, userID string, amount int, reference, description string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	if description == "" {
		description = fmt.Sprintf("Purchased %d credits", amount)
	}
	return s.apply(ctx, userID, Credit(amount), &entities.CreditTransaction{
		Type:        domain.CreditTypePurchase,
		Reference:   reference,
		Description: description,
	})
}

func (s *creditService) Signup(ctx context.Context, userID string, amount int) (int, error) {
	if amount < 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	return s.apply(ctx, userID, Credit(amount), &entities.CreditTransaction{
		Type:        domain.CreditTypeSignup,
		Description: fmt.Sprintf("Signup bonus of %d credits", amount),
	})
}

func (s *creditService) Grant(ctx context.Context, userID string, amount int, reason string) (int, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidCreditAmount
	}
	description := fmt.Sprintf("Admin added %d credits", amount)
	if reason != "" {
		description += ": " + reason
	}
	return s.apply(ctx, userID, Credit(amount), &entities.CreditTransaction{
		Type:        domain.CreditTypeAdjustment,
		Description: description,
	})
}

func (s *creditService) SetBalance(ctx context.Context, userID string, credits int) (int, error) {
	if credits < 0 {
		return 0, domain.ErrNegativeBalance
	}
	return s.apply(ctx, userID, Set(credits), &entities.CreditTransaction{
		Type:        domain.CreditTypeAdjustment,
		Description: fmt.Sprintf("Admin set balance to %d", credits),
	})
}

func (s *creditService) GetUserCredits(ctx context.Context, userID string) (*domain.UserCredits, error) {
	stats, err := s.creditRepository.GetUserCreditStats(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &domain.UserCredits{
		Balance:        stats["balance"],
		TotalPurchased: stats["total_purchased"],
		TotalUsed:      stats["total_used"],
		TotalRefunded:  stats["total_refunded"],
	}, nil
}

func (s *creditService) GetCreditTransactionHistory(ctx context.Context, userID string, page, limit int) ([]*domain.CreditTransaction, int64, error) {
	transactions, count, err := s.creditRepository.GetUserCreditTransactions(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.CreditTransaction, 0, len(transactions))
	for _, tx := range transactions {
		result = append(result, &domain.CreditTransaction{
			ID:          tx.ID.String(),
			UserID:      tx.UserID.String(),
			Amount:      tx.Amount,
			Type:        tx.Type,
			Feature:     tx.Feature,
			Reference:   tx.Reference,
			Description: tx.Description,
			Balance:     tx.Balance,
			CreatedAt:   tx.CreatedAt,
		})
	}

	return result, count, nil
}
