package credit

import (
	"context"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceFunc maps the locked balance to the balance that should be stored.
type BalanceFunc func(balance int) (int, error)

type (
	CreditRepository interface {
		WithTx(tx *gorm.DB) CreditRepository

		// ApplyLocked locks the user row, applies change and records entry in the
		// ledger with the resulting delta and balance. A nil entry skips the ledger row.
		ApplyLocked(ctx context.Context, userID string, change BalanceFunc, entry *entities.CreditTransaction) (int, error)

		GetUserBalance(ctx context.Context, userID string) (int, error)
		GetUserCreditStats(ctx context.Context, userID string) (map[string]int, error)
		GetUserCreditTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.CreditTransaction, int64, error)
	}

	creditRepository struct {
		db *gorm.DB
	}
)

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{
		db: db,
	}
}

func (r *creditRepository) WithTx(tx *gorm.DB) CreditRepository {
	if tx == nil {
		return r
	}
	return &creditRepository{db: tx}
}

func (r *creditRepository) ApplyLocked(ctx context.Context, userID string, change BalanceFunc, entry *entities.CreditTransaction) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "credits").
			Where("id = ?", userID).
			First(&user).Error; err != nil {
			return err
		}

		next, err := change(user.Credits)
		if err != nil {
			return err
		}
		if next < 0 {
			return domain.ErrNegativeBalance
		}

		if err := tx.Model(&entities.User{}).
			Where("id = ?", userID).
			Update("credits", next).Error; err != nil {
			return err
		}

		if entry != nil {
			entry.UserID = user.ID
			entry.Amount = next - user.Credits
			entry.Balance = next
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		balance = next
		return nil
	})
	return balance, err
}

func (r *creditRepository) GetUserBalance(ctx context.Context, userID string) (int, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Select("credits").
		Where("id = ?", userID).
		First(&user).Error; err != nil {
		return 0, err
	}
	return user.Credits, nil
}

func (r *creditRepository) sumByType(ctx context.Context, userID, kind string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&entities.CreditTransaction{}).
		Where("user_id = ? AND type = ?", userID, kind).
		Select("COALESCE(SUM(amount), 0) as total").
		Row().
		Scan(&total)
	return total, err
}

func (r *creditRepository) GetUserCreditStats(ctx context.Context, userID string) (map[string]int, error) {
	balance, err := r.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	totalPurchased, err := r.sumByType(ctx, userID, domain.CreditTypePurchase)
	if err != nil {
		return nil, err
	}

	// spending rows are stored negative
	totalUsed, err := r.sumByType(ctx, userID, domain.CreditTypeUse)
	if err != nil {
		return nil, err
	}

	totalRefunded, err := r.sumByType(ctx, userID, domain.CreditTypeRefund)
	if err != nil {
		return nil, err
	}

	return map[string]int{
		"balance":         balance,
		"total_purchased": totalPurchased,
		"total_used":      -totalUsed,
		"total_refunded":  totalRefunded,
	}, nil
}

func (r *creditRepository) GetUserCreditTransactions(ctx context.Context, userID string, page, limit int) ([]*entities.CreditTransaction, int64, error) {
	var transactions []*entities.CreditTransaction
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.CreditTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}
