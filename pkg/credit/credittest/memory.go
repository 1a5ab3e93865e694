// Package credittest provides an in-memory ledger for service tests.
package credittest

import (
	"context"
	"sort"
	"sync"
	"time"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"
	"veronikaextra-backend/pkg/credit"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemoryRepository struct {
	mu       sync.Mutex
	balances map[string]int
	Entries  []entities.CreditTransaction
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{balances: map[string]int{}}
}

func (m *MemoryRepository) SetUser(userID string, balance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *MemoryRepository) Balance(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID]
}

func (m *MemoryRepository) WithTx(*gorm.DB) credit.CreditRepository {
	return m
}

func (m *MemoryRepository) ApplyLocked(_ context.Context, userID string, change credit.BalanceFunc, entry *entities.CreditTransaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.balances[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	next, err := change(current)
	if err != nil {
		return current, err
	}
	if next < 0 {
		return current, domain.ErrNegativeBalance
	}
	m.balances[userID] = next

	if entry != nil {
		entry.ID = uuid.New()
		entry.UserID, _ = uuid.Parse(userID)
		entry.Amount = next - current
		entry.Balance = next
		entry.CreatedAt = time.Now().Add(time.Duration(len(m.Entries)) * time.Millisecond)
		m.Entries = append(m.Entries, *entry)
	}
	return next, nil
}

func (m *MemoryRepository) GetUserBalance(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[userID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return balance, nil
}

func (m *MemoryRepository) GetUserCreditStats(ctx context.Context, userID string) (map[string]int, error) {
	balance, err := m.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	totals := map[string]int{}
	for _, e := range m.Entries {
		if e.UserID.String() == userID {
			totals[e.Type] += e.Amount
		}
	}
	return map[string]int{
		"balance":         balance,
		"total_purchased": totals[domain.CreditTypePurchase],
		"total_used":      -totals[domain.CreditTypeUse],
		"total_refunded":  totals[domain.CreditTypeRefund],
	}, nil
}

func (m *MemoryRepository) GetUserCreditTransactions(_ context.Context, userID string, page, limit int) ([]*entities.CreditTransaction, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []*entities.CreditTransaction
	for i := range m.Entries {
		if m.Entries[i].UserID.String() == userID {
			row := m.Entries[i]
			rows = append(rows, &row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })

	total := int64(len(rows))
	start := (page - 1) * limit
	if start >= len(rows) {
		return []*entities.CreditTransaction{}, total, nil
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], total, nil
}
