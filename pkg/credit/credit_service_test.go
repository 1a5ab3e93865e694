package credit_test

import (
	"context"
	"sync"
	"testing"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/pkg/credit"
	"veronikaextra-backend/pkg/credit/credittest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedger(t *testing.T, balance int) (credit.CreditService, *credittest.MemoryRepository, string) {
	t.Helper()
	repo := credittest.NewMemoryRepository()
	userID := uuid.NewString()
	repo.SetUser(userID, balance)
	return credit.NewCreditService(repo), repo, userID
}

func TestDebitRefusesOverdraft(t *testing.T) {
	next, err := credit.Debit(10)(9)
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
	assert.Equal(t, 9, next)

	next, err = credit.Debit(10)(10)
	require.NoError(t, err)
	assert.Equal(t, 0, next)
}

func TestReserveAndRefundRecordLedgerRows(t *testing.T) {
	svc, repo, userID := newLedger(t, 25)
	ctx := context.Background()

	balance, err := svc.Reserve(ctx, userID, 15, domain.FeatureImageGeneration, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, 10, balance)

	balance, err = svc.Refund(ctx, userID, 5, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, 15, balance)

	require.Len(t, repo.Entries, 2)
	assert.Equal(t, -15, repo.Entries[0].Amount)
	assert.Equal(t, domain.CreditTypeUse, repo.Entries[0].Type)
	assert.Equal(t, 10, repo.Entries[0].Balance)
	assert.Equal(t, 5, repo.Entries[1].Amount)
	assert.Equal(t, domain.CreditTypeRefund, repo.Entries[1].Type)

	credits, err := svc.GetUserCredits(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, &domain.UserCredits{Balance: 15, TotalUsed: 15, TotalRefunded: 5}, credits)
}

func TestReserveInsufficientLeavesBalance(t *testing.T) {
	svc, repo, userID := newLedger(t, 4)

	_, err := svc.Reserve(context.Background(), userID, 5, domain.FeatureImageGeneration, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
	assert.Equal(t, 4, repo.Balance(userID))
	assert.Empty(t, repo.Entries)
}

func TestConcurrentReservesNeverOverdraw(t *testing.T) {
	svc, repo, userID := newLedger(t, 25)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Reserve(context.Background(), userID, 5, domain.FeatureImageGeneration, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, repo.Balance(userID))
}

func TestSetBalanceAndGrant(t *testing.T) {
	svc, repo, userID := newLedger(t, 25)
	ctx := context.Background()

	_, err := svc.SetBalance(ctx, userID, -1)
	assert.ErrorIs(t, err, domain.ErrNegativeBalance)

	balance, err := svc.SetBalance(ctx, userID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, balance)
	assert.Equal(t, 75, repo.Entries[0].Amount)

	balance, err = svc.Grant(ctx, userID, 50, "support ticket")
	require.NoError(t, err)
	assert.Equal(t, 150, balance)
	assert.Contains(t, repo.Entries[1].Description, "support ticket")

	_, err = svc.Grant(ctx, userID, 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidCreditAmount)
}

func TestUnknownUserMapsToNotFound(t *testing.T) {
	svc, _, _ := newLedger(t, 0)

	_, err := svc.Purchase(context.Background(), uuid.NewString(), 50, "order_1", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestHistoryIsNewestFirst(t *testing.T) {
	svc, _, userID := newLedger(t, 0)
	ctx := context.Background()

	_, err := svc.Signup(ctx, userID, 25)
	require.NoError(t, err)
	_, err = svc.Purchase(ctx, userID, 100, "order_1", "")
	require.NoError(t, err)

	history, total, err := svc.GetCreditTransactionHistory(ctx, userID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, history, 1)
	assert.Equal(t, domain.CreditTypePurchase, history[0].Type)
	assert.Equal(t, "order_1", history[0].Reference)
	assert.Equal(t, 125, history[0].Balance)
}
