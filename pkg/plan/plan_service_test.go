package plan

import (
	"context"
	"sort"
	"testing"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePlanRepository struct {
	plans map[uint]*entities.CreditPlan
}

func (f *fakePlanRepository) GetPlans(context.Context) ([]*entities.CreditPlan, error) {
	var out []*entities.CreditPlan
	for _, p := range f.plans {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlanRepository) GetPlanByID(_ context.Context, id uint) (*entities.CreditPlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePlanRepository) UpdatePlan(_ context.Context, plan *entities.CreditPlan) error {
	if _, ok := f.plans[plan.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *plan
	f.plans[plan.ID] = &copied
	return nil
}

func (f *fakePlanRepository) SeedPlans(_ context.Context, plans []*entities.CreditPlan) error {
	for _, p := range plans {
		if _, ok := f.plans[p.ID]; !ok {
			copied := *p
			f.plans[p.ID] = &copied
		}
	}
	return nil
}

func newTestService(t *testing.T) PlanService {
	t.Helper()
	svc := NewPlanService(&fakePlanRepository{plans: map[uint]*entities.CreditPlan{}})
	require.NoError(t, svc.EnsureDefaults(context.Background()))
	return svc
}

func TestDefaultPlans(t *testing.T) {
	plans, err := newTestService(t).GetAvailablePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 5)

	assert.Equal(t, uint(1), plans[0].ID)
	assert.Equal(t, 50, plans[0].Credits)
	assert.True(t, plans[0].InrPrice.Equal(decimal.NewFromInt(149)))
	assert.Equal(t, "1.80", plans[0].UsdPrice.StringFixed(2))
	assert.Equal(t, 1000, plans[4].Credits)
	assert.Equal(t, "6.01", plans[4].UsdPrice.StringFixed(2))
}

func TestUsdFromInr(t *testing.T) {
	assert.Equal(t, "3.60", UsdFromInr(decimal.NewFromInt(299), 83).StringFixed(2))
	assert.Equal(t, "2.00", UsdFromInr(decimal.NewFromInt(200), 100).StringFixed(2))
	assert.Equal(t, "2.41", UsdFromInr(decimal.NewFromInt(200), 0).StringFixed(2))
}

func TestEnsureDefaultsKeepsEdits(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdatePlan(ctx, 2, domain.UpdateCreditPlanRequest{
		Credits:  120,
		InrPrice: decimal.NewFromInt(249),
		UsdPrice: decimal.RequireFromString("2.999"),
	})
	require.NoError(t, err)
	require.NoError(t, svc.EnsureDefaults(ctx))

	p, err := svc.GetPlanByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 120, p.Credits)
	assert.Equal(t, "3.00", p.UsdPrice.StringFixed(2))
}

func TestUpdatePlanValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpdatePlan(ctx, 1, domain.UpdateCreditPlanRequest{Credits: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidCreditPlan)

	_, err = svc.UpdatePlan(ctx, 1, domain.UpdateCreditPlanRequest{Credits: 10, InrPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidCreditPlan)

	_, err = svc.UpdatePlan(ctx, 99, domain.UpdateCreditPlanRequest{Credits: 10})
	assert.ErrorIs(t, err, domain.ErrCreditPlanNotFound)

	_, err = svc.GetPlanByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrCreditPlanNotFound)
}
