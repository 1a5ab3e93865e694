package plan

import (
	"context"
	"errors"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/entities"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	PlanService interface {
		GetAvailablePlans(ctx context.Context) ([]*domain.CreditPlan, error)
		GetAdminPlans(ctx context.Context) ([]*domain.CreditPlan, error)
		GetPlanByID(ctx context.Context, id uint) (*domain.CreditPlan, error)
		UpdatePlan(ctx context.Context, id uint, req domain.UpdateCreditPlanRequest) (*domain.CreditPlan, error)
		EnsureDefaults(ctx context.Context) error
	}

	planService struct {
		planRepository PlanRepository
	}
)

var defaultInrPrices = []struct {
	id      uint
	credits int
	inr     int64
}{
	{1, 50, 149},
	{2, 100, 229},
	{3, 200, 299},
	{4, 500, 349},
	{5, 1000, 499},
}

func NewPlanService(planRepository PlanRepository) PlanService {
	return &planService{
		planRepository: planRepository,
	}
}

// UsdFromInr converts at the given rate, rounded to cents.
func UsdFromInr(inr decimal.Decimal, rate float64) decimal.Decimal {
	if rate <= 0 {
		rate = domain.DefaultExchangeRate
	}
	return inr.Div(decimal.NewFromFloat(rate)).Round(2)
}

func DefaultPlans() []*entities.CreditPlan {
	plans := make([]*entities.CreditPlan, 0, len(defaultInrPrices))
	for _, p := range defaultInrPrices {
		inr := decimal.NewFromInt(p.inr)
		plans = append(plans, &entities.CreditPlan{
			ID:       p.id,
			Credits:  p.credits,
			InrPrice: inr,
			UsdPrice: UsdFromInr(inr, domain.DefaultExchangeRate),
		})
	}
	return plans
}

func toDomain(p *entities.CreditPlan) *domain.CreditPlan {
	return &domain.CreditPlan{
		ID:       p.ID,
		Credits:  p.Credits,
		InrPrice: p.InrPrice,
		UsdPrice: p.UsdPrice,
	}
}

func (s *planService) GetAvailablePlans(ctx context.Context) ([]*domain.CreditPlan, error) {
	plans, err := s.planRepository.GetPlans(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.CreditPlan, 0, len(plans))
	for _, p := range plans {
		result = append(result, toDomain(p))
	}
	return result, nil
}

func (s *planService) GetAdminPlans(ctx context.Context) ([]*domain.CreditPlan, error) {
	return s.GetAvailablePlans(ctx)
}

func (s *planService) GetPlanByID(ctx context.Context, id uint) (*domain.CreditPlan, error) {
	p, err := s.planRepository.GetPlanByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCreditPlanNotFound
		}
		return nil, err
	}
	return toDomain(p), nil
}

func (s *planService) UpdatePlan(ctx context.Context, id uint, req domain.UpdateCreditPlanRequest) (*domain.CreditPlan, error) {
	if req.Credits <= 0 || req.InrPrice.IsNegative() || req.UsdPrice.IsNegative() {
		return nil, domain.ErrInvalidCreditPlan
	}

	p := &entities.CreditPlan{
		ID:       id,
		Credits:  req.Credits,
		InrPrice: req.InrPrice.Round(2),
		UsdPrice: req.UsdPrice.Round(2),
	}
	if err := s.planRepository.UpdatePlan(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCreditPlanNotFound
		}
		return nil, err
	}
	return toDomain(p), nil
}

func (s *planService) EnsureDefaults(ctx context.Context) error {
	return s.planRepository.SeedPlans(ctx, DefaultPlans())
}
