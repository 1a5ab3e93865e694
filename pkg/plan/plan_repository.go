package plan

import (
	"context"
	"veronikaextra-backend/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PlanRepository interface {
		GetPlans(ctx context.Context) ([]*entities.CreditPlan, error)
		GetPlanByID(ctx context.Context, id uint) (*entities.CreditPlan, error)
		UpdatePlan(ctx context.Context, plan *entities.CreditPlan) error
		// SeedPlans inserts plans whose id is missing and leaves edited ones alone.
		SeedPlans(ctx context.Context, plans []*entities.CreditPlan) error
	}

	planRepository struct {
		db *gorm.DB
	}
)

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{
		db: db,
	}
}

func (r *planRepository) GetPlans(ctx context.Context) ([]*entities.CreditPlan, error) {
	var plans []*entities.CreditPlan
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *planRepository) GetPlanByID(ctx context.Context, id uint) (*entities.CreditPlan, error) {
	var plan entities.CreditPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) UpdatePlan(ctx context.Context, plan *entities.CreditPlan) error {
	result := r.db.WithContext(ctx).
		Model(&entities.CreditPlan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]any{
			"credits":   plan.Credits,
			"inr_price": plan.InrPrice,
			"usd_price": plan.UsdPrice,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *planRepository) SeedPlans(ctx context.Context, plans []*entities.CreditPlan) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&plans).Error
}
