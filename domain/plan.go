package domain

import (
	"errors"
	"strconv"

	"github.com/shopspring/decimal"
)

var (
	MessageSuccessGetCreditPlans   = "credit plans retrieved successfully"
	MessageSuccessUpdateCreditPlan = "Credit plan updated successfully."

	MessageFailedGetCreditPlans   = "failed to retrieve credit plans"
	MessageFailedUpdateCreditPlan = "failed to update credit plan"

	ErrCreditPlanNotFound = errors.New("Credit plan not found.")
	ErrInvalidCreditPlan  = errors.New("invalid credit plan values")
)

type (
	CreditPlan struct {
		ID       uint            `json:"id"`
		Credits  int             `json:"credits"`
		InrPrice decimal.Decimal `json:"inrPrice"`
		UsdPrice decimal.Decimal `json:"usdPrice"`
	}

	UpdateCreditPlanRequest struct {
		Credits  int             `json:"credits" validate:"required,min=1"`
		InrPrice decimal.Decimal `json:"inrPrice"`
		UsdPrice decimal.Decimal `json:"usdPrice"`
	}
)

// Label renders the plan the way payment records describe it.
func (p CreditPlan) Label() string {
	return strconv.Itoa(p.Credits) + " Credits"
}
