package domain

import "errors"

// Plan is a catalog entry. The catalog is reference data loaded from
// configuration, not a database table.
type Plan struct {
	ID                 string `json:"id" mapstructure:"id"`
	Name               string `json:"name" mapstructure:"name"`
	PriceMonthlyCents  int64  `json:"price_monthly_cents" mapstructure:"priceMonthlyCents"`
	MaxRepliesPerMonth *int   `json:"max_replies_per_month,omitempty" mapstructure:"maxRepliesPerMonth"`
	MaxSeats           *int   `json:"max_seats,omitempty" mapstructure:"maxSeats"`
	ExternalPriceID    string `json:"external_price_id,omitempty" mapstructure:"externalPriceId"`
}

// ZeroCost reports whether the plan costs nothing per month.
func (p Plan) ZeroCost() bool {
	return p.PriceMonthlyCents == 0
}

// Purchasable reports whether checkout can be started for the plan.
func (p Plan) Purchasable() bool {
	return !p.ZeroCost() && p.ExternalPriceID != ""
}

var (
	ErrPlanNotFound        = errors.New("plan_not_found")
	ErrZeroCostPlanMissing = errors.New("zero_cost_plan_missing")
)
