package domain

// Catalog resolves plans from the configured catalog.
type Catalog interface {
	Plan(id string) (Plan, error)
	// PlanByExternalPriceID returns nil when no plan carries the price id.
	// Absence is a normal condition for price ids this system does not manage.
	PlanByExternalPriceID(priceID string) *Plan
	ZeroCostPlan() (Plan, error)
	Plans() []Plan
}
