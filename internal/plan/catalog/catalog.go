package catalog

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/reclamohq/reclamo/internal/plan/domain"
	"github.com/spf13/viper"
)

func intPtr(v int) *int { return &v }

// DefaultPlans is the compiled-in catalog used when no plans.yml is mounted.
func DefaultPlans() []domain.Plan {
	return []domain.Plan{
		{
			ID:                 "free",
			Name:               "Free",
			PriceMonthlyCents:  0,
			MaxRepliesPerMonth: intPtr(2),
			MaxSeats:           intPtr(1),
		},
		{
			ID:                 "starter",
			Name:               "Starter",
			PriceMonthlyCents:  4900,
			MaxRepliesPerMonth: intPtr(50),
			MaxSeats:           intPtr(3),
			ExternalPriceID:    "price_starter_monthly",
		},
		{
			ID:                "growth",
			Name:              "Growth",
			PriceMonthlyCents: 14900,
			MaxSeats:          intPtr(10),
			ExternalPriceID:   "price_growth_monthly",
		},
	}
}

// Holder serves the plan catalog with hot reload from plans.yml.
type Holder struct {
	current atomic.Value // holds []domain.Plan
}

func NewHolder() (*Holder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/reclamo/config") // Volume-mounted config
	v.AddConfigPath("/etc/reclamo")            // System config
	v.AddConfigPath(".")                       // Current directory (dev mode)

	v.SetEnvPrefix("RECLAMO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &Holder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		holder.current.Store(DefaultPlans())
		return holder, nil
	}

	plans, err := unmarshalPlans(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(plans)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := unmarshalPlans(v)
		if err != nil {
			log.Printf("[plan-catalog] reload failed: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-catalog] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewHolderFromPlans builds a holder with a fixed catalog. Used by tests.
func NewHolderFromPlans(plans []domain.Plan) (*Holder, error) {
	if err := validatePlans(plans); err != nil {
		return nil, err
	}
	holder := &Holder{}
	holder.current.Store(plans)
	return holder, nil
}

func unmarshalPlans(v *viper.Viper) ([]domain.Plan, error) {
	var plans []domain.Plan
	if err := v.UnmarshalKey("plans", &plans); err != nil {
		return nil, err
	}
	if err := validatePlans(plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func validatePlans(plans []domain.Plan) error {
	if len(plans) == 0 {
		return errors.New("plans cannot be empty")
	}
	seen := make(map[string]struct{}, len(plans))
	hasZeroCost := false
	for _, p := range plans {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return errors.New("plan id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return errors.New("duplicate plan id: " + id)
		}
		seen[id] = struct{}{}
		if p.ZeroCost() {
			hasZeroCost = true
		}
	}
	if !hasZeroCost {
		return errors.New("catalog must contain a zero-cost plan")
	}
	return nil
}

func (h *Holder) plans() []domain.Plan {
	return h.current.Load().([]domain.Plan)
}

func (h *Holder) Plan(id string) (domain.Plan, error) {
	id = strings.TrimSpace(id)
	for _, p := range h.plans() {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrPlanNotFound
}

func (h *Holder) PlanByExternalPriceID(priceID string) *domain.Plan {
	priceID = strings.TrimSpace(priceID)
	if priceID == "" {
		return nil
	}
	for _, p := range h.plans() {
		if p.ExternalPriceID == priceID {
			plan := p
			return &plan
		}
	}
	return nil
}

func (h *Holder) ZeroCostPlan() (domain.Plan, error) {
	for _, p := range h.plans() {
		if p.ZeroCost() {
			return p, nil
		}
	}
	return domain.Plan{}, domain.ErrZeroCostPlanMissing
}

func (h *Holder) Plans() []domain.Plan {
	src := h.plans()
	out := make([]domain.Plan, len(src))
	copy(out, src)
	return out
}

var _ domain.Catalog = (*Holder)(nil)
