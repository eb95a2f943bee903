package catalog

import (
	"testing"

	"github.com/reclamohq/reclamo/internal/plan/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanLookup(t *testing.T) {
	h, err := NewHolderFromPlans(DefaultPlans())
	require.NoError(t, err)

	p, err := h.Plan("starter")
	require.NoError(t, err)
	assert.Equal(t, "Starter", p.Name)
	assert.True(t, p.Purchasable())

	_, err = h.Plan("enterprise")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestPlanByExternalPriceID(t *testing.T) {
	h, err := NewHolderFromPlans(DefaultPlans())
	require.NoError(t, err)

	p := h.PlanByExternalPriceID("price_growth_monthly")
	require.NotNil(t, p)
	assert.Equal(t, "growth", p.ID)

	assert.Nil(t, h.PlanByExternalPriceID("price_unknown"))
	assert.Nil(t, h.PlanByExternalPriceID(""))
}

func TestZeroCostPlan(t *testing.T) {
	h, err := NewHolderFromPlans(DefaultPlans())
	require.NoError(t, err)

	p, err := h.ZeroCostPlan()
	require.NoError(t, err)
	assert.Equal(t, "free", p.ID)
	assert.False(t, p.Purchasable())
}

func TestValidateRejectsCatalogWithoutZeroCostPlan(t *testing.T) {
	_, err := NewHolderFromPlans([]domain.Plan{
		{ID: "starter", Name: "Starter", PriceMonthlyCents: 4900},
	})
	require.Error(t, err)
}

func TestValidateRejectsDuplicateIDs(t *testing.T) {
	_, err := NewHolderFromPlans([]domain.Plan{
		{ID: "free", Name: "Free"},
		{ID: "free", Name: "Free Again"},
	})
	require.Error(t, err)
}
