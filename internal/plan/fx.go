package plan

import (
	"github.com/reclamohq/reclamo/internal/plan/catalog"
	"github.com/reclamohq/reclamo/internal/plan/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.catalog",
	fx.Provide(
		catalog.NewHolder,
		func(h *catalog.Holder) domain.Catalog { return h },
	),
)
