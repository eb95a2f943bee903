package billing

import (
	"github.com/reclamohq/reclamo/internal/billing/domain"
	"github.com/reclamohq/reclamo/internal/billing/provider"
	"github.com/reclamohq/reclamo/internal/billing/repository"
	"github.com/reclamohq/reclamo/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(
		provider.NewClient,
		func(c *provider.Client) domain.Provider { return c },
	),
	fx.Provide(service.New),
)
