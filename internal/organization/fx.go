package organization

import (
	"github.com/reclamohq/reclamo/internal/organization/repository"
	"github.com/reclamohq/reclamo/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
