package quota

import (
	"github.com/reclamohq/reclamo/internal/quota/repository"
	"github.com/reclamohq/reclamo/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
