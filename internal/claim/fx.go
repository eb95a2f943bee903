package claim

import (
	"github.com/reclamohq/reclamo/internal/claim/repository"
	"github.com/reclamohq/reclamo/internal/claim/service"
	"go.uber.org/fx"
)

var Module = fx.Module("claim.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
