package credit

import (
	"github.com/reclamohq/reclamo/internal/credit/repository"
	"github.com/reclamohq/reclamo/internal/credit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("credit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
