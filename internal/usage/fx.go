package usage

import (
	"github.com/lunelaser/lunebill/internal/usage/repository"
	"github.com/lunelaser/lunebill/internal/usage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("usage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
