package machine

import (
	"github.com/lunelaser/lunebill/internal/machine/repository"
	"github.com/lunelaser/lunebill/internal/machine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("machine.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
