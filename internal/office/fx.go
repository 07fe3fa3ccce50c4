package office

import (
	"github.com/lunelaser/lunebill/internal/office/repository"
	"github.com/lunelaser/lunebill/internal/office/service"
	"go.uber.org/fx"
)

var Module = fx.Module("office.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
