package invoice

import (
	"github.com/lunelaser/lunebill/internal/invoice/repository"
	"github.com/lunelaser/lunebill/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
