package geo

import (
	"github.com/smallbiznis/geodata/internal/geo/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("geo.repository",
	fx.Provide(repository.Provide),
)
