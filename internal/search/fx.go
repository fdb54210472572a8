package search

import (
	"github.com/smallbiznis/geodata/internal/search/service"
	"go.uber.org/fx"
)

var Module = fx.Module("search.service",
	fx.Provide(service.New),
)
