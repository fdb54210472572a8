package exporter

import (
	"github.com/smallbiznis/geodata/internal/exporter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("exporter.service",
	fx.Provide(service.New),
)
