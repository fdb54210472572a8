package seed

import (
	"context"

	"github.com/smallbiznis/geodata/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("seed",
	fx.Provide(New),
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, s *Seeder) {
		if !cfg.Seed.Enabled {
			return
		}
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				_, err := s.EnsureReferenceData(ctx)
				return err
			},
		})
	}),
)
