package cache

import "go.uber.org/fx"

var Module = fx.Module("search.cache",
	fx.Provide(NewSearchCache),
)
