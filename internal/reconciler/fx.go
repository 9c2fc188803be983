package reconciler

import "go.uber.org/fx"

var Module = fx.Module("reconciler.service",
	fx.Provide(New),
)
