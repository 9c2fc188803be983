package membership

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(service.New),
)
