package purchase

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/purchase/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/purchase/service"
	"go.uber.org/fx"
)

var Module = fx.Module("purchase.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
