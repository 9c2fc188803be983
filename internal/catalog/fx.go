package catalog

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
