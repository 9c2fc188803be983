package pending

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/pending/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/pending/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pending.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
