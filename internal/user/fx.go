package user

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/user/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
