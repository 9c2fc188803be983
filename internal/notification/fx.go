package notification

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/notification/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
