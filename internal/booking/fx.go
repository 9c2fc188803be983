package booking

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/booking/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/booking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("booking.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
