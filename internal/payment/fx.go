package payment

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/payment/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
