package schedule

import (
	"github.com/DuongHuynhTrung/CamCrew/internal/schedule/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("schedule.repository",
	fx.Provide(repository.Provide),
)
