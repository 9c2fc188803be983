package migration

import (
	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	purchasedomain "github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	scheduledomain "github.com/DuongHuynhTrung/CamCrew/internal/schedule/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// mysql and sqlite fall back to AutoMigrate; the versioned SQL
		// (including the partial unique index) targets postgres.
		return conn.AutoMigrate(
			&userdomain.User{},
			&catalogdomain.Service{},
			&bookingdomain.Booking{},
			&paymentdomain.Payment{},
			&pendingdomain.PendingTransaction{},
			&notificationdomain.Notification{},
			&purchasedomain.Transaction{},
			&scheduledomain.Schedule{},
		)
	}),
)
