package scheduler

import (
	"context"
	"time"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/observability/metrics"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	lockKeyStalePaying      = "camcrew:sweep:stale_paying"
	lockKeyMembershipExpiry = "camcrew:sweep:membership_expiry"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Pricing      *config.PricingConfigHolder
	Locker       *Locker `optional:"true"`
	BookingRepo  bookingdomain.Repository
	PaymentRepo  paymentdomain.Repository
	PendingRepo  pendingdomain.Repository
	UserRepo     userdomain.Repository
	Notification notificationdomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
	Config       Config           `optional:"true"`
}

type Scheduler struct {
	db           *gorm.DB
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	pricing      *config.PricingConfigHolder
	locker       *Locker
	bookingRepo  bookingdomain.Repository
	paymentRepo  paymentdomain.Repository
	pendingRepo  pendingdomain.Repository
	userRepo     userdomain.Repository
	notification notificationdomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) *Scheduler {
	return &Scheduler{
		db:           p.DB,
		log:          p.Log.Named("scheduler"),
		cfg:          p.Config.withDefaults(),
		clock:        p.Clock,
		pricing:      p.Pricing,
		locker:       p.Locker,
		bookingRepo:  p.BookingRepo,
		paymentRepo:  p.PaymentRepo,
		pendingRepo:  p.PendingRepo,
		userRepo:     p.UserRepo,
		notification: p.Notification,
		metrics:      p.Metrics,
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	s.RunOnce(ctx)

	timer := time.NewTimer(s.interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			s.RunOnce(ctx)
			timer.Reset(s.interval())
		}
	}
}

// interval re-reads the sweep cadence from the pricing config on every
// cycle, so edits to the pricing file take effect without a restart.
func (s *Scheduler) interval() time.Duration {
	if d := s.pricing.Get().SweepInterval(); d > 0 {
		return d
	}
	return s.cfg.RunInterval
}

func (s *Scheduler) RunOnce(parent context.Context) {
	s.runJob(parent, "stale_paying_sweep", lockKeyStalePaying, s.SweepStalePaying)
	s.runJob(parent, "membership_expiry_sweep", lockKeyMembershipExpiry, s.SweepExpiredMemberships)
}

func (s *Scheduler) runJob(parent context.Context, name, lockKey string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	token, ok, err := s.locker.TryLock(ctx, lockKey, s.cfg.LockTTL)
	if err != nil {
		s.log.Warn("sweep lock unavailable", zap.String("job", name), zap.Error(err))
		return
	}
	if !ok {
		s.log.Debug("sweep held elsewhere", zap.String("job", name))
		return
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey, token); err != nil {
			s.log.Warn("sweep lock release failed", zap.String("job", name), zap.Error(err))
		}
	}()

	s.metrics.RecordSweepRun(name)
	if err := fn(ctx); err != nil {
		s.log.Error("sweep failed", zap.String("job", name), zap.Error(err))
	}
}

// SweepStalePaying releases bookings stuck in paying past the hold TTL:
// the checkout link was never paid (or the gateway call failed at
// creation), so the slot goes back on the market. The booking moves to
// pay_cancelled, its payment to failed, and the pending transaction is
// deleted so a late webhook becomes a no-op.
func (s *Scheduler) SweepStalePaying(ctx context.Context) error {
	now := s.clock.Now()
	cutoff := now.Add(-s.pricing.Get().HoldTTL())

	stale, err := s.bookingRepo.FindStalePaying(ctx, s.db, cutoff)
	if err != nil {
		return err
	}

	released := 0
	for _, booking := range stale {
		booking := booking
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			rows, err := s.bookingRepo.UpdateStatus(ctx, tx, booking.ID, bookingdomain.StatusPaying, bookingdomain.StatusPayCancelled, now)
			if err != nil {
				return err
			}
			if rows == 0 {
				return nil
			}

			payment, err := s.paymentRepo.FindByBookingID(ctx, tx, booking.ID)
			if err != nil {
				return err
			}
			if payment != nil {
				if _, err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, paymentdomain.StatusProcessing, paymentdomain.StatusFailed, now); err != nil {
					return err
				}
			}

			if _, err := s.pendingRepo.DeleteByBookingID(ctx, tx, booking.ID); err != nil {
				return err
			}
			released++
			return nil
		})
		if err != nil {
			s.log.Warn("stale booking release failed",
				zap.String("booking_id", booking.ID.String()),
				zap.Error(err),
			)
		}
	}

	if released > 0 {
		s.metrics.RecordSweepReleased(released)
		s.log.Info("stale paying bookings released", zap.Int("count", released))
	}
	return nil
}

// SweepExpiredMemberships reverts users whose paid window has passed to
// the free tier and tells them.
func (s *Scheduler) SweepExpiredMemberships(ctx context.Context) error {
	now := s.clock.Now()

	expired, err := s.userRepo.FindExpiredMemberships(ctx, s.db, now)
	if err != nil {
		return err
	}

	for _, user := range expired {
		rows, err := s.userRepo.ResetMembership(ctx, s.db, user.ID, now)
		if err != nil {
			s.log.Warn("membership reset failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if rows == 0 {
			continue
		}
		s.notification.Emit(ctx, user.ID, notificationdomain.TypeSubscriptionExpired,
			"Gói thành viên của bạn đã hết hạn.")
	}

	return nil
}
