package scheduler

import (
	"context"
	"testing"
	"time"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	bookingrepo "github.com/DuongHuynhTrung/CamCrew/internal/booking/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	notificationrepo "github.com/DuongHuynhTrung/CamCrew/internal/notification/repository"
	notificationservice "github.com/DuongHuynhTrung/CamCrew/internal/notification/service"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	paymentrepo "github.com/DuongHuynhTrung/CamCrew/internal/payment/repository"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	pendingrepo "github.com/DuongHuynhTrung/CamCrew/internal/pending/repository"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	userrepo "github.com/DuongHuynhTrung/CamCrew/internal/user/repository"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type schedulerEnv struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	sched *Scheduler
}

func newSchedulerEnv(t *testing.T) *schedulerEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&bookingdomain.Booking{},
		&paymentdomain.Payment{},
		&pendingdomain.PendingTransaction{},
		&notificationdomain.Notification{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	notification := notificationservice.New(notificationservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: fc,
		Repo:  notificationrepo.Provide(),
	})

	sched := New(Params{
		DB:           conn,
		Log:          log,
		Clock:        fc,
		Pricing:      config.NewStaticPricingHolder(config.DefaultPricingConfig()),
		BookingRepo:  bookingrepo.Provide(),
		PaymentRepo:  paymentrepo.Provide(),
		PendingRepo:  pendingrepo.Provide(),
		UserRepo:     userrepo.Provide(),
		Notification: notification,
	})

	return &schedulerEnv{db: conn, node: node, clock: fc, sched: sched}
}

func (e *schedulerEnv) seedHeldBooking(t *testing.T, createdAt time.Time) (bookingdomain.Booking, paymentdomain.Payment) {
	t.Helper()

	booking := bookingdomain.Booking{
		ID:            e.node.Generate(),
		CustomerID:    e.node.Generate(),
		CameramanID:   e.node.Generate(),
		ServiceID:     e.node.Generate(),
		ScheduledDate: time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
		TimeOfDay:     "morning",
		Amount:        800_000,
		Status:        bookingdomain.StatusPaying,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	require.NoError(t, e.db.Create(&booking).Error)

	payment := paymentdomain.Payment{
		ID:        e.node.Generate(),
		BookingID: booking.ID,
		Type:      paymentdomain.TypeBooking,
		Amount:    booking.Amount,
		Status:    paymentdomain.StatusProcessing,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, e.db.Create(&payment).Error)

	require.NoError(t, e.db.Create(&pendingdomain.PendingTransaction{
		OrderCode: e.node.Generate().Int64(),
		Kind:      pendingdomain.KindBookingPayment,
		UserID:    booking.CustomerID,
		BookingID: booking.ID,
		PaymentID: payment.ID,
		CreatedAt: createdAt,
	}).Error)

	return booking, payment
}

func TestSweepStalePaying(t *testing.T) {
	env := newSchedulerEnv(t)
	now := env.clock.Now()

	// Default hold TTL is 30 minutes.
	staleBooking, stalePayment := env.seedHeldBooking(t, now.Add(-2*time.Hour))
	freshBooking, freshPayment := env.seedHeldBooking(t, now.Add(-5*time.Minute))

	require.NoError(t, env.sched.SweepStalePaying(context.Background()))

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "id = ?", staleBooking.ID).Error)
	require.Equal(t, bookingdomain.StatusPayCancelled, booking.Status)

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", stalePayment.ID).Error)
	require.Equal(t, paymentdomain.StatusFailed, payment.Status)

	var pendingCount int64
	require.NoError(t, env.db.Model(&pendingdomain.PendingTransaction{}).
		Where("booking_id = ?", staleBooking.ID).Count(&pendingCount).Error)
	require.Zero(t, pendingCount)

	// A booking still inside the hold window is untouched. Query into
	// fresh structs: gorm folds a populated primary key on the
	// destination into the WHERE clause.
	var fresh bookingdomain.Booking
	require.NoError(t, env.db.First(&fresh, "id = ?", freshBooking.ID).Error)
	require.Equal(t, bookingdomain.StatusPaying, fresh.Status)
	var freshPay paymentdomain.Payment
	require.NoError(t, env.db.First(&freshPay, "id = ?", freshPayment.ID).Error)
	require.Equal(t, paymentdomain.StatusProcessing, freshPay.Status)
}

func TestSweepStalePaying_SkipsAlreadyReconciled(t *testing.T) {
	env := newSchedulerEnv(t)
	now := env.clock.Now()

	booking, payment := env.seedHeldBooking(t, now.Add(-2*time.Hour))

	// The webhook won the race and confirmed the payment.
	require.NoError(t, env.db.Model(&bookingdomain.Booking{}).
		Where("id = ?", booking.ID).Update("status", bookingdomain.StatusRequested).Error)
	require.NoError(t, env.db.Model(&paymentdomain.Payment{}).
		Where("id = ?", payment.ID).Update("status", paymentdomain.StatusPaid).Error)

	require.NoError(t, env.sched.SweepStalePaying(context.Background()))

	var got bookingdomain.Booking
	require.NoError(t, env.db.First(&got, "id = ?", booking.ID).Error)
	require.Equal(t, bookingdomain.StatusRequested, got.Status)

	var gotPayment paymentdomain.Payment
	require.NoError(t, env.db.First(&gotPayment, "id = ?", payment.ID).Error)
	require.Equal(t, paymentdomain.StatusPaid, gotPayment.Status)
}

func TestSweepExpiredMemberships(t *testing.T) {
	env := newSchedulerEnv(t)
	now := env.clock.Now()

	expiredStart := now.AddDate(0, -1, -2)
	expiredEnd := now.AddDate(0, 0, -2)
	expired := userdomain.User{
		ID:                    env.node.Generate(),
		Email:                 "expired@example.com",
		FullName:              "Hết Hạn",
		Role:                  userdomain.RoleCameraman,
		Status:                userdomain.StatusActive,
		Membership:            userdomain.MembershipOneMonth,
		SubscriptionStartDate: &expiredStart,
		SubscriptionEndDate:   &expiredEnd,
	}
	require.NoError(t, env.db.Create(&expired).Error)

	activeStart := now.AddDate(0, 0, -10)
	activeEnd := now.AddDate(0, 5, 0)
	active := userdomain.User{
		ID:                    env.node.Generate(),
		Email:                 "active@example.com",
		FullName:              "Còn Hạn",
		Role:                  userdomain.RoleCameraman,
		Status:                userdomain.StatusActive,
		Membership:            userdomain.MembershipSixMonth,
		SubscriptionStartDate: &activeStart,
		SubscriptionEndDate:   &activeEnd,
	}
	require.NoError(t, env.db.Create(&active).Error)

	require.NoError(t, env.sched.SweepExpiredMemberships(context.Background()))

	var got userdomain.User
	require.NoError(t, env.db.First(&got, "id = ?", expired.ID).Error)
	require.Equal(t, userdomain.MembershipNormal, got.Membership)

	var note notificationdomain.Notification
	require.NoError(t, env.db.First(&note, "receiver_id = ?", expired.ID).Error)
	require.Equal(t, notificationdomain.TypeSubscriptionExpired, note.Type)
	require.Equal(t, "Gói thành viên của bạn đã hết hạn.", note.Content)

	// Fresh struct: gorm folds a populated primary key on the
	// destination into the WHERE clause.
	var gotActive userdomain.User
	require.NoError(t, env.db.First(&gotActive, "id = ?", active.ID).Error)
	require.Equal(t, userdomain.MembershipSixMonth, gotActive.Membership)

	var noteCount int64
	require.NoError(t, env.db.Model(&notificationdomain.Notification{}).
		Where("receiver_id = ?", active.ID).Count(&noteCount).Error)
	require.Zero(t, noteCount)
}

func TestLocker_NilIsNoOp(t *testing.T) {
	var l *Locker
	token, ok, err := l.TryLock(context.Background(), "key", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, token)
	require.NoError(t, l.Release(context.Background(), "key", token))
}

func TestInterval_FollowsPricingConfig(t *testing.T) {
	env := newSchedulerEnv(t)

	// Default pricing ships a 5-minute sweep.
	require.Equal(t, 5*time.Minute, env.sched.interval())

	cfg := config.DefaultPricingConfig()
	cfg.PaymentHold.SweepIntervalMinutes = 7
	env.sched.pricing = config.NewStaticPricingHolder(cfg)
	require.Equal(t, 7*time.Minute, env.sched.interval())

	// An unset interval falls back to the static scheduler config.
	cfg.PaymentHold.SweepIntervalMinutes = 0
	env.sched.pricing = config.NewStaticPricingHolder(cfg)
	require.Equal(t, env.sched.cfg.RunInterval, env.sched.interval())
}
