package service

import (
	"context"
	"testing"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	"github.com/DuongHuynhTrung/CamCrew/internal/membership/domain"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	notificationrepo "github.com/DuongHuynhTrung/CamCrew/internal/notification/repository"
	notificationservice "github.com/DuongHuynhTrung/CamCrew/internal/notification/service"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	paymentrepo "github.com/DuongHuynhTrung/CamCrew/internal/payment/repository"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	pendingrepo "github.com/DuongHuynhTrung/CamCrew/internal/pending/repository"
	pendingservice "github.com/DuongHuynhTrung/CamCrew/internal/pending/service"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	userrepo "github.com/DuongHuynhTrung/CamCrew/internal/user/repository"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubGateway struct {
	lastReq gateway.CreateLinkRequest
}

func (g *stubGateway) CreatePaymentLink(_ context.Context, req gateway.CreateLinkRequest) (*gateway.PaymentLink, error) {
	g.lastReq = req
	return &gateway.PaymentLink{CheckoutURL: "https://pay.example/sub"}, nil
}

type membershipEnv struct {
	db      *gorm.DB
	node    *snowflake.Node
	clock   *clock.FakeClock
	gateway *stubGateway
	svc     domain.Service
}

func newMembershipEnv(t *testing.T, now time.Time) *membershipEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&paymentdomain.Payment{},
		&pendingdomain.PendingTransaction{},
		&notificationdomain.Notification{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(now)
	gw := &stubGateway{}
	log := zap.NewNop()

	pending := pendingservice.New(pendingservice.Params{
		DB:   conn,
		Log:  log,
		Repo: pendingrepo.Provide(),
	})
	notification := notificationservice.New(notificationservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Clock: fc,
		Repo:  notificationrepo.Provide(),
	})

	svc := New(Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Clock:        fc,
		Config:       config.Config{ClientURL: "https://camcrew.example"},
		Pricing:      config.NewStaticPricingHolder(config.DefaultPricingConfig()),
		UserRepo:     userrepo.Provide(),
		PaymentRepo:  paymentrepo.Provide(),
		Pending:      pending,
		Gateway:      gw,
		Notification: notification,
	})

	return &membershipEnv{db: conn, node: node, clock: fc, gateway: gw, svc: svc}
}

func (e *membershipEnv) seedCameraman(t *testing.T) userdomain.User {
	t.Helper()
	user := userdomain.User{
		ID:         e.node.Generate(),
		Email:      "artist@example.com",
		FullName:   "Phạm Văn D",
		Role:       userdomain.RoleCameraman,
		Status:     userdomain.StatusActive,
		Membership: userdomain.MembershipNormal,
	}
	require.NoError(t, e.db.Create(&user).Error)
	return user
}

func TestSubscribe(t *testing.T) {
	env := newMembershipEnv(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	cameraman := env.seedCameraman(t)
	ctx := actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: int64(cameraman.ID),
		Role:   userdomain.RoleCameraman,
	})

	resp, err := env.svc.Subscribe(ctx, domain.SubscribeRequest{
		MembershipType: userdomain.MembershipSixMonth,
	})
	require.NoError(t, err)
	require.Equal(t, paymentdomain.TypeSubscription, resp.Payment.Type)
	require.Equal(t, paymentdomain.StatusProcessing, resp.Payment.Status)
	require.EqualValues(t, 500_000, resp.Payment.Amount)
	require.Equal(t, "https://pay.example/sub", resp.PaymentURL)

	var pending pendingdomain.PendingTransaction
	require.NoError(t, env.db.First(&pending, "order_code = ?", resp.OrderCode).Error)
	require.Equal(t, pendingdomain.KindMembershipSubscription, pending.Kind)
	require.Equal(t, userdomain.MembershipSixMonth, pending.MembershipType)
	require.Equal(t, cameraman.ID, pending.UserID)

	// Subscription payments carry no booking.
	require.Zero(t, resp.Payment.BookingID)
}

func TestSubscribe_CustomerForbidden(t *testing.T) {
	env := newMembershipEnv(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	ctx := actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: int64(env.node.Generate()),
		Role:   userdomain.RoleCustomer,
	})

	_, err := env.svc.Subscribe(ctx, domain.SubscribeRequest{
		MembershipType: userdomain.MembershipOneMonth,
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSubscribe_UnknownPlan(t *testing.T) {
	env := newMembershipEnv(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	cameraman := env.seedCameraman(t)
	ctx := actorctx.WithActor(context.Background(), actorctx.Actor{
		UserID: int64(cameraman.ID),
		Role:   userdomain.RoleCameraman,
	})

	_, err := env.svc.Subscribe(ctx, domain.SubscribeRequest{MembershipType: "lifetime"})
	require.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestActivate_CalendarMonths(t *testing.T) {
	env := newMembershipEnv(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
	cameraman := env.seedCameraman(t)

	require.NoError(t, env.svc.Activate(context.Background(), cameraman.ID, userdomain.MembershipSixMonth))

	var user userdomain.User
	require.NoError(t, env.db.First(&user, "id = ?", cameraman.ID).Error)
	require.Equal(t, userdomain.MembershipSixMonth, user.Membership)
	require.True(t, user.SubscriptionStartDate.Equal(env.clock.Now()))
	require.True(t, user.SubscriptionEndDate.Equal(time.Date(2026, 12, 15, 9, 0, 0, 0, time.UTC)))

	var note notificationdomain.Notification
	require.NoError(t, env.db.First(&note, "receiver_id = ?", cameraman.ID).Error)
	require.Equal(t, notificationdomain.TypeSubscriptionActivated, note.Type)
	require.Contains(t, note.Content, "6 tháng")
	require.Contains(t, note.Content, "15/06/2026")
	require.Contains(t, note.Content, "15/12/2026")
}

func TestActivate_MonthEndNormalization(t *testing.T) {
	// Jan 31 + 1 calendar month lands in early March, per time.AddDate.
	env := newMembershipEnv(t, time.Date(2026, 1, 31, 12, 0, 0, 0, time.UTC))
	cameraman := env.seedCameraman(t)

	require.NoError(t, env.svc.Activate(context.Background(), cameraman.ID, userdomain.MembershipOneMonth))

	var user userdomain.User
	require.NoError(t, env.db.First(&user, "id = ?", cameraman.ID).Error)
	require.True(t, user.SubscriptionEndDate.Equal(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)))
}

func TestActivate_UnknownUser(t *testing.T) {
	env := newMembershipEnv(t, time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))

	err := env.svc.Activate(context.Background(), env.node.Generate(), userdomain.MembershipOneMonth)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
