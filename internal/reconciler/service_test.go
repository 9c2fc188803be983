package reconciler

import (
	"context"
	"testing"
	"time"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	bookingrepo "github.com/DuongHuynhTrung/CamCrew/internal/booking/repository"
	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	catalogrepo "github.com/DuongHuynhTrung/CamCrew/internal/catalog/repository"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	membershipservice "github.com/DuongHuynhTrung/CamCrew/internal/membership/service"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	notificationrepo "github.com/DuongHuynhTrung/CamCrew/internal/notification/repository"
	notificationservice "github.com/DuongHuynhTrung/CamCrew/internal/notification/service"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	paymentrepo "github.com/DuongHuynhTrung/CamCrew/internal/payment/repository"
	paymentservice "github.com/DuongHuynhTrung/CamCrew/internal/payment/service"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	pendingrepo "github.com/DuongHuynhTrung/CamCrew/internal/pending/repository"
	pendingservice "github.com/DuongHuynhTrung/CamCrew/internal/pending/service"
	purchasedomain "github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	purchaserepo "github.com/DuongHuynhTrung/CamCrew/internal/purchase/repository"
	scheduledomain "github.com/DuongHuynhTrung/CamCrew/internal/schedule/domain"
	schedulerepo "github.com/DuongHuynhTrung/CamCrew/internal/schedule/repository"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	userrepo "github.com/DuongHuynhTrung/CamCrew/internal/user/repository"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type deadGateway struct{}

func (deadGateway) CreatePaymentLink(context.Context, gateway.CreateLinkRequest) (*gateway.PaymentLink, error) {
	return nil, gateway.ErrUnavailable
}

type reconcilerEnv struct {
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	svc   *Service
}

func newReconcilerEnv(t *testing.T) *reconcilerEnv {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&catalogdomain.Service{},
		&bookingdomain.Booking{},
		&paymentdomain.Payment{},
		&pendingdomain.PendingTransaction{},
		&notificationdomain.Notification{},
		&purchasedomain.Transaction{},
		&scheduledomain.Schedule{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fc := clock.NewFakeClock(time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC))
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
	membership := membershipservice.New(membershipservice.Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Clock:        fc,
		Config:       config.Config{ClientURL: "https://camcrew.example"},
		Pricing:      config.NewStaticPricingHolder(config.DefaultPricingConfig()),
		UserRepo:     userrepo.Provide(),
		PaymentRepo:  paymentrepo.Provide(),
		Pending:      pending,
		Gateway:      deadGateway{},
		Notification: notification,
	})

	payment := paymentservice.New(paymentservice.Params{
		DB:          conn,
		Log:         log,
		Clock:       fc,
		Repo:        paymentrepo.Provide(),
		BookingRepo: bookingrepo.Provide(),
	})

	svc := New(Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Clock:        fc,
		Pending:      pending,
		BookingRepo:  bookingrepo.Provide(),
		PaymentRepo:  paymentrepo.Provide(),
		CatalogRepo:  catalogrepo.Provide(),
		PurchaseRepo: purchaserepo.Provide(),
		ScheduleRepo: schedulerepo.Provide(),
		Payment:      payment,
		Membership:   membership,
		Notification: notification,
	})

	return &reconcilerEnv{db: conn, node: node, clock: fc, svc: svc}
}

type bookingFixture struct {
	booking   bookingdomain.Booking
	payment   paymentdomain.Payment
	orderCode int64
}

func (e *reconcilerEnv) seedBookingPayment(t *testing.T) bookingFixture {
	t.Helper()

	cameraman := userdomain.User{
		ID:       e.node.Generate(),
		Email:    "cameraman@example.com",
		FullName: "Trần Văn B",
		Role:     userdomain.RoleCameraman,
		Status:   userdomain.StatusActive,
	}
	require.NoError(t, e.db.Create(&cameraman).Error)

	offering := catalogdomain.Service{
		ID:          e.node.Generate(),
		CameramanID: cameraman.ID,
		Title:       "Quay phim cưới",
		Amount:      800_000,
		DateGetJob:  time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC),
		TimeOfDay:   datatypes.NewJSONSlice([]string{catalogdomain.SlotMorning}),
		Status:      catalogdomain.StatusApproved,
	}
	require.NoError(t, e.db.Create(&offering).Error)

	booking := bookingdomain.Booking{
		ID:            e.node.Generate(),
		CustomerID:    e.node.Generate(),
		CameramanID:   cameraman.ID,
		ServiceID:     offering.ID,
		ScheduledDate: offering.DateGetJob,
		TimeOfDay:     catalogdomain.SlotMorning,
		Amount:        offering.Amount,
		Status:        bookingdomain.StatusPaying,
	}
	require.NoError(t, e.db.Create(&booking).Error)

	payment := paymentdomain.Payment{
		ID:        e.node.Generate(),
		BookingID: booking.ID,
		Type:      paymentdomain.TypeBooking,
		Amount:    booking.Amount,
		Status:    paymentdomain.StatusProcessing,
	}
	require.NoError(t, e.db.Create(&payment).Error)

	orderCode := e.node.Generate().Int64()
	require.NoError(t, e.db.Create(&pendingdomain.PendingTransaction{
		OrderCode: orderCode,
		Kind:      pendingdomain.KindBookingPayment,
		UserID:    booking.CustomerID,
		BookingID: booking.ID,
		PaymentID: payment.ID,
	}).Error)

	return bookingFixture{booking: booking, payment: payment, orderCode: orderCode}
}

func TestHandleCallback_BookingPaymentSuccess(t *testing.T) {
	env := newReconcilerEnv(t)
	fx := env.seedBookingPayment(t)
	ctx := context.Background()

	err := env.svc.HandleCallback(ctx, HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: fx.orderCode,
		Amount:    fx.payment.Amount,
	})
	require.NoError(t, err)

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "id = ?", fx.booking.ID).Error)
	require.Equal(t, bookingdomain.StatusRequested, booking.Status)

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", fx.payment.ID).Error)
	require.Equal(t, paymentdomain.StatusPaid, payment.Status)

	var pendingCount int64
	require.NoError(t, env.db.Model(&pendingdomain.PendingTransaction{}).Count(&pendingCount).Error)
	require.Zero(t, pendingCount)

	var note notificationdomain.Notification
	require.NoError(t, env.db.First(&note, "receiver_id = ?", fx.booking.CameramanID).Error)
	require.Equal(t, notificationdomain.TypeBookingRequested, note.Type)
	require.Contains(t, note.Content, "Quay phim cưới")
	require.Contains(t, note.Content, "20/06/2026")
}

func TestHandleCallback_BookingPaymentFailure(t *testing.T) {
	env := newReconcilerEnv(t)
	fx := env.seedBookingPayment(t)

	err := env.svc.HandleCallback(context.Background(), HandleCallbackRequest{
		Code:      "01",
		OrderCode: fx.orderCode,
		Amount:    fx.payment.Amount,
	})
	require.NoError(t, err)

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "id = ?", fx.booking.ID).Error)
	require.Equal(t, bookingdomain.StatusPayCancelled, booking.Status)

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", fx.payment.ID).Error)
	require.Equal(t, paymentdomain.StatusFailed, payment.Status)

	var noteCount int64
	require.NoError(t, env.db.Model(&notificationdomain.Notification{}).Count(&noteCount).Error)
	require.Zero(t, noteCount)
}

func TestHandleCallback_SecondDeliveryIsNoOp(t *testing.T) {
	env := newReconcilerEnv(t)
	fx := env.seedBookingPayment(t)
	ctx := context.Background()

	req := HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: fx.orderCode,
		Amount:    fx.payment.Amount,
	}
	require.NoError(t, env.svc.HandleCallback(ctx, req))

	// A replay, even with a different outcome, changes nothing.
	req.Code = "01"
	require.NoError(t, env.svc.HandleCallback(ctx, req))

	var booking bookingdomain.Booking
	require.NoError(t, env.db.First(&booking, "id = ?", fx.booking.ID).Error)
	require.Equal(t, bookingdomain.StatusRequested, booking.Status)

	var payment paymentdomain.Payment
	require.NoError(t, env.db.First(&payment, "id = ?", fx.payment.ID).Error)
	require.Equal(t, paymentdomain.StatusPaid, payment.Status)

	var noteCount int64
	require.NoError(t, env.db.Model(&notificationdomain.Notification{}).Count(&noteCount).Error)
	require.EqualValues(t, 1, noteCount)
}

func TestHandleCallback_UnknownOrderCodeIsAcknowledged(t *testing.T) {
	env := newReconcilerEnv(t)

	err := env.svc.HandleCallback(context.Background(), HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: 424242,
	})
	require.NoError(t, err)
}

func TestHandleCallback_Malformed(t *testing.T) {
	env := newReconcilerEnv(t)

	err := env.svc.HandleCallback(context.Background(), HandleCallbackRequest{
		Code:      "",
		OrderCode: 1,
	})
	require.ErrorIs(t, err, ErrMalformed)

	err = env.svc.HandleCallback(context.Background(), HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: 0,
	})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestHandleCallback_MembershipActivation(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	cameraman := userdomain.User{
		ID:         env.node.Generate(),
		Email:      "artist@example.com",
		FullName:   "Lê Thị C",
		Role:       userdomain.RoleCameraman,
		Status:     userdomain.StatusActive,
		Membership: userdomain.MembershipNormal,
	}
	require.NoError(t, env.db.Create(&cameraman).Error)

	payment := paymentdomain.Payment{
		ID:     env.node.Generate(),
		Type:   paymentdomain.TypeSubscription,
		Amount: 100_000,
		Status: paymentdomain.StatusProcessing,
	}
	require.NoError(t, env.db.Create(&payment).Error)

	orderCode := env.node.Generate().Int64()
	require.NoError(t, env.db.Create(&pendingdomain.PendingTransaction{
		OrderCode:      orderCode,
		Kind:           pendingdomain.KindMembershipSubscription,
		UserID:         cameraman.ID,
		PaymentID:      payment.ID,
		MembershipType: userdomain.MembershipOneMonth,
		Amount:         payment.Amount,
	}).Error)

	require.NoError(t, env.svc.HandleCallback(ctx, HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: orderCode,
		Amount:    payment.Amount,
	}))

	var user userdomain.User
	require.NoError(t, env.db.First(&user, "id = ?", cameraman.ID).Error)
	require.Equal(t, userdomain.MembershipOneMonth, user.Membership)
	require.NotNil(t, user.SubscriptionStartDate)
	require.NotNil(t, user.SubscriptionEndDate)

	start := env.clock.Now()
	require.True(t, user.SubscriptionStartDate.Equal(start))
	require.True(t, user.SubscriptionEndDate.Equal(start.AddDate(0, 1, 0)))

	var updated paymentdomain.Payment
	require.NoError(t, env.db.First(&updated, "id = ?", payment.ID).Error)
	require.Equal(t, paymentdomain.StatusPaid, updated.Status)

	var note notificationdomain.Notification
	require.NoError(t, env.db.First(&note, "receiver_id = ?", cameraman.ID).Error)
	require.Equal(t, notificationdomain.TypeSubscriptionActivated, note.Type)
	require.Contains(t, note.Content, "1 tháng")
	require.Contains(t, note.Content, "15/06/2026")
	require.Contains(t, note.Content, "15/07/2026")
}

func TestHandleCallback_MembershipFailure(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	cameraman := userdomain.User{
		ID:         env.node.Generate(),
		Email:      "artist@example.com",
		FullName:   "Lê Thị C",
		Role:       userdomain.RoleCameraman,
		Status:     userdomain.StatusActive,
		Membership: userdomain.MembershipNormal,
	}
	require.NoError(t, env.db.Create(&cameraman).Error)

	payment := paymentdomain.Payment{
		ID:     env.node.Generate(),
		Type:   paymentdomain.TypeSubscription,
		Amount: 100_000,
		Status: paymentdomain.StatusProcessing,
	}
	require.NoError(t, env.db.Create(&payment).Error)

	orderCode := env.node.Generate().Int64()
	require.NoError(t, env.db.Create(&pendingdomain.PendingTransaction{
		OrderCode:      orderCode,
		Kind:           pendingdomain.KindMembershipSubscription,
		UserID:         cameraman.ID,
		PaymentID:      payment.ID,
		MembershipType: userdomain.MembershipOneMonth,
		Amount:         payment.Amount,
	}).Error)

	require.NoError(t, env.svc.HandleCallback(ctx, HandleCallbackRequest{
		Code:      "01",
		OrderCode: orderCode,
		Amount:    payment.Amount,
	}))

	// The subscription payment fails through the ledger; the tier is
	// untouched.
	var updated paymentdomain.Payment
	require.NoError(t, env.db.First(&updated, "id = ?", payment.ID).Error)
	require.Equal(t, paymentdomain.StatusFailed, updated.Status)

	var user userdomain.User
	require.NoError(t, env.db.First(&user, "id = ?", cameraman.ID).Error)
	require.Equal(t, userdomain.MembershipNormal, user.Membership)
	require.Nil(t, user.SubscriptionStartDate)

	var noteCount int64
	require.NoError(t, env.db.Model(&notificationdomain.Notification{}).Count(&noteCount).Error)
	require.Zero(t, noteCount)
}

func TestHandleCallback_BuyService(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	customerID := env.node.Generate()
	serviceIDs := []string{env.node.Generate().String(), env.node.Generate().String()}
	orderCode := env.node.Generate().Int64()

	require.NoError(t, env.db.Create(&pendingdomain.PendingTransaction{
		OrderCode:  orderCode,
		Kind:       pendingdomain.KindBuyService,
		UserID:     customerID,
		ServiceIDs: datatypes.NewJSONSlice(serviceIDs),
	}).Error)

	require.NoError(t, env.svc.HandleCallback(ctx, HandleCallbackRequest{
		Code:      gateway.CodeSuccess,
		OrderCode: orderCode,
		Amount:    1_300_000,
	}))

	var tx purchasedomain.Transaction
	require.NoError(t, env.db.First(&tx, "user_id = ?", customerID).Error)
	require.Equal(t, orderCode, tx.TransactionCode)
	require.EqualValues(t, 1_300_000, tx.Amount)
	require.Equal(t, purchasedomain.PaymentMethodInternetBanking, tx.PaymentMethod)
	require.Len(t, []string(tx.ServiceIDs), 2)
}

func TestHandleCallback_BuyServiceFailureWritesNothing(t *testing.T) {
	env := newReconcilerEnv(t)

	orderCode := env.node.Generate().Int64()
	require.NoError(t, env.db.Create(&pendingdomain.PendingTransaction{
		OrderCode:  orderCode,
		Kind:       pendingdomain.KindBuyService,
		UserID:     env.node.Generate(),
		ServiceIDs: datatypes.NewJSONSlice([]string{"1"}),
	}).Error)

	require.NoError(t, env.svc.HandleCallback(context.Background(), HandleCallbackRequest{
		Code:      "01",
		OrderCode: orderCode,
		Amount:    500_000,
	}))

	var count int64
	require.NoError(t, env.db.Model(&purchasedomain.Transaction{}).Count(&count).Error)
	require.Zero(t, count)

	// The pending record is still consumed.
	require.NoError(t, env.db.Model(&pendingdomain.PendingTransaction{}).Count(&count).Error)
	require.Zero(t, count)
}
