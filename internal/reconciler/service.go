package reconciler

import (
	"context"
	"errors"
	"fmt"

	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	membershipdomain "github.com/DuongHuynhTrung/CamCrew/internal/membership/domain"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/observability/metrics"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	purchasedomain "github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	scheduledomain "github.com/DuongHuynhTrung/CamCrew/internal/schedule/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrMalformed marks a callback missing its result code or order code.
// It is the only reconciler error a gateway ever sees.
var ErrMalformed = errors.New("malformed_callback")

var errStateMismatch = errors.New("state_mismatch")

type HandleCallbackRequest struct {
	Code      string
	OrderCode int64
	Amount    int64
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Pending      pendingdomain.Service
	BookingRepo  bookingdomain.Repository
	PaymentRepo  paymentdomain.Repository
	CatalogRepo  catalogdomain.Repository
	PurchaseRepo purchasedomain.Repository
	ScheduleRepo scheduledomain.Repository
	Payment      paymentdomain.Service
	Membership   membershipdomain.Service
	Notification notificationdomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	pending      pendingdomain.Service
	bookingRepo  bookingdomain.Repository
	paymentRepo  paymentdomain.Repository
	catalogRepo  catalogdomain.Repository
	purchaseRepo purchasedomain.Repository
	scheduleRepo scheduledomain.Repository
	payment      paymentdomain.Service
	membership   membershipdomain.Service
	notification notificationdomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("reconciler.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		pending:      p.Pending,
		bookingRepo:  p.BookingRepo,
		paymentRepo:  p.PaymentRepo,
		catalogRepo:  p.CatalogRepo,
		purchaseRepo: p.PurchaseRepo,
		scheduleRepo: p.ScheduleRepo,
		payment:      p.Payment,
		membership:   p.Membership,
		notification: p.Notification,
		metrics:      p.Metrics,
	}
}

// HandleCallback consumes the pending transaction for the order code and
// applies its outcome. Once the record is consumed, business failures
// are logged and swallowed: the order code cannot be replayed, so
// forcing a gateway retry would only re-hit a missing record.
func (s *Service) HandleCallback(ctx context.Context, req HandleCallbackRequest) error {
	if req.Code == "" || req.OrderCode <= 0 {
		return ErrMalformed
	}

	tx, err := s.pending.Consume(ctx, req.OrderCode)
	if err != nil {
		if errors.Is(err, pendingdomain.ErrNotFound) {
			s.log.Debug("callback for unknown or already consumed order code",
				zap.Int64("order_code", req.OrderCode),
			)
			return nil
		}
		return err
	}

	success := req.Code == gateway.CodeSuccess
	outcome := "failure"
	if success {
		outcome = "success"
	}
	s.metrics.RecordPaymentEvent(string(tx.Kind), outcome)

	switch tx.Kind {
	case pendingdomain.KindBookingPayment:
		s.reconcileBookingPayment(ctx, tx, success)
	case pendingdomain.KindMembershipSubscription:
		s.reconcileMembership(ctx, tx, success)
	case pendingdomain.KindBuyService:
		s.reconcileBuyService(ctx, tx, req.Amount, success)
	case pendingdomain.KindLegacySchedule:
		s.reconcileLegacySchedule(ctx, tx, req.Amount, success)
	default:
		s.log.Error("pending transaction with unknown kind",
			zap.Int64("order_code", tx.OrderCode),
			zap.String("kind", string(tx.Kind)),
		)
	}

	return nil
}

// reconcileBookingPayment co-transitions the booking and its payment.
// Both rows move or neither does; a concurrent reader never sees a paid
// payment next to a paying booking.
func (s *Service) reconcileBookingPayment(ctx context.Context, tx pendingdomain.PendingTransaction, success bool) {
	bookingTo := bookingdomain.StatusPayCancelled
	paymentTo := paymentdomain.StatusFailed
	if success {
		bookingTo = bookingdomain.StatusRequested
		paymentTo = paymentdomain.StatusPaid
	}

	now := s.clock.Now()
	err := s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		rows, err := s.bookingRepo.UpdateStatus(ctx, dbtx, tx.BookingID, bookingdomain.StatusPaying, bookingTo, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errStateMismatch
		}
		rows, err = s.paymentRepo.UpdateStatus(ctx, dbtx, tx.PaymentID, paymentdomain.StatusProcessing, paymentTo, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return errStateMismatch
		}
		return nil
	})
	if err != nil {
		s.log.Warn("booking payment reconciliation skipped",
			zap.Int64("order_code", tx.OrderCode),
			zap.String("booking_id", tx.BookingID.String()),
			zap.String("payment_id", tx.PaymentID.String()),
			zap.Error(err),
		)
		return
	}

	if success {
		s.notifyBookingRequested(ctx, tx.BookingID)
	}
}

func (s *Service) notifyBookingRequested(ctx context.Context, bookingID snowflake.ID) {
	booking, err := s.bookingRepo.FindByID(ctx, s.db, bookingID)
	if err != nil || booking == nil {
		s.log.Warn("booking missing for notification",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return
	}

	title := ""
	if offering, err := s.catalogRepo.FindByID(ctx, s.db, booking.ServiceID); err == nil && offering != nil {
		title = offering.Title
	}

	content := fmt.Sprintf("Có Khách hàng đã đặt dịch vụ %s vào ngày %s (%s) của bạn.",
		title,
		booking.ScheduledDate.Format("02/01/2006"),
		booking.TimeOfDay,
	)
	s.notification.Emit(ctx, booking.CameramanID, notificationdomain.TypeBookingRequested, content)
}

func (s *Service) reconcileMembership(ctx context.Context, tx pendingdomain.PendingTransaction, success bool) {
	if tx.PaymentID != 0 {
		mark := s.payment.MarkPaid
		if !success {
			mark = s.payment.MarkFailed
		}
		if _, err := mark(ctx, paymentdomain.MarkRequest{ID: tx.PaymentID.String()}); err != nil {
			s.log.Warn("subscription payment not in expected state",
				zap.Int64("order_code", tx.OrderCode),
				zap.String("payment_id", tx.PaymentID.String()),
				zap.Error(err),
			)
		}
	}

	if !success {
		return
	}

	if err := s.membership.Activate(ctx, tx.UserID, tx.MembershipType); err != nil {
		s.log.Warn("membership activation failed",
			zap.Int64("order_code", tx.OrderCode),
			zap.String("user_id", tx.UserID.String()),
			zap.String("tier", tx.MembershipType),
			zap.Error(err),
		)
	}
}

func (s *Service) reconcileBuyService(ctx context.Context, tx pendingdomain.PendingTransaction, amount int64, success bool) {
	if !success {
		return
	}

	transaction := purchasedomain.Transaction{
		ID:              s.genID.Generate(),
		UserID:          tx.UserID,
		ServiceIDs:      tx.ServiceIDs,
		PaymentMethod:   purchasedomain.PaymentMethodInternetBanking,
		Amount:          amount,
		TransactionCode: tx.OrderCode,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.purchaseRepo.Insert(ctx, s.db, &transaction); err != nil {
		s.log.Warn("purchase ledger entry failed",
			zap.Int64("order_code", tx.OrderCode),
			zap.Error(err),
		)
	}
}

func (s *Service) reconcileLegacySchedule(ctx context.Context, tx pendingdomain.PendingTransaction, amount int64, success bool) {
	if !success {
		return
	}

	serviceID := ""
	if len(tx.ServiceIDs) > 0 {
		serviceID = tx.ServiceIDs[0]
	}
	appointment := s.clock.Now()
	if tx.AppointmentDate != nil {
		appointment = *tx.AppointmentDate
	}

	entry := scheduledomain.Schedule{
		ID:              s.genID.Generate(),
		CustomerID:      tx.CustomerID,
		ArtistID:        tx.ArtistID,
		ServiceID:       serviceID,
		AppointmentDate: appointment,
		Slot:            tx.Slot,
		Place:           tx.Place,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.scheduleRepo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("legacy schedule materialization failed",
			zap.Int64("order_code", tx.OrderCode),
			zap.Error(err),
		)
		return
	}

	transaction := purchasedomain.Transaction{
		ID:              s.genID.Generate(),
		UserID:          tx.UserID,
		ServiceIDs:      tx.ServiceIDs,
		PaymentMethod:   purchasedomain.PaymentMethodInternetBanking,
		Amount:          amount,
		TransactionCode: tx.OrderCode,
		CreatedAt:       s.clock.Now(),
	}
	if err := s.purchaseRepo.Insert(ctx, s.db, &transaction); err != nil {
		s.log.Warn("purchase ledger entry failed",
			zap.Int64("order_code", tx.OrderCode),
			zap.Error(err),
		)
	}
}
