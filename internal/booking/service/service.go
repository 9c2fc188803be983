package service

import (
	"context"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	"github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	catalogdomain "github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	catalogservice "github.com/DuongHuynhTrung/CamCrew/internal/catalog/service"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	"github.com/DuongHuynhTrung/CamCrew/internal/observability/metrics"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config
	Repo        domain.Repository
	PaymentRepo paymentdomain.Repository
	UserRepo    userdomain.Repository
	CatalogRepo catalogdomain.Repository
	Pending     pendingdomain.Service
	Gateway     gateway.Client
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cfg         config.Config
	repo        domain.Repository
	paymentRepo paymentdomain.Repository
	userRepo    userdomain.Repository
	catalogRepo catalogdomain.Repository
	pending     pendingdomain.Service
	gateway     gateway.Client
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("booking.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Config,
		repo:        p.Repo,
		paymentRepo: p.PaymentRepo,
		userRepo:    p.UserRepo,
		catalogRepo: p.CatalogRepo,
		pending:     p.Pending,
		gateway:     p.Gateway,
		metrics:     p.Metrics,
	}
}

// Create reserves the slot, opens the payment intent and asks the
// gateway for a checkout link. The booking, payment and pending
// transaction commit before the gateway call; a gateway failure leaves
// them in place for the stale-paying sweep to release.
func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.CreateBookingResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok || actor.Role != userdomain.RoleCustomer {
		return domain.CreateBookingResponse{}, domain.ErrForbidden
	}

	cameramanID, err := parseID(req.CameramanID)
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}
	serviceID, err := parseID(req.ServiceID)
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}
	date, err := catalogservice.ParseDate(req.ScheduledDate)
	if err != nil {
		return domain.CreateBookingResponse{}, domain.ErrInvalidDate
	}
	slot := strings.TrimSpace(req.TimeOfDay)
	if !catalogdomain.ValidSlot(slot) {
		return domain.CreateBookingResponse{}, domain.ErrInvalidSlot
	}

	cameraman, err := s.userRepo.FindByID(ctx, s.db, cameramanID)
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}
	if cameraman == nil || cameraman.Role != userdomain.RoleCameraman {
		return domain.CreateBookingResponse{}, domain.ErrNotFound
	}

	offering, err := s.catalogRepo.FindByID(ctx, s.db, serviceID)
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}
	if offering == nil || offering.CameramanID != cameramanID {
		return domain.CreateBookingResponse{}, domain.ErrNotFound
	}
	if offering.Status != catalogdomain.StatusApproved {
		return domain.CreateBookingResponse{}, domain.ErrInvalidState
	}

	now := s.clock.Now()
	booking := domain.Booking{
		ID:            s.genID.Generate(),
		CustomerID:    snowflake.ID(actor.UserID),
		CameramanID:   cameramanID,
		ServiceID:     serviceID,
		ScheduledDate: date,
		TimeOfDay:     slot,
		Amount:        offering.Amount,
		Status:        domain.StatusPaying,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	payment := paymentdomain.Payment{
		ID:        s.genID.Generate(),
		BookingID: booking.ID,
		Type:      paymentdomain.TypeBooking,
		Amount:    offering.Amount,
		Status:    paymentdomain.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.InsertExclusive(ctx, tx, &booking)
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrSlotTaken
			}
			return err
		}
		if rows == 0 {
			return domain.ErrSlotTaken
		}
		return s.paymentRepo.Insert(ctx, tx, &payment)
	})
	if err != nil {
		if err == domain.ErrSlotTaken {
			s.metrics.RecordBookingCreated("slot_taken")
		}
		return domain.CreateBookingResponse{}, err
	}

	orderCode := s.genID.Generate().Int64()
	if err := s.pending.Register(ctx, pendingdomain.PendingTransaction{
		OrderCode: orderCode,
		Kind:      pendingdomain.KindBookingPayment,
		UserID:    snowflake.ID(actor.UserID),
		BookingID: booking.ID,
		PaymentID: payment.ID,
		CreatedAt: now,
	}); err != nil {
		return domain.CreateBookingResponse{}, err
	}

	link, err := s.gateway.CreatePaymentLink(ctx, gateway.CreateLinkRequest{
		OrderCode:   orderCode,
		Amount:      booking.Amount,
		Description: "Thanh toán booking dịch vụ",
		CancelURL:   s.cfg.ClientURL,
		ReturnURL:   s.cfg.ClientURL,
	})
	if err != nil {
		s.metrics.RecordGatewayRequest("error")
		s.metrics.RecordBookingCreated("gateway_error")
		s.log.Warn("checkout link unavailable, booking held for sweep",
			zap.String("booking_id", booking.ID.String()),
			zap.Int64("order_code", orderCode),
			zap.Error(err),
		)
		return domain.CreateBookingResponse{}, domain.ErrGatewayUnavailable
	}
	s.metrics.RecordGatewayRequest("ok")
	s.metrics.RecordBookingCreated("success")

	return domain.CreateBookingResponse{
		Booking:    booking,
		Payment:    payment,
		PaymentURL: link.CheckoutURL,
		OrderCode:  orderCode,
	}, nil
}

func (s *Service) Complete(ctx context.Context, req domain.CompleteBookingRequest) (domain.Booking, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok || actor.Role != userdomain.RoleCameraman {
		return domain.Booking{}, domain.ErrForbidden
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	if booking.CameramanID != snowflake.ID(actor.UserID) {
		return domain.Booking{}, domain.ErrForbidden
	}

	rows, err := s.repo.UpdateStatus(ctx, s.db, id, domain.StatusRequested, domain.StatusCompleted, s.clock.Now())
	if err != nil {
		return domain.Booking{}, err
	}
	if rows == 0 {
		return domain.Booking{}, domain.ErrInvalidState
	}

	updated, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if updated == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetBookingRequest) (domain.Booking, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.Booking{}, domain.ErrForbidden
	}

	id, err := parseID(req.ID)
	if err != nil {
		return domain.Booking{}, err
	}

	booking, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	if actor.Role != userdomain.RoleAdmin &&
		booking.CustomerID != snowflake.ID(actor.UserID) &&
		booking.CameramanID != snowflake.ID(actor.UserID) {
		return domain.Booking{}, domain.ErrForbidden
	}

	return *booking, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBookingRequest) (domain.ListBookingResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ListBookingResponse{}, domain.ErrForbidden
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListBookingFilter{
		ActorID: snowflake.ID(actor.UserID),
		Status:  strings.TrimSpace(req.Status),
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListBookingResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(booking *domain.Booking) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        booking.ID.String(),
			CreatedAt: booking.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}

	resp := domain.ListBookingResponse{Bookings: bookings}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
