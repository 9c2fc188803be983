package service

import (
	"context"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	bookingdomain "github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
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
	Clock       clock.Clock
	Repo        domain.Repository
	BookingRepo bookingdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	repo        domain.Repository
	bookingRepo bookingdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.service"),
		clock:       p.Clock,
		repo:        p.Repo,
		bookingRepo: p.BookingRepo,
	}
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPaymentRequest) (domain.Payment, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Payment{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}

	if err := s.authorize(ctx, item); err != nil {
		return domain.Payment{}, err
	}

	return *item, nil
}

// authorize resolves the payment's booking to decide visibility: the
// booking's customer, its cameraman, or an admin.
func (s *Service) authorize(ctx context.Context, payment *domain.Payment) error {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ErrForbidden
	}
	if actor.Role == userdomain.RoleAdmin {
		return nil
	}
	if payment.BookingID == 0 {
		return domain.ErrForbidden
	}

	booking, err := s.bookingRepo.FindByID(ctx, s.db, payment.BookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return domain.ErrNotFound
	}
	if booking.CustomerID != snowflake.ID(actor.UserID) && booking.CameramanID != snowflake.ID(actor.UserID) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListPaymentRequest) (domain.ListPaymentResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ListPaymentResponse{}, domain.ErrForbidden
	}

	filter := domain.ListPaymentFilter{
		Type:   strings.TrimSpace(req.Type),
		Status: strings.TrimSpace(req.Status),
	}
	if actor.Role != userdomain.RoleAdmin {
		bookingIDs, err := s.bookingRepo.ListIDsByActor(ctx, s.db, snowflake.ID(actor.UserID))
		if err != nil {
			return domain.ListPaymentResponse{}, err
		}
		if bookingIDs == nil {
			bookingIDs = []snowflake.ID{}
		}
		filter.BookingIDs = bookingIDs
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListPaymentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(payment *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        payment.ID.String(),
			CreatedAt: payment.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		payments = append(payments, *item)
	}

	resp := domain.ListPaymentResponse{Payments: payments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) MarkPaid(ctx context.Context, req domain.MarkRequest) (domain.Payment, error) {
	return s.mark(ctx, req, domain.StatusPaid)
}

func (s *Service) MarkFailed(ctx context.Context, req domain.MarkRequest) (domain.Payment, error) {
	return s.mark(ctx, req, domain.StatusFailed)
}

func (s *Service) mark(ctx context.Context, req domain.MarkRequest, to string) (domain.Payment, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Payment{}, err
	}

	rows, err := s.repo.UpdateStatus(ctx, s.db, id, domain.StatusProcessing, to, s.clock.Now())
	if err != nil {
		return domain.Payment{}, err
	}
	if rows == 0 {
		item, err := s.repo.FindByID(ctx, s.db, id)
		if err != nil {
			return domain.Payment{}, err
		}
		if item == nil {
			return domain.Payment{}, domain.ErrNotFound
		}
		return domain.Payment{}, domain.ErrInvalidState
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if item == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *item, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
