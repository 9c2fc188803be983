package service

import (
	"context"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	"github.com/DuongHuynhTrung/CamCrew/internal/purchase/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Config  config.Config
	Repo    domain.Repository
	Pending pendingdomain.Service
	Gateway gateway.Client
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	cfg     config.Config
	repo    domain.Repository
	pending pendingdomain.Service
	gateway gateway.Client
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("purchase.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		cfg:     p.Config,
		repo:    p.Repo,
		pending: p.Pending,
		gateway: p.Gateway,
	}
}

func (s *Service) BuyServices(ctx context.Context, req domain.BuyServicesRequest) (domain.BuyServicesResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok || actor.Role != userdomain.RoleCustomer {
		return domain.BuyServicesResponse{}, domain.ErrForbidden
	}

	serviceIDs := make([]string, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		serviceIDs = append(serviceIDs, raw)
	}
	if len(serviceIDs) == 0 || req.Amount <= 0 {
		return domain.BuyServicesResponse{}, domain.ErrInvalidInput
	}

	now := s.clock.Now()
	orderCode := s.genID.Generate().Int64()
	if err := s.pending.Register(ctx, pendingdomain.PendingTransaction{
		OrderCode:  orderCode,
		Kind:       pendingdomain.KindBuyService,
		UserID:     snowflake.ID(actor.UserID),
		ServiceIDs: serviceIDs,
		Amount:     req.Amount,
		CreatedAt:  now,
	}); err != nil {
		return domain.BuyServicesResponse{}, err
	}

	link, err := s.gateway.CreatePaymentLink(ctx, gateway.CreateLinkRequest{
		OrderCode:   orderCode,
		Amount:      req.Amount,
		Description: "Thanh toán mua dịch vụ",
		CancelURL:   s.cfg.ClientURL,
		ReturnURL:   s.cfg.ClientURL,
	})
	if err != nil {
		s.log.Warn("checkout link unavailable for purchase",
			zap.Int64("order_code", orderCode),
			zap.Error(err),
		)
		return domain.BuyServicesResponse{}, domain.ErrGatewayUnavailable
	}

	return domain.BuyServicesResponse{
		PaymentURL: link.CheckoutURL,
		OrderCode:  orderCode,
	}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) (domain.ListTransactionResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ListTransactionResponse{}, domain.ErrForbidden
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListByUser(ctx, s.db, snowflake.ID(actor.UserID), pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListTransactionResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(transaction *domain.Transaction) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        transaction.ID.String(),
			CreatedAt: transaction.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	transactions := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		transactions = append(transactions, *item)
	}

	resp := domain.ListTransactionResponse{Transactions: transactions}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}
