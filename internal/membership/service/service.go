package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/DuongHuynhTrung/CamCrew/internal/gateway"
	"github.com/DuongHuynhTrung/CamCrew/internal/membership/domain"
	notificationdomain "github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	pendingdomain "github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	userdomain "github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Config       config.Config
	Pricing      *config.PricingConfigHolder
	UserRepo     userdomain.Repository
	PaymentRepo  paymentdomain.Repository
	Pending      pendingdomain.Service
	Gateway      gateway.Client
	Notification notificationdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	cfg          config.Config
	pricing      *config.PricingConfigHolder
	userRepo     userdomain.Repository
	paymentRepo  paymentdomain.Repository
	pending      pendingdomain.Service
	gateway      gateway.Client
	notification notificationdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("membership.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		cfg:          p.Config,
		pricing:      p.Pricing,
		userRepo:     p.UserRepo,
		paymentRepo:  p.PaymentRepo,
		pending:      p.Pending,
		gateway:      p.Gateway,
		notification: p.Notification,
	}
}

func (s *Service) Subscribe(ctx context.Context, req domain.SubscribeRequest) (domain.SubscribeResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok || actor.Role != userdomain.RoleCameraman {
		return domain.SubscribeResponse{}, domain.ErrForbidden
	}

	tier := strings.TrimSpace(req.MembershipType)
	plan, ok := s.pricing.Get().Plan(tier)
	if !ok {
		return domain.SubscribeResponse{}, domain.ErrInvalidPlan
	}

	now := s.clock.Now()
	payment := paymentdomain.Payment{
		ID:        s.genID.Generate(),
		Type:      paymentdomain.TypeSubscription,
		Amount:    plan.Amount,
		Status:    paymentdomain.StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.Insert(ctx, s.db, &payment); err != nil {
		return domain.SubscribeResponse{}, err
	}

	orderCode := s.genID.Generate().Int64()
	if err := s.pending.Register(ctx, pendingdomain.PendingTransaction{
		OrderCode:      orderCode,
		Kind:           pendingdomain.KindMembershipSubscription,
		UserID:         snowflake.ID(actor.UserID),
		PaymentID:      payment.ID,
		MembershipType: tier,
		Amount:         plan.Amount,
		CreatedAt:      now,
	}); err != nil {
		return domain.SubscribeResponse{}, err
	}

	link, err := s.gateway.CreatePaymentLink(ctx, gateway.CreateLinkRequest{
		OrderCode:   orderCode,
		Amount:      plan.Amount,
		Description: "Thanh toán gói thành viên",
		CancelURL:   s.cfg.ClientURL,
		ReturnURL:   s.cfg.ClientURL,
	})
	if err != nil {
		s.log.Warn("checkout link unavailable for subscription",
			zap.Int64("order_code", orderCode),
			zap.Error(err),
		)
		return domain.SubscribeResponse{}, domain.ErrGatewayUnavailable
	}

	return domain.SubscribeResponse{
		Payment:    payment,
		PaymentURL: link.CheckoutURL,
		OrderCode:  orderCode,
	}, nil
}

// Activate moves the user onto the paid tier for the plan's calendar
// month span, then tells them about it.
func (s *Service) Activate(ctx context.Context, userID snowflake.ID, tier string) error {
	plan, ok := s.pricing.Get().Plan(tier)
	if !ok {
		return domain.ErrInvalidPlan
	}

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}

	start := s.clock.Now()
	end := start.AddDate(0, plan.Months, 0)
	if err := s.userRepo.UpdateMembership(ctx, s.db, userID, tier, start, end); err != nil {
		return err
	}

	planName := fmt.Sprintf("%d tháng", plan.Months)
	content := fmt.Sprintf("Bạn vừa kích hoạt gói %s thành công. Thời hạn: từ %s đến %s.",
		planName,
		formatVNDate(start),
		formatVNDate(end),
	)
	s.notification.Emit(ctx, userID, notificationdomain.TypeSubscriptionActivated, content)

	return nil
}

func formatVNDate(t time.Time) string {
	return t.Format("02/01/2006")
}
