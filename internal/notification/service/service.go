package service

import (
	"context"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/actorctx"
	"github.com/DuongHuynhTrung/CamCrew/internal/clock"
	"github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("notification.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Emit(ctx context.Context, receiverID snowflake.ID, notificationType, content string) {
	notification := domain.Notification{
		ID:         s.genID.Generate(),
		ReceiverID: receiverID,
		Type:       notificationType,
		Content:    content,
		CreatedAt:  s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &notification); err != nil {
		s.log.Warn("notification dropped",
			zap.String("receiver_id", receiverID.String()),
			zap.String("type", notificationType),
			zap.Error(err),
		)
		return
	}

	s.log.Info("notification emitted",
		zap.String("receiver_id", receiverID.String()),
		zap.String("type", notificationType),
	)
}

func (s *Service) List(ctx context.Context, req domain.ListNotificationRequest) (domain.ListNotificationResponse, error) {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ListNotificationResponse{}, domain.ErrForbidden
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.ListByReceiver(ctx, s.db, snowflake.ID(actor.UserID), pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListNotificationResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(notification *domain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        notification.ID.String(),
			CreatedAt: notification.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	notifications := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		notifications = append(notifications, *item)
	}

	resp := domain.ListNotificationResponse{Notifications: notifications}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) MarkRead(ctx context.Context, req domain.MarkReadRequest) error {
	actor, ok := actorctx.FromContext(ctx)
	if !ok {
		return domain.ErrForbidden
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil || id == 0 {
		return domain.ErrInvalidID
	}

	rows, err := s.repo.MarkRead(ctx, s.db, snowflake.ID(actor.UserID), id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
