package service

import (
	"context"

	"github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("pending.service"),
		repo: p.Repo,
	}
}

func (s *Service) Register(ctx context.Context, tx domain.PendingTransaction) error {
	if tx.OrderCode <= 0 {
		return domain.ErrInvalidOrderCode
	}

	if err := s.repo.Insert(ctx, s.db, &tx); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.ErrOrderCodeExists
		}
		return err
	}
	return nil
}

// Consume is fetch-then-conditional-delete: two concurrent deliveries of
// the same order code race on the delete, and only the one that removes
// the row proceeds.
func (s *Service) Consume(ctx context.Context, orderCode int64) (domain.PendingTransaction, error) {
	if orderCode <= 0 {
		return domain.PendingTransaction{}, domain.ErrInvalidOrderCode
	}

	item, err := s.repo.FindByOrderCode(ctx, s.db, orderCode)
	if err != nil {
		return domain.PendingTransaction{}, err
	}
	if item == nil {
		return domain.PendingTransaction{}, domain.ErrNotFound
	}

	rows, err := s.repo.DeleteByOrderCode(ctx, s.db, orderCode)
	if err != nil {
		return domain.PendingTransaction{}, err
	}
	if rows == 0 {
		return domain.PendingTransaction{}, domain.ErrNotFound
	}

	return *item, nil
}
