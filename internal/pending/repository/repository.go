package repository

import (
	"context"

	"github.com/DuongHuynhTrung/CamCrew/internal/pending/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tx *domain.PendingTransaction) error {
	return db.WithContext(ctx).Create(tx).Error
}

func (r *repo) FindByOrderCode(ctx context.Context, db *gorm.DB, orderCode int64) (*domain.PendingTransaction, error) {
	var tx domain.PendingTransaction
	err := db.WithContext(ctx).
		Model(&domain.PendingTransaction{}).
		Where("order_code = ?", orderCode).
		Limit(1).
		Find(&tx).Error
	if err != nil {
		return nil, err
	}
	if tx.OrderCode == 0 {
		return nil, nil
	}
	return &tx, nil
}

func (r *repo) DeleteByOrderCode(ctx context.Context, db *gorm.DB, orderCode int64) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`DELETE FROM pending_transactions WHERE order_code = ?`,
		orderCode,
	)
	return tx.RowsAffected, tx.Error
}

func (r *repo) DeleteByBookingID(ctx context.Context, db *gorm.DB, bookingID snowflake.ID) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`DELETE FROM pending_transactions WHERE kind = ? AND booking_id = ?`,
		domain.KindBookingPayment,
		bookingID,
	)
	return tx.RowsAffected, tx.Error
}
