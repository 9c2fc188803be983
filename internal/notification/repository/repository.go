package repository

import (
	"context"

	"github.com/DuongHuynhTrung/CamCrew/internal/notification/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, notification *domain.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *repo) ListByReceiver(ctx context.Context, db *gorm.DB, receiverID snowflake.ID, page pagination.Pagination) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	stmt := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("receiver_id = ?", receiverID)
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}
	err = stmt.
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, receiverID, id snowflake.ID) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`UPDATE notifications SET is_read = ? WHERE id = ? AND receiver_id = ?`,
		true,
		id,
		receiverID,
	)
	return tx.RowsAffected, tx.Error
}
