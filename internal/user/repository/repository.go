package repository

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) UpdateMembership(ctx context.Context, db *gorm.DB, id snowflake.ID, tier string, start, end time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE users
		 SET membership_subscription = ?, subscription_start_date = ?, subscription_end_date = ?, updated_at = ?
		 WHERE id = ?`,
		tier,
		start,
		end,
		start,
		id,
	).Error
}

func (r *repo) FindExpiredMemberships(ctx context.Context, db *gorm.DB, now time.Time) ([]*domain.User, error) {
	var users []*domain.User
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("membership_subscription <> ?", domain.MembershipNormal).
		Where("subscription_end_date IS NOT NULL AND subscription_end_date < ?", now).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repo) ResetMembership(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`UPDATE users
		 SET membership_subscription = ?, updated_at = ?
		 WHERE id = ? AND membership_subscription <> ?`,
		domain.MembershipNormal,
		now,
		id,
		domain.MembershipNormal,
	)
	return tx.RowsAffected, tx.Error
}
