package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tx *PendingTransaction) error
	FindByOrderCode(ctx context.Context, db *gorm.DB, orderCode int64) (*PendingTransaction, error)
	// DeleteByOrderCode reports affected rows; zero means another
	// consumer already took the record.
	DeleteByOrderCode(ctx context.Context, db *gorm.DB, orderCode int64) (int64, error)
	DeleteByBookingID(ctx context.Context, db *gorm.DB, bookingID snowflake.ID) (int64, error)
}
