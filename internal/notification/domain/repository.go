package domain

import (
	"context"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, notification *Notification) error
	ListByReceiver(ctx context.Context, db *gorm.DB, receiverID snowflake.ID, page pagination.Pagination) ([]*Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, receiverID, id snowflake.ID) (int64, error)
}
