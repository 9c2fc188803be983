package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	UpdateMembership(ctx context.Context, db *gorm.DB, id snowflake.ID, tier string, start, end time.Time) error
	FindExpiredMemberships(ctx context.Context, db *gorm.DB, now time.Time) ([]*User, error)
	ResetMembership(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (int64, error)
}
