package domain

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListBookingFilter struct {
	ActorID snowflake.ID
	Status  string
}

type Repository interface {
	// InsertExclusive inserts the booking only if no active booking
	// already holds (cameraman, date, slot). Zero affected rows means
	// the slot is taken.
	InsertExclusive(ctx context.Context, db *gorm.DB, booking *Booking) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	List(ctx context.Context, db *gorm.DB, filter ListBookingFilter, page pagination.Pagination) ([]*Booking, error)
	ListIDsByActor(ctx context.Context, db *gorm.DB, actorID snowflake.ID) ([]snowflake.ID, error)
	// UpdateStatus transitions from->to and reports affected rows;
	// zero rows means the booking was not in the expected state.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to string, now time.Time) (int64, error)
	FindStalePaying(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*Booking, error)
}
