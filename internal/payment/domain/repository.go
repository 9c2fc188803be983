package domain

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListPaymentFilter struct {
	// BookingIDs restricts the listing to payments of these bookings.
	// Nil means no booking restriction (admin listing).
	BookingIDs []snowflake.ID
	Type       string
	Status     string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	FindByBookingID(ctx context.Context, db *gorm.DB, bookingID snowflake.ID) (*Payment, error)
	List(ctx context.Context, db *gorm.DB, filter ListPaymentFilter, page pagination.Pagination) ([]*Payment, error)
	// UpdateStatus transitions from->to and reports affected rows;
	// zero rows means the payment was not in the expected state.
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to string, now time.Time) (int64, error)
}
