package repository

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/booking/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// InsertExclusive closes the race between two customers booking the
// same slot: the existence check and insert run as one statement, and a
// partial unique index over active bookings backs it up on conflict.
func (r *repo) InsertExclusive(ctx context.Context, db *gorm.DB, booking *domain.Booking) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`INSERT INTO bookings (id, customer_id, cameraman_id, service_id, scheduled_date, time_of_day, amount, status, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
		     SELECT 1 FROM bookings
		     WHERE cameraman_id = ? AND scheduled_date = ? AND time_of_day = ?
		       AND status IN ('paying', 'requested')
		 )`,
		booking.ID,
		booking.CustomerID,
		booking.CameramanID,
		booking.ServiceID,
		booking.ScheduledDate,
		booking.TimeOfDay,
		booking.Amount,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
		booking.CameramanID,
		booking.ScheduledDate,
		booking.TimeOfDay,
	)
	return tx.RowsAffected, tx.Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Booking, error) {
	var booking domain.Booking
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM bookings WHERE id = ?`,
		id,
	).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBookingFilter, page pagination.Pagination) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	stmt := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("customer_id = ? OR cameraman_id = ?", filter.ActorID, filter.ActorID)
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}
	err = stmt.
		Order("created_at desc, id desc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) ListIDsByActor(ctx context.Context, db *gorm.DB, actorID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM bookings WHERE customer_id = ? OR cameraman_id = ?`,
		actorID,
		actorID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to string, now time.Time) (int64, error) {
	tx := db.WithContext(ctx).Exec(
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to,
		now,
		id,
		from,
	)
	return tx.RowsAffected, tx.Error
}

func (r *repo) FindStalePaying(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("status = ?", domain.StatusPaying).
		Where("created_at < ?", cutoff).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
