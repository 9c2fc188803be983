package repository

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, service *domain.Service) error {
	return db.WithContext(ctx).Create(service).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Service, error) {
	var service domain.Service
	err := db.WithContext(ctx).
		Model(&domain.Service{}).
		Where("id = ?", id).
		Limit(1).
		Find(&service).Error
	if err != nil {
		return nil, err
	}
	if service.ID == 0 {
		return nil, nil
	}
	return &service, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListServiceFilter, page pagination.Pagination) ([]*domain.Service, error) {
	var services []*domain.Service
	stmt := db.WithContext(ctx).Model(&domain.Service{})
	if filter.CameramanID != 0 {
		stmt = stmt.Where("cameraman_id = ?", filter.CameramanID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Style != "" {
		stmt = stmt.Where("styles LIKE ?", "%"+filter.Style+"%")
	}
	if filter.Area != "" {
		stmt = stmt.Where("areas LIKE ?", "%"+filter.Area+"%")
	}
	stmt, err := pagination.Apply(stmt, page)
	if err != nil {
		return nil, err
	}
	err = stmt.
		Order("created_at desc, id desc").
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *repo) FindTakenSlots(ctx context.Context, db *gorm.DB, cameramanID snowflake.ID, date time.Time) ([]string, error) {
	var slots []string
	err := db.WithContext(ctx).Raw(
		`SELECT time_of_day FROM bookings
		 WHERE cameraman_id = ? AND scheduled_date = ? AND status IN ('paying', 'requested')`,
		cameramanID,
		date,
	).Scan(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}
