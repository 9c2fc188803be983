package domain

import (
	"context"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListServiceFilter struct {
	CameramanID snowflake.ID
	Status      string
	Style       string
	Area        string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, service *Service) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Service, error)
	List(ctx context.Context, db *gorm.DB, filter ListServiceFilter, page pagination.Pagination) ([]*Service, error)
	// FindTakenSlots returns the time-of-day slots already held by an
	// active booking for the cameraman on the given date.
	FindTakenSlots(ctx context.Context, db *gorm.DB, cameramanID snowflake.ID, date time.Time) ([]string, error)
}
