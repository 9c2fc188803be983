package service

import (
	"context"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/catalog/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Catalog {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetByID(ctx context.Context, req domain.GetServiceRequest) (domain.Service, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Service{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Service{}, err
	}
	if item == nil {
		return domain.Service{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) List(ctx context.Context, req domain.ListServiceRequest) (domain.ListServiceResponse, error) {
	filter := domain.ListServiceFilter{
		Status: strings.TrimSpace(req.Status),
		Style:  strings.TrimSpace(req.Style),
		Area:   strings.TrimSpace(req.Area),
	}
	if raw := strings.TrimSpace(req.CameramanID); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return domain.ListServiceResponse{}, err
		}
		filter.CameramanID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListServiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(service *domain.Service) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        service.ID.String(),
			CreatedAt: service.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	services := make([]domain.Service, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		services = append(services, *item)
	}

	resp := domain.ListServiceResponse{Services: services}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

// FreeSlots returns the offered slots not already held by an active
// booking of the service's cameraman on the requested date. A date
// outside the service's working day yields an empty list.
func (s *Service) FreeSlots(ctx context.Context, req domain.FreeSlotsRequest) ([]string, error) {
	id, err := parseID(req.ServiceID)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if !sameDay(item.DateGetJob, date) {
		return []string{}, nil
	}

	taken, err := s.repo.FindTakenSlots(ctx, s.db, item.CameramanID, date)
	if err != nil {
		return nil, err
	}

	takenSet := make(map[string]struct{}, len(taken))
	for _, slot := range taken {
		takenSet[slot] = struct{}{}
	}

	free := make([]string, 0, len(item.TimeOfDay))
	for _, slot := range item.TimeOfDay {
		if _, ok := takenSet[slot]; ok {
			continue
		}
		free = append(free, slot)
	}

	return free, nil
}

// ParseDate normalizes a calendar day to midnight UTC.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return date.UTC(), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
