package domain

import (
	"context"
	"errors"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
)

type GetServiceRequest struct {
	ID string
}

type ListServiceRequest struct {
	PageToken   string
	PageSize    int32
	CameramanID string
	Status      string
	Style       string
	Area        string
}

type ListServiceResponse struct {
	pagination.PageInfo
	Services []Service `json:"services"`
}

type FreeSlotsRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
}

type Catalog interface {
	GetByID(context.Context, GetServiceRequest) (Service, error)
	List(context.Context, ListServiceRequest) (ListServiceResponse, error)
	FreeSlots(context.Context, FreeSlotsRequest) ([]string, error)
}

var (
	ErrInvalidID   = errors.New("invalid_id")
	ErrInvalidDate = errors.New("invalid_date")
	ErrNotFound    = errors.New("not_found")
)
