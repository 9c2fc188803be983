package domain

import (
	"context"
	"errors"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
)

type GetPaymentRequest struct {
	ID string
}

type ListPaymentRequest struct {
	PageToken string
	PageSize  int32
	Type      string
	Status    string
}

type ListPaymentResponse struct {
	pagination.PageInfo
	Payments []Payment `json:"payments"`
}

type MarkRequest struct {
	ID string
}

type Service interface {
	GetByID(context.Context, GetPaymentRequest) (Payment, error)
	List(context.Context, ListPaymentRequest) (ListPaymentResponse, error)
	MarkPaid(context.Context, MarkRequest) (Payment, error)
	MarkFailed(context.Context, MarkRequest) (Payment, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid_state")
)
