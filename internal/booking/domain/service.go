package domain

import (
	"context"
	"errors"

	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
)

type CreateBookingRequest struct {
	CameramanID   string `json:"cameraman_id"`
	ServiceID     string `json:"service_id"`
	ScheduledDate string `json:"scheduled_date"`
	TimeOfDay     string `json:"time_of_day"`
}

type CreateBookingResponse struct {
	Booking    Booking               `json:"booking"`
	Payment    paymentdomain.Payment `json:"payment"`
	PaymentURL string                `json:"paymentUrl"`
	OrderCode  int64                 `json:"orderCode"`
}

type CompleteBookingRequest struct {
	ID string
}

type GetBookingRequest struct {
	ID string
}

type ListBookingRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListBookingResponse struct {
	pagination.PageInfo
	Bookings []Booking `json:"bookings"`
}

type Service interface {
	Create(context.Context, CreateBookingRequest) (CreateBookingResponse, error)
	Complete(context.Context, CompleteBookingRequest) (Booking, error)
	GetByID(context.Context, GetBookingRequest) (Booking, error)
	List(context.Context, ListBookingRequest) (ListBookingResponse, error)
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidDate        = errors.New("invalid_date")
	ErrInvalidSlot        = errors.New("invalid_slot")
	ErrNotFound           = errors.New("not_found")
	ErrForbidden          = errors.New("forbidden")
	ErrSlotTaken          = errors.New("slot_taken")
	ErrInvalidState       = errors.New("invalid_state")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
)
