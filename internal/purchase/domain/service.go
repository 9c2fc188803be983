package domain

import (
	"context"
	"errors"

	"github.com/DuongHuynhTrung/CamCrew/pkg/db/pagination"
)

type BuyServicesRequest struct {
	ServiceIDs []string `json:"service_id"`
	Amount     int64    `json:"amount"`
}

type BuyServicesResponse struct {
	PaymentURL string `json:"paymentUrl"`
	OrderCode  int64  `json:"orderCode"`
}

type ListTransactionRequest struct {
	PageToken string
	PageSize  int32
}

type ListTransactionResponse struct {
	pagination.PageInfo
	Transactions []Transaction `json:"transactions"`
}

type Service interface {
	// BuyServices opens a payment intent for a set of services; the
	// ledger entry is written by the reconciler on confirmation.
	BuyServices(context.Context, BuyServicesRequest) (BuyServicesResponse, error)
	List(context.Context, ListTransactionRequest) (ListTransactionResponse, error)
}

var (
	ErrInvalidInput       = errors.New("invalid_input")
	ErrForbidden          = errors.New("forbidden")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
)
