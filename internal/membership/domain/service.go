package domain

import (
	"context"
	"errors"

	paymentdomain "github.com/DuongHuynhTrung/CamCrew/internal/payment/domain"
	"github.com/bwmarrin/snowflake"
)

type SubscribeRequest struct {
	MembershipType string `json:"membership_type"`
}

type SubscribeResponse struct {
	Payment    paymentdomain.Payment `json:"payment"`
	PaymentURL string                `json:"paymentUrl"`
	OrderCode  int64                 `json:"orderCode"`
}

type Service interface {
	// Subscribe opens a subscription payment intent and returns the
	// checkout link. Activation happens later, from the webhook.
	Subscribe(context.Context, SubscribeRequest) (SubscribeResponse, error)
	// Activate sets the user's tier and subscription window. Called by
	// the reconciler after a confirmed subscription payment.
	Activate(ctx context.Context, userID snowflake.ID, tier string) error
}

var (
	ErrInvalidPlan        = errors.New("invalid_plan")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
)
