package gateway

import (
	"context"
	"errors"
)

// Client is the payment gateway boundary. The process talks to the
// gateway exactly once per intent, to obtain a checkout link; the
// outcome arrives later through the webhook.
type Client interface {
	CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error)
}

type CreateLinkRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CancelURL   string `json:"cancelUrl"`
	ReturnURL   string `json:"returnUrl"`
}

type PaymentLink struct {
	CheckoutURL   string `json:"checkoutUrl"`
	PaymentLinkID string `json:"paymentLinkId"`
	QRCode        string `json:"qrCode"`
}

// CodeSuccess is the gateway's success result code; any other value
// signals failure.
const CodeSuccess = "00"

// WebhookPayload is the inbound callback body.
type WebhookPayload struct {
	Code string      `json:"code"`
	Desc string      `json:"desc"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	OrderCode int64 `json:"orderCode"`
	Amount    int64 `json:"amount"`
}

func (p WebhookPayload) Success() bool {
	return p.Code == CodeSuccess
}

var ErrUnavailable = errors.New("gateway_unavailable")
