package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"go.uber.org/zap"
)

type payosClient struct {
	httpClient  *http.Client
	log         *zap.Logger
	baseURL     string
	clientID    string
	apiKey      string
	checksumKey string
}

// NewPayOS builds the HTTP client for the PayOS merchant API. Requests
// are signed HMAC-SHA256 over the sorted request fields with the
// checksum key.
func NewPayOS(cfg config.Config, log *zap.Logger) Client {
	timeout := time.Duration(cfg.PayOS.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &payosClient{
		httpClient:  &http.Client{Timeout: timeout},
		log:         log.Named("gateway.payos"),
		baseURL:     strings.TrimRight(cfg.PayOS.BaseURL, "/"),
		clientID:    cfg.PayOS.ClientID,
		apiKey:      cfg.PayOS.APIKey,
		checksumKey: cfg.PayOS.ChecksumKey,
	}
}

type createLinkBody struct {
	CreateLinkRequest
	Signature string `json:"signature"`
}

type createLinkResponse struct {
	Code string       `json:"code"`
	Desc string       `json:"desc"`
	Data *PaymentLink `json:"data"`
}

func (c *payosClient) CreatePaymentLink(ctx context.Context, req CreateLinkRequest) (*PaymentLink, error) {
	body := createLinkBody{
		CreateLinkRequest: req,
		Signature:         c.sign(req),
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/payment-requests", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-client-id", c.clientID)
	httpReq.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn("payment link request failed",
			zap.Int64("order_code", req.OrderCode),
			zap.Error(err),
		)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("payment link request rejected",
			zap.Int64("order_code", req.OrderCode),
			zap.Int("status", resp.StatusCode),
		)
		return nil, ErrUnavailable
	}

	var decoded createLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, ErrUnavailable
	}
	if decoded.Code != CodeSuccess || decoded.Data == nil || decoded.Data.CheckoutURL == "" {
		c.log.Warn("payment link request errored",
			zap.Int64("order_code", req.OrderCode),
			zap.String("code", decoded.Code),
			zap.String("desc", decoded.Desc),
		)
		return nil, ErrUnavailable
	}

	return decoded.Data, nil
}

// sign follows the PayOS contract: alphabetically ordered key=value
// pairs joined by & and HMAC-SHA256 hex encoded.
func (c *payosClient) sign(req CreateLinkRequest) string {
	payload := fmt.Sprintf("amount=%d&cancelUrl=%s&description=%s&orderCode=%d&returnUrl=%s",
		req.Amount,
		req.CancelURL,
		req.Description,
		req.OrderCode,
		req.ReturnURL,
	)
	mac := hmac.New(sha256.New, []byte(c.checksumKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
