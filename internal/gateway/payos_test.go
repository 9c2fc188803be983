package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DuongHuynhTrung/CamCrew/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func payosTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	return NewPayOS(config.Config{
		PayOS: config.PayOSConfig{
			ClientID:    "client-1",
			APIKey:      "key-1",
			ChecksumKey: "checksum-1",
			BaseURL:     baseURL,
		},
	}, zap.NewNop())
}

func TestCreatePaymentLink(t *testing.T) {
	var gotBody struct {
		CreateLinkRequest
		Signature string `json:"signature"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v2/payment-requests", r.URL.Path)
		require.Equal(t, "client-1", r.Header.Get("x-client-id"))
		require.Equal(t, "key-1", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":"00","desc":"success","data":{"checkoutUrl":"https://pay.payos.vn/web/abc","paymentLinkId":"abc","qrCode":"qr-data"}}`)
	}))
	defer srv.Close()

	client := payosTestClient(t, srv.URL)
	link, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		OrderCode:   12345,
		Amount:      800_000,
		Description: "Thanh toán booking dịch vụ",
		CancelURL:   "https://camcrew.example",
		ReturnURL:   "https://camcrew.example",
	})
	require.NoError(t, err)
	require.Equal(t, "https://pay.payos.vn/web/abc", link.CheckoutURL)
	require.Equal(t, "abc", link.PaymentLinkID)

	// Signature covers the alphabetically ordered request fields.
	payload := "amount=800000&cancelUrl=https://camcrew.example&description=Thanh toán booking dịch vụ&orderCode=12345&returnUrl=https://camcrew.example"
	mac := hmac.New(sha256.New, []byte("checksum-1"))
	mac.Write([]byte(payload))
	require.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotBody.Signature)
}

func TestCreatePaymentLink_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"code":"231","desc":"order code exists","data":null}`)
	}))
	defer srv.Close()

	client := payosTestClient(t, srv.URL)
	_, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		OrderCode: 1,
		Amount:    1000,
	})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestCreatePaymentLink_HTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := payosTestClient(t, srv.URL)
	_, err := client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		OrderCode: 1,
		Amount:    1000,
	})
	require.ErrorIs(t, err, ErrUnavailable)

	srv.Close()
	_, err = client.CreatePaymentLink(context.Background(), CreateLinkRequest{
		OrderCode: 2,
		Amount:    1000,
	})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestWebhookPayloadSuccess(t *testing.T) {
	var payload WebhookPayload
	raw := `{"code":"00","desc":"success","data":{"orderCode":777,"amount":100000}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	require.True(t, payload.Success())
	require.EqualValues(t, 777, payload.Data.OrderCode)

	payload.Code = "01"
	require.False(t, payload.Success())
}
