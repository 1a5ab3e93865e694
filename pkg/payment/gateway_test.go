package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"veronikaextra-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashfreeCreateOrder(t *testing.T) {
	var got CashfreeOrder
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pg/orders", r.URL.Path)
		assert.Equal(t, "app", r.Header.Get("x-client-id"))
		assert.Equal(t, "secret", r.Header.Get("x-client-secret"))
		assert.Equal(t, "2022-09-01", r.Header.Get("x-api-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"order_id":"abc-50-1","order_status":"ACTIVE","payment_link":"https://pay.cashfree.com/abc"}`))
	}))
	defer server.Close()

	client := NewCashfreeClient(CashfreeConfig{AppID: "app", SecretKey: "secret", BaseURL: server.URL + "/"})
	result, err := client.CreateOrder(context.Background(), CashfreeOrder{
		OrderID:         "abc-50-1",
		OrderAmount:     149,
		CustomerDetails: CashfreeCustomer{CustomerID: "u1", CustomerName: "Asha", CustomerEmail: "asha@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.cashfree.com/abc", result.PaymentLink)
	assert.NotEmpty(t, result.Raw)
	assert.Equal(t, domain.DefaultCustomerPhone, got.CustomerDetails.CustomerPhone)
	assert.Equal(t, domain.CurrencyINR, got.OrderCurrency)
}

func TestCashfreeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error", http.StatusBadRequest, `{"message":"order_amount : is invalid"}`, "order_amount : is invalid"},
		{"missing link", http.StatusOK, `{"order_id":"x"}`, "Failed to initiate Cashfree payment"},
		{"non json", http.StatusBadGateway, `<html>bad gateway</html>`, "<html>bad gateway</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewCashfreeClient(CashfreeConfig{AppID: "app", SecretKey: "secret", BaseURL: server.URL})
			_, err := client.CreateOrder(context.Background(), CashfreeOrder{OrderID: "x", OrderAmount: 1})

			var gatewayErr *GatewayError
			require.True(t, errors.As(err, &gatewayErr))
			assert.Equal(t, tt.message, gatewayErr.Message)
			assert.Equal(t, domain.GatewayCashfree, gatewayErr.Gateway)
			assert.ErrorIs(t, err, domain.ErrPaymentGateway)
		})
	}
}

func TestCashfreeNotConfigured(t *testing.T) {
	client := NewCashfreeClient(CashfreeConfig{})
	assert.False(t, client.Configured())

	_, err := client.GetOrder(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrGatewayNotConfigured)
}

func TestCashfreeGetOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/pg/orders/abc-50-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"order_id":"abc-50-1","order_status":"PAID"}`))
	}))
	defer server.Close()

	client := NewCashfreeClient(CashfreeConfig{AppID: "app", SecretKey: "secret", BaseURL: server.URL})
	result, err := client.GetOrder(context.Background(), "abc-50-1")
	require.NoError(t, err)
	assert.Equal(t, CashfreeOrderPaid, result.OrderStatus)
}

func TestCashfreeVerifyWebhook(t *testing.T) {
	client := NewCashfreeClient(CashfreeConfig{AppID: "app", SecretKey: "secret"})
	body := []byte(`{"type":"PAYMENT_SUCCESS_WEBHOOK"}`)
	signature := SignCashfree("secret", "1700000000", body)

	assert.True(t, client.VerifyWebhook("1700000000", signature, body))
	assert.False(t, client.VerifyWebhook("1700000001", signature, body))
	assert.False(t, client.VerifyWebhook("1700000000", "", body))
}

func TestOxapayCreateInvoice(t *testing.T) {
	var got OxapayInvoice
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchants/request", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result":100,"message":"success","trackId":18349213,"payLink":"https://oxapay.com/mpay/18349213"}`))
	}))
	defer server.Close()

	client := NewOxapayClient(OxapayConfig{MerchantKey: "merchant", BaseURL: server.URL})
	result, err := client.CreateInvoice(context.Background(), OxapayInvoice{Amount: 1.8, OrderID: "CRYPTO-abc-50-1"})
	require.NoError(t, err)
	assert.Equal(t, "18349213", string(result.TrackID))
	assert.Equal(t, "https://oxapay.com/mpay/18349213", result.PayLink)
	assert.Equal(t, "merchant", got.Merchant)
	assert.Equal(t, domain.CurrencyUSD, got.Currency)
	assert.Equal(t, 30, got.LifeTime)
}

func TestOxapayRejectedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":102,"message":"Invalid merchant API key"}`))
	}))
	defer server.Close()

	client := NewOxapayClient(OxapayConfig{MerchantKey: "merchant", BaseURL: server.URL})
	_, err := client.CreateInvoice(context.Background(), OxapayInvoice{Amount: 1, OrderID: "x"})

	var gatewayErr *GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	assert.Equal(t, "Invalid merchant API key", gatewayErr.Message)
	assert.Equal(t, domain.GatewayOxapay, gatewayErr.Gateway)
	assert.Equal(t, "Payment Gateway Error: Invalid merchant API key", err.Error())
}

func TestOxapayInquiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/merchants/inquiry", r.URL.Path)
		var body oxapayInquiry
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body.TrackID)
		_, _ = w.Write([]byte(`{"result":100,"trackId":"42","status":"Paid"}`))
	}))
	defer server.Close()

	client := NewOxapayClient(OxapayConfig{MerchantKey: "merchant", BaseURL: server.URL})
	result, err := client.Inquiry(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, OxapayStatusPaid, result.Status)
}

func TestOxapayVerifyCallback(t *testing.T) {
	client := NewOxapayClient(OxapayConfig{MerchantKey: "merchant"})
	body := []byte(`{"status":"Paid","orderId":"CRYPTO-abc"}`)

	assert.True(t, client.VerifyCallback(SignOxapay("merchant", body), body))
	assert.False(t, client.VerifyCallback(SignOxapay("other", body), body))
}
