package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"veronikaextra-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

const (
	CashfreeOrderPaid       = "PAID"
	CashfreeOrderActive     = "ACTIVE"
	CashfreeOrderExpired    = "EXPIRED"
	CashfreeOrderTerminated = "TERMINATED"

	CashfreePaymentSuccess = "SUCCESS"
)

type (
	CashfreeClient interface {
		Configured() bool
		CreateOrder(ctx context.Context, order CashfreeOrder) (*CashfreeOrderResult, error)
		GetOrder(ctx context.Context, orderID string) (*CashfreeOrderResult, error)
		VerifyWebhook(timestamp, signature string, body []byte) bool
	}

	CashfreeConfig struct {
		AppID      string
		SecretKey  string
		APIVersion string
		BaseURL    string
	}

	CashfreeCustomer struct {
		CustomerID    string `json:"customer_id"`
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email"`
		CustomerPhone string `json:"customer_phone"`
	}

	CashfreeOrderMeta struct {
		ReturnURL string `json:"return_url,omitempty"`
	}

	CashfreeOrder struct {
		OrderID         string            `json:"order_id"`
		OrderAmount     float64           `json:"order_amount"`
		OrderCurrency   string            `json:"order_currency"`
		CustomerDetails CashfreeCustomer  `json:"customer_details"`
		OrderMeta       CashfreeOrderMeta `json:"order_meta"`
	}

	CashfreeOrderResult struct {
		OrderID          string  `json:"order_id"`
		OrderAmount      float64 `json:"order_amount"`
		OrderStatus      string  `json:"order_status"`
		PaymentLink      string  `json:"payment_link"`
		PaymentSessionID string  `json:"payment_session_id"`
		Message          string  `json:"message"`
		Raw              []byte  `json:"-"`
	}

	CashfreeWebhook struct {
		Type string `json:"type"`
		Data struct {
			Order struct {
				OrderID     string  `json:"order_id"`
				OrderAmount float64 `json:"order_amount"`
			} `json:"order"`
			Payment struct {
				PaymentStatus string `json:"payment_status"`
			} `json:"payment"`
		} `json:"data"`
	}

	cashfreeClient struct {
		httpClient *http.Client
		cfg        CashfreeConfig
	}
)

func NewCashfreeClient(cfg CashfreeConfig) CashfreeClient {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2022-09-01"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &cashfreeClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
	}
}

func (c *cashfreeClient) Configured() bool {
	return c.cfg.AppID != "" && c.cfg.SecretKey != ""
}

func (c *cashfreeClient) do(ctx context.Context, method, path string, payload any) (*CashfreeOrderResult, error) {
	if !c.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.cfg.AppID)
	req.Header.Set("x-client-secret", c.cfg.SecretKey)
	req.Header.Set("x-api-version", c.cfg.APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Gateway: domain.GatewayCashfree, Message: "Server connection failed"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result CashfreeOrderResult
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Errorf("cashfree returned non-json status=%d body=%s", resp.StatusCode, snippet(raw))
		return nil, &GatewayError{Gateway: domain.GatewayCashfree, Status: resp.StatusCode, Message: snippet(raw)}
	}
	result.Raw = raw

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorf("cashfree api error status=%d body=%s", resp.StatusCode, snippet(raw))
		message := result.Message
		if message == "" {
			message = "Failed to initiate Cashfree payment"
		}
		return nil, &GatewayError{Gateway: domain.GatewayCashfree, Status: resp.StatusCode, Message: message}
	}
	return &result, nil
}

func (c *cashfreeClient) CreateOrder(ctx context.Context, order CashfreeOrder) (*CashfreeOrderResult, error) {
	if strings.TrimSpace(order.CustomerDetails.CustomerPhone) == "" {
		order.CustomerDetails.CustomerPhone = domain.DefaultCustomerPhone
	}
	if order.OrderCurrency == "" {
		order.OrderCurrency = domain.CurrencyINR
	}

	result, err := c.do(ctx, http.MethodPost, "/pg/orders", order)
	if err != nil {
		return nil, err
	}
	if result.PaymentLink == "" {
		message := result.Message
		if message == "" {
			message = "Failed to initiate Cashfree payment"
		}
		return nil, &GatewayError{Gateway: domain.GatewayCashfree, Status: http.StatusOK, Message: message}
	}
	return result, nil
}

func (c *cashfreeClient) GetOrder(ctx context.Context, orderID string) (*CashfreeOrderResult, error) {
	return c.do(ctx, http.MethodGet, "/pg/orders/"+url.PathEscape(orderID), nil)
}

// VerifyWebhook checks base64(HMAC-SHA256(secret, timestamp + body)).
func (c *cashfreeClient) VerifyWebhook(timestamp, signature string, body []byte) bool {
	if c.cfg.SecretKey == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(SignCashfree(c.cfg.SecretKey, timestamp, body)), []byte(signature))
}

func SignCashfree(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
