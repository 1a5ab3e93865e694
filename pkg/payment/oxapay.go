package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"veronikaextra-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

const (
	OxapayResultOK   = 100
	OxapayStatusPaid = "Paid"
)

type (
	OxapayClient interface {
		Configured() bool
		CreateInvoice(ctx context.Context, invoice OxapayInvoice) (*OxapayResult, error)
		Inquiry(ctx context.Context, trackID string) (*OxapayResult, error)
		VerifyCallback(signature string, body []byte) bool
	}

	OxapayConfig struct {
		MerchantKey string
		BaseURL     string
		Lifetime    int
	}

	OxapayInvoice struct {
		Merchant       string  `json:"merchant"`
		Amount         float64 `json:"amount"`
		Currency       string  `json:"currency"`
		LifeTime       int     `json:"lifeTime"`
		FeePaidByPayer int     `json:"feePaidByPayer"`
		UnderPaidCover float64 `json:"underPaidCover"`
		ReturnURL      string  `json:"returnUrl,omitempty"`
		Description    string  `json:"description,omitempty"`
		OrderID        string  `json:"orderId"`
		Email          string  `json:"email,omitempty"`
	}

	OxapayResult struct {
		Result  int        `json:"result"`
		Message string     `json:"message"`
		TrackID flexString `json:"trackId"`
		PayLink string     `json:"payLink"`
		Status  string     `json:"status"`
		OrderID string     `json:"orderId"`
		Raw     []byte     `json:"-"`
	}

	OxapayCallback struct {
		Type    string     `json:"type"`
		Status  string     `json:"status"`
		TrackID flexString `json:"trackId"`
		OrderID string     `json:"orderId"`
	}

	oxapayClient struct {
		httpClient *http.Client
		cfg        OxapayConfig
	}

	oxapayInquiry struct {
		Merchant string `json:"merchant"`
		TrackID  string `json:"trackId"`
	}
)

func NewOxapayClient(cfg OxapayConfig) OxapayClient {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 30
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &oxapayClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cfg:        cfg,
	}
}

func (c *oxapayClient) Configured() bool {
	return c.cfg.MerchantKey != ""
}

func (c *oxapayClient) post(ctx context.Context, path string, payload any) (*OxapayResult, error) {
	if !c.Configured() {
		return nil, domain.ErrGatewayNotConfigured
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewBuffer(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Gateway: domain.GatewayOxapay, Message: "Failed to connect to payment gateway."}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result OxapayResult
	if err := json.Unmarshal(body, &result); err != nil {
		log.Errorf("oxapay returned non-json status=%d body=%s", resp.StatusCode, snippet(body))
		return nil, &GatewayError{Gateway: domain.GatewayOxapay, Status: resp.StatusCode, Message: snippet(body)}
	}
	result.Raw = body

	if result.Result != OxapayResultOK {
		log.Errorf("oxapay api error result=%d message=%s", result.Result, result.Message)
		message := result.Message
		if message == "" {
			message = "Unknown error"
		}
		return nil, &GatewayError{Gateway: domain.GatewayOxapay, Status: resp.StatusCode, Message: message}
	}
	return &result, nil
}

func (c *oxapayClient) CreateInvoice(ctx context.Context, invoice OxapayInvoice) (*OxapayResult, error) {
	invoice.Merchant = c.cfg.MerchantKey
	if invoice.Currency == "" {
		invoice.Currency = domain.CurrencyUSD
	}
	if invoice.LifeTime == 0 {
		invoice.LifeTime = c.cfg.Lifetime
	}

	result, err := c.post(ctx, "/merchants/request", invoice)
	if err != nil {
		return nil, err
	}
	if result.PayLink == "" {
		return nil, &GatewayError{Gateway: domain.GatewayOxapay, Status: http.StatusOK, Message: "Failed to create crypto invoice"}
	}
	return result, nil
}

func (c *oxapayClient) Inquiry(ctx context.Context, trackID string) (*OxapayResult, error) {
	return c.post(ctx, "/merchants/inquiry", oxapayInquiry{Merchant: c.cfg.MerchantKey, TrackID: trackID})
}

// VerifyCallback checks hex(HMAC-SHA512(merchant key, body)).
func (c *oxapayClient) VerifyCallback(signature string, body []byte) bool {
	if c.cfg.MerchantKey == "" || signature == "" {
		return false
	}
	return hmac.Equal([]byte(SignOxapay(c.cfg.MerchantKey, body)), []byte(strings.ToLower(signature)))
}

func SignOxapay(key string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(key))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
