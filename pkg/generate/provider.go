package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"veronikaextra-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

type (
	ImageProvider interface {
		Generate(ctx context.Context, prompt string, count int) ([]string, error)
		Configured() bool
	}

	// ProviderError carries the upstream status so handlers can relay it.
	ProviderError struct {
		Status  int
		Message string
	}

	A4FConfig struct {
		APIKey  string
		Model   string
		BaseURL string
		Size    string
		Timeout time.Duration
	}

	a4fProvider struct {
		httpClient *http.Client
		apiKey     string
		model      string
		endpoint   string
		size       string
	}

	a4fPayload struct {
		Model     string `json:"model"`
		Prompt    string `json:"prompt"`
		NumImages int    `json:"num_images"`
		Size      string `json:"size"`
	}
)

func (e *ProviderError) Error() string {
	return fmt.Sprintf("image provider returned %d: %s", e.Status, e.Message)
}

// NormalizeEndpoint rewrites the legacy host and path some deployments still configure.
func NormalizeEndpoint(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.Replace(baseURL, "api.a4f.ai", "api.a4f.co", 1)
	if strings.HasSuffix(baseURL, "/images/generate") {
		baseURL = strings.TrimSuffix(baseURL, "/images/generate") + "/images/generations"
	}
	return baseURL
}

func NewA4FProvider(cfg A4FConfig) ImageProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Size == "" {
		cfg.Size = "1024x1024"
	}
	return &a4fProvider{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		endpoint:   NormalizeEndpoint(cfg.BaseURL),
		size:       cfg.Size,
	}
}

func (p *a4fProvider) Configured() bool {
	return p.apiKey != "" && p.endpoint != ""
}

func (p *a4fProvider) Generate(ctx context.Context, prompt string, count int) ([]string, error) {
	if !p.Configured() {
		return nil, domain.ErrProviderNotConfigured
	}

	body, err := json.Marshal(a4fPayload{
		Model:     p.model,
		Prompt:    prompt,
		NumImages: count,
		Size:      p.size,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	log.Infof("requesting %d images from %s", count, p.endpoint)
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	parseErr := json.Unmarshal(raw, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Errorf("image provider error status=%d body=%s", resp.StatusCode, truncate(raw, 500))
		return nil, &ProviderError{Status: resp.StatusCode, Message: errorMessage(payload)}
	}
	if parseErr != nil {
		log.Errorf("malformed image provider response: %s", truncate(raw, 200))
		return nil, domain.ErrMalformedProviderResponse
	}

	return normalizeImages(payload), nil
}

func truncate(raw []byte, n int) string {
	if len(raw) > n {
		return string(raw[:n])
	}
	return string(raw)
}

func stringField(payload map[string]json.RawMessage, key string) string {
	var s string
	if v, ok := payload[key]; ok && json.Unmarshal(v, &s) == nil {
		return s
	}
	return ""
}

func errorMessage(payload map[string]json.RawMessage) string {
	for _, key := range []string{"message", "error", "detail", "reason"} {
		if s := stringField(payload, key); s != "" {
			return s
		}
		// OpenAI style {"error": {"message": ...}}
		if key == "error" {
			var nested map[string]json.RawMessage
			if v, ok := payload[key]; ok && json.Unmarshal(v, &nested) == nil {
				if s := stringField(nested, "message"); s != "" {
					return s
				}
			}
		}
	}
	return domain.MessageImageProviderErr
}

func dataURL(b64 string) string {
	return "data:image/png;base64," + b64
}

// normalizeImages reads `images` (strings, {url}, {base64} or {b64}) and
// otherwise `data` ({url} or {b64_json}).
func normalizeImages(payload map[string]json.RawMessage) []string {
	var images, data []json.RawMessage
	_ = json.Unmarshal(payload["images"], &images)
	_ = json.Unmarshal(payload["data"], &data)

	var out []string
	if len(images) > 0 {
		for _, item := range images {
			var s string
			if json.Unmarshal(item, &s) == nil {
				if s != "" {
					out = append(out, s)
				}
				continue
			}
			var obj map[string]json.RawMessage
			if json.Unmarshal(item, &obj) != nil {
				continue
			}
			switch {
			case stringField(obj, "url") != "":
				out = append(out, stringField(obj, "url"))
			case stringField(obj, "base64") != "":
				out = append(out, dataURL(stringField(obj, "base64")))
			case stringField(obj, "b64") != "":
				out = append(out, dataURL(stringField(obj, "b64")))
			}
		}
		return out
	}

	for _, item := range data {
		var obj map[string]json.RawMessage
		if json.Unmarshal(item, &obj) != nil {
			continue
		}
		switch {
		case stringField(obj, "url") != "":
			out = append(out, stringField(obj, "url"))
		case stringField(obj, "b64_json") != "":
			out = append(out, dataURL(stringField(obj, "b64_json")))
		}
	}
	return out
}
