package generate

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"veronikaextra-backend/domain"
)

const maxProxiedImageBytes = 25 << 20

type (
	ProxiedImage struct {
		ContentType string
		Body        []byte
	}

	UpstreamError struct {
		Status int
	}

	ImageProxy interface {
		Fetch(ctx context.Context, rawURL string) (*ProxiedImage, error)
	}

	imageProxy struct {
		httpClient   *http.Client
		allowedHosts map[string]struct{}
		maxBytes     int64
	}
)

func (e *UpstreamError) Error() string {
	return domain.MessageUpstreamImageErr
}

func NewImageProxy(allowedHosts []string) ImageProxy {
	hosts := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		hosts[strings.ToLower(h)] = struct{}{}
	}
	return &imageProxy{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		allowedHosts: hosts,
		maxBytes:     maxProxiedImageBytes,
	}
}

// ValidateURL accepts only https URLs on an allowlisted host.
func (p *imageProxy) ValidateURL(rawURL string) (*url.URL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, domain.ErrMissingURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, domain.ErrInvalidURL
	}
	if parsed.Scheme != "https" {
		return nil, domain.ErrForbiddenHost
	}
	if _, ok := p.allowedHosts[strings.ToLower(parsed.Hostname())]; !ok {
		return nil, domain.ErrForbiddenHost
	}
	return parsed, nil
}

func (p *imageProxy) Fetch(ctx context.Context, rawURL string) (*ProxiedImage, error) {
	parsed, err := p.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > p.maxBytes {
		return nil, domain.ErrImageTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return &ProxiedImage{ContentType: contentType, Body: body}, nil
}
