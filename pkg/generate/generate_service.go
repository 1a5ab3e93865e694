package generate

import (
	"context"
	"strings"
	"veronikaextra-backend/domain"
	"veronikaextra-backend/pkg/credit"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	GenerateService interface {
		Generate(ctx context.Context, userID string, req domain.GenerateRequest) (*domain.GenerateResponse, error)
		ProxyImage(ctx context.Context, rawURL string) (*ProxiedImage, error)
	}

	generateService struct {
		creditService credit.CreditService
		provider      ImageProvider
		proxy         ImageProxy
		imageCost     int
		padShortBatch bool
	}
)

func NewGenerateService(
	creditService credit.CreditService,
	provider ImageProvider,
	proxy ImageProxy,
	imageCost int,
	padShortBatch bool,
) GenerateService {
	return &generateService{
		creditService: creditService,
		provider:      provider,
		proxy:         proxy,
		imageCost:     imageCost,
		padShortBatch: padShortBatch,
	}
}

// Generate reserves the full cost before calling the provider and refunds
// whatever was not delivered.
func (s *generateService) Generate(ctx context.Context, userID string, req domain.GenerateRequest) (*domain.GenerateResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, domain.ErrInvalidPrompt
	}
	if !s.provider.Configured() {
		return nil, domain.ErrProviderNotConfigured
	}

	count := domain.ClampImageCount(req.NumberOfImages)
	cost := s.imageCost * count
	reference := uuid.NewString()

	balance, err := s.creditService.Reserve(ctx, userID, cost, domain.FeatureImageGeneration, reference)
	if err != nil {
		return nil, err
	}

	batch, err := CollectImages(ctx, s.provider, prompt, count, s.padShortBatch)
	if err != nil {
		// refund even when the request was cancelled
		if _, refundErr := s.creditService.Refund(context.WithoutCancel(ctx), userID, cost, reference); refundErr != nil {
			log.Errorf("failed to refund %d credits to user %s for %s: %v", cost, userID, reference, refundErr)
		}
		return nil, err
	}

	// padded duplicates are delivered images and stay charged
	if shortfall := count - len(batch.Images); shortfall > 0 {
		balance, err = s.creditService.Refund(context.WithoutCancel(ctx), userID, shortfall*s.imageCost, reference)
		if err != nil {
			log.Errorf("failed to refund shortfall of %d images to user %s: %v", shortfall, userID, err)
			return nil, err
		}
	}

	return &domain.GenerateResponse{
		Images:     batch.Images,
		NewCredits: balance,
	}, nil
}

func (s *generateService) ProxyImage(ctx context.Context, rawURL string) (*ProxiedImage, error) {
	return s.proxy.Fetch(ctx, rawURL)
}
