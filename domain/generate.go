package domain

import (
	"errors"
)

const (
	MinImagesPerRequest = 1
	MaxImagesPerRequest = 6
	MaxTopUpAttempts    = 3
)

var (
	MessageSuccessGenerate  = "images generated successfully"
	MessageFailedGenerate   = "Failed to generate image."
	MessageFailedProxyImage = "failed to proxy image"
	MessageUpstreamImageErr = "Upstream image error"
	MessageImageProviderErr = "Image provider error"

	ErrInvalidPrompt             = errors.New("Invalid prompt")
	ErrNoImages                  = errors.New("Image provider returned no images")
	ErrMalformedProviderResponse = errors.New("Malformed provider response")
	ErrProviderNotConfigured     = errors.New("Missing A4F_API_KEY")
	ErrMissingURL                = errors.New("Missing url")
	ErrInvalidURL                = errors.New("Invalid url")
	ErrForbiddenHost             = errors.New("Forbidden host")
	ErrImageTooLarge             = errors.New("Upstream image too large")
)

type (
	GenerateRequest struct {
		Prompt         string `json:"prompt" validate:"required,max=4000"`
		NumberOfImages int    `json:"numberOfImages"`
	}

	GenerateResponse struct {
		Images     []string `json:"images"`
		NewCredits int      `json:"newCredits"`
	}
)

// ClampImageCount bounds a requested image count to the supported range.
// Zero or negative requests are treated as a single image.
func ClampImageCount(n int) int {
	if n < MinImagesPerRequest {
		return MinImagesPerRequest
	}
	if n > MaxImagesPerRequest {
		return MaxImagesPerRequest
	}
	return n
}
