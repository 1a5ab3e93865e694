package generate

import (
	"context"
	"veronikaextra-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

type Batch struct {
	Images []string
	// Unique is the number of distinct images before padding.
	Unique   int
	Attempts int
}

// CollectImages asks the provider for count images, topping up at most
// domain.MaxTopUpAttempts times when it returns fewer. Only the first call's
// error is returned; a failing top-up ends the loop with what was collected.
func CollectImages(ctx context.Context, provider ImageProvider, prompt string, count int, pad bool) (*Batch, error) {
	first, err := provider.Generate(ctx, prompt, count)
	if err != nil {
		return nil, err
	}

	batch := &Batch{}
	seen := make(map[string]struct{}, count)
	add := func(urls []string) {
		for _, u := range urls {
			if len(batch.Images) >= count {
				return
			}
			if _, ok := seen[u]; ok || u == "" {
				continue
			}
			seen[u] = struct{}{}
			batch.Images = append(batch.Images, u)
		}
	}
	add(first)

	for len(batch.Images) < count && batch.Attempts < domain.MaxTopUpAttempts {
		if ctx.Err() != nil {
			break
		}
		batch.Attempts++
		remaining := count - len(batch.Images)
		log.Infof("top-up attempt %d for %d more images", batch.Attempts, remaining)

		more, err := provider.Generate(ctx, prompt, remaining)
		if err != nil {
			log.Warnf("top-up attempt %d failed: %v", batch.Attempts, err)
			break
		}
		add(more)
	}

	batch.Unique = len(batch.Images)
	if batch.Unique == 0 {
		return nil, domain.ErrNoImages
	}

	if pad {
		for i := 0; len(batch.Images) < count; i++ {
			batch.Images = append(batch.Images, batch.Images[batch.Unique-1-(i%batch.Unique)])
		}
	}
	return batch, nil
}
