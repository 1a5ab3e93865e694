package generate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"veronikaextra-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays one response per call; the last one repeats.
type scriptedProvider struct {
	mu        sync.Mutex
	responses [][]string
	errs      []error
	requested []int
}

func (p *scriptedProvider) Configured() bool { return true }

func (p *scriptedProvider) Generate(_ context.Context, _ string, count int) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := len(p.requested)
	p.requested = append(p.requested, count)
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return p.responses[i], nil
}

func urls(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("https://a4f.co/%s%d.png", prefix, i)
	}
	return out
}

func TestCollectImagesFullBatch(t *testing.T) {
	p := &scriptedProvider{responses: [][]string{urls("a", 4)}}

	batch, err := CollectImages(context.Background(), p, "fox", 4, true)
	require.NoError(t, err)
	assert.Equal(t, urls("a", 4), batch.Images)
	assert.Equal(t, 4, batch.Unique)
	assert.Equal(t, []int{4}, p.requested)
}

func TestCollectImagesTopsUpRemainder(t *testing.T) {
	p := &scriptedProvider{responses: [][]string{
		urls("a", 1),
		append(urls("a", 1), urls("b", 2)...),
	}}

	batch, err := CollectImages(context.Background(), p, "fox", 3, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a4f.co/a0.png", "https://a4f.co/b0.png", "https://a4f.co/b1.png"}, batch.Images)
	assert.Equal(t, []int{3, 2}, p.requested)
	assert.Equal(t, 1, batch.Attempts)
}

func TestCollectImagesStopsAfterThreeTopUps(t *testing.T) {
	p := &scriptedProvider{responses: [][]string{urls("a", 2)}}

	batch, err := CollectImages(context.Background(), p, "fox", 4, false)
	require.NoError(t, err)
	assert.Equal(t, urls("a", 2), batch.Images)
	assert.Equal(t, 2, batch.Unique)
	assert.Equal(t, domain.MaxTopUpAttempts, batch.Attempts)
	assert.Len(t, p.requested, 1+domain.MaxTopUpAttempts)
}

func TestCollectImagesPadsFromLastBackwards(t *testing.T) {
	p := &scriptedProvider{responses: [][]string{urls("a", 2)}}

	batch, err := CollectImages(context.Background(), p, "fox", 5, true)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Unique)
	assert.Equal(t, []string{
		"https://a4f.co/a0.png",
		"https://a4f.co/a1.png",
		"https://a4f.co/a1.png",
		"https://a4f.co/a0.png",
		"https://a4f.co/a1.png",
	}, batch.Images)
}

func TestCollectImagesFailedTopUpKeepsPartial(t *testing.T) {
	p := &scriptedProvider{
		responses: [][]string{urls("a", 1)},
		errs:      []error{nil, &ProviderError{Status: 500, Message: "boom"}},
	}

	batch, err := CollectImages(context.Background(), p, "fox", 3, false)
	require.NoError(t, err)
	assert.Equal(t, urls("a", 1), batch.Images)
	assert.Len(t, p.requested, 2)
}

func TestCollectImagesFirstCallError(t *testing.T) {
	boom := errors.New("boom")
	p := &scriptedProvider{responses: [][]string{nil}, errs: []error{boom}}

	_, err := CollectImages(context.Background(), p, "fox", 3, true)
	assert.ErrorIs(t, err, boom)
}

func TestCollectImagesNothingDelivered(t *testing.T) {
	p := &scriptedProvider{responses: [][]string{{}}}

	_, err := CollectImages(context.Background(), p, "fox", 2, true)
	assert.ErrorIs(t, err, domain.ErrNoImages)
	assert.Len(t, p.requested, 1+domain.MaxTopUpAttempts)
}
