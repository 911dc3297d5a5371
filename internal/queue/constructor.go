package queue

import (
	"context"
	"fmt"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/platform"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/ratelimit"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
)

const TaskTypePublishPost = "publish:post"

// PublishJobPayload is the unit of work delivered to a worker: one post on
// one destination. It is reconstructable from the post row and collaborator
// calls, which is what makes queue redelivery safe.
type PublishJobPayload struct {
	PostID          int64           `json:"post_id"`
	DestinationID   int64           `json:"destination_id"`
	Platform        models.Platform `json:"platform"`
	Caption         string          `json:"caption"`
	MediaURLs       []string        `json:"media_urls"`
	MediaMimeTypes  []string        `json:"media_mime_types"`
	AccessToken     string          `json:"access_token"`
	IntegrationID   int64           `json:"integration_id"`
	PlatformAddress string          `json:"platform_address,omitempty"`
}

// JobKey is the idempotency boundary: one (post, destination) pair is never
// meaningfully in flight twice at once.
func JobKey(postID, destinationID int64) string {
	return fmt.Sprintf("%d-%d", postID, destinationID)
}

// Enqueuer is the narrow queue contract the orchestrator depends on.
type Enqueuer interface {
	EnqueuePublishJob(ctx context.Context, payload PublishJobPayload) error
}

// RateLimiter gates a worker's adapter call per platform.
type RateLimiter interface {
	Allow(ctx context.Context, platform models.Platform) error
}

// UsageRecorder is the billing collaborator; see service.BillingService.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, tenantID, clientID int64, usageType string, quantity int, metadata map[string]any)
}

type Worker struct {
	pr        repository.PostRepository
	pd        repository.PostDestinationRepository
	limiter   RateLimiter
	platforms platform.Selector
	usage     UsageRecorder
	secretKey []byte
}

func NewWorker(
	pr repository.PostRepository,
	pd repository.PostDestinationRepository,
	limiter RateLimiter,
	platforms platform.Selector,
	usage UsageRecorder,
	secretKey []byte) *Worker {
	return &Worker{
		pr:        pr,
		pd:        pd,
		limiter:   limiter,
		platforms: platforms,
		usage:     usage,
		secretKey: secretKey,
	}
}

var _ RateLimiter = (*ratelimit.Limiter)(nil)
