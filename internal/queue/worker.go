package queue

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/platform"
	"github.com/MathengeNewton/socialCommerce-sub000/pkg/utils"
	"github.com/hibiken/asynq"
)

func (w *Worker) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishJobPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)
	return w.ProcessJob(ctx, &payload, retried >= maxRetry)
}

// ProcessJob publishes one post to one destination. A returned error hands
// the job back to the queue's retry/backoff machinery; the destination row
// already holds the outcome either way. lastAttempt marks the delivery
// after which the queue archives instead of retrying.
func (w *Worker) ProcessJob(ctx context.Context, job *PublishJobPayload, lastAttempt bool) error {
	if err := w.limiter.Allow(ctx, job.Platform); err != nil {
		if lastAttempt {
			// No retry is coming; the row must not stay publishing.
			w.recordFailure(ctx, job, err)
			return err
		}
		// Retryable; the server's retry delay reattempts in the next window.
		return err
	}

	accessToken := job.AccessToken
	if utils.IsEncryptedToken(accessToken) {
		decrypted, err := utils.DecryptToken(accessToken, w.secretKey)
		if err != nil {
			w.recordFailure(ctx, job, err)
			return err
		}
		accessToken = decrypted
	}

	publisher, err := w.platforms.ForPlatform(job.Platform)
	if err != nil {
		w.recordFailure(ctx, job, err)
		return err
	}

	result, err := publisher.Publish(ctx, &platform.PublishRequest{
		AccessToken:    accessToken,
		Caption:        job.Caption,
		MediaURLs:      job.MediaURLs,
		MediaMimeTypes: job.MediaMimeTypes,
		Address:        job.PlatformAddress,
	})
	if err != nil {
		w.recordFailure(ctx, job, err)
		return err
	}

	if err := w.pd.MarkPublished(ctx, job.PostID, job.DestinationID, result.ExternalID, result.PostURL); err != nil {
		return err
	}

	w.recomputePostStatus(ctx, job.PostID)
	return nil
}

func (w *Worker) recordFailure(ctx context.Context, job *PublishJobPayload, cause error) {
	log.Printf("Error publishing post %d to %s destination %d: %v", job.PostID, job.Platform, job.DestinationID, cause)

	if err := w.pd.MarkFailed(ctx, job.PostID, job.DestinationID, cause.Error()); err != nil {
		slog.Info(err.Error())
	}

	w.recomputePostStatus(ctx, job.PostID)
}

// recomputePostStatus re-derives the post's aggregate status from its
// destination rows.
func (w *Worker) recomputePostStatus(ctx context.Context, postID int64) {
	statuses, err := w.pd.ListStatuses(ctx, postID)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	status, decided := models.ReduceDestinationStatuses(statuses)
	if !decided {
		// Destinations are still in flight; the post stays publishing.
		return
	}

	changed, err := w.pr.UpdateStatusIf(ctx, status, postID)
	if err != nil {
		slog.Info(err.Error())
		return
	}
	if changed && status == models.PostStatusPublished {
		w.recordPublishUsage(ctx, postID, len(statuses))
	}
}

func (w *Worker) recordPublishUsage(ctx context.Context, postID int64, destinationCount int) {
	post, err := w.pr.GetByID(ctx, postID)
	if err != nil || post == nil {
		if err != nil {
			slog.Info(err.Error())
		}
		return
	}

	w.usage.RecordUsage(ctx, post.TenantID, post.ClientID, "post_published", 1, map[string]any{
		"post_id":      postID,
		"destinations": destinationCount,
	})
}
