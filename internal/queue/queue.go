package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/hibiken/asynq"
)

// Client wraps the asynq client behind the Enqueuer contract.
type Client struct {
	asynqClient *asynq.Client
	maxRetry    int
}

func NewClient(asynqClient *asynq.Client, maxRetry int) *Client {
	return &Client{asynqClient: asynqClient, maxRetry: maxRetry}
}

func (c *Client) EnqueuePublishJob(ctx context.Context, payload PublishJobPayload) error {
	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskTypePublishPost, taskPayload)

	_, err = c.asynqClient.EnqueueContext(ctx, task,
		asynq.TaskID(JobKey(payload.PostID, payload.DestinationID)),
		asynq.MaxRetry(c.maxRetry),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// The same (post, destination) job is already queued or running;
		// enqueueing again would duplicate the external call.
		log.Printf("Publish job %s already in flight, skipping enqueue", JobKey(payload.PostID, payload.DestinationID))
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Publish job enqueued: post=%d destination=%d platform=%s", payload.PostID, payload.DestinationID, payload.Platform)
	return nil
}
