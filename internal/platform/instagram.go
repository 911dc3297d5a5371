package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/go-resty/resty/v2"
)

const instagramGraphURL = "https://graph.facebook.com/v19.0"

type instagramAdapter struct {
	client  *resty.Client
	baseURL string
}

func NewInstagramAdapter(client *resty.Client) Publisher {
	return &instagramAdapter{client: client, baseURL: instagramGraphURL}
}

// Publish creates a media container for the first image URL and publishes it.
// Instagram requires media; a caption-only request is rejected up front.
func (a *instagramAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	if req.Address == "" {
		return nil, fmt.Errorf("instagram: missing business account id")
	}
	if len(req.MediaURLs) == 0 {
		return nil, fmt.Errorf("instagram: at least one media item is required")
	}

	containerID, err := a.createContainer(ctx, req)
	if err != nil {
		return nil, err
	}

	var result transfer.InstagramPublishResponse
	var apiErr transfer.InstagramErrorResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"creation_id":  containerID,
			"access_token": req.AccessToken,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/media_publish", a.baseURL, req.Address))
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("instagram: request failed: %w", err)
	}

	if resp.IsError() {
		return nil, normalizeError("instagram", apiErr.Error.Code, apiErr.Error.Message, apiErr.Error.FbtraceID)
	}

	// The permalink requires a follow-up media lookup; not resolved here.
	return &PublishResult{ExternalID: result.ID}, nil
}

func (a *instagramAdapter) createContainer(ctx context.Context, req *PublishRequest) (string, error) {
	var result transfer.InstagramContainerResponse
	var apiErr transfer.InstagramErrorResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"image_url":    req.MediaURLs[0],
			"caption":      req.Caption,
			"access_token": req.AccessToken,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(fmt.Sprintf("%s/%s/media", a.baseURL, req.Address))
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("instagram: container request failed: %w", err)
	}

	if resp.IsError() {
		return "", normalizeError("instagram", apiErr.Error.Code, apiErr.Error.Message, apiErr.Error.FbtraceID)
	}

	return result.ID, nil
}
