package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/go-resty/resty/v2"
)

const twitterAPIURL = "https://api.twitter.com/2"

type twitterAdapter struct {
	client  *resty.Client
	baseURL string
}

func NewTwitterAdapter(client *resty.Client) Publisher {
	return &twitterAdapter{client: client, baseURL: twitterAPIURL}
}

// Publish creates a text tweet. Media attachment needs the separate chunked
// upload endpoint and is not wired here.
func (a *twitterAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	var result transfer.TweetResponse
	var apiErr transfer.TwitterErrorResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(req.AccessToken).
		SetBody(transfer.TweetRequest{Text: req.Caption}).
		SetResult(&result).
		SetError(&apiErr).
		Post(a.baseURL + "/tweets")
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("twitter: request failed: %w", err)
	}

	if resp.IsError() {
		return nil, normalizeError("twitter", apiErr.Status, apiErr.Detail, "")
	}

	return &PublishResult{
		ExternalID: result.Data.ID,
		PostURL:    fmt.Sprintf("https://twitter.com/i/web/status/%s", result.Data.ID),
	}, nil
}
