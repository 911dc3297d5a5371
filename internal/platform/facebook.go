package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/go-resty/resty/v2"
)

const facebookGraphURL = "https://graph.facebook.com/v19.0"

type facebookAdapter struct {
	client  *resty.Client
	baseURL string
}

func NewFacebookAdapter(client *resty.Client) Publisher {
	return &facebookAdapter{client: client, baseURL: facebookGraphURL}
}

// Publish posts the first media URL as a photo with the caption attached, or
// a plain feed post when the post has no media.
func (a *facebookAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	if req.Address == "" {
		return nil, fmt.Errorf("facebook: missing page id")
	}

	var endpoint string
	form := map[string]string{
		"access_token": req.AccessToken,
	}

	if len(req.MediaURLs) > 0 {
		endpoint = fmt.Sprintf("%s/%s/photos", a.baseURL, req.Address)
		form["url"] = req.MediaURLs[0]
		form["caption"] = req.Caption
	} else {
		endpoint = fmt.Sprintf("%s/%s/feed", a.baseURL, req.Address)
		form["message"] = req.Caption
	}

	var result transfer.FacebookPublishResponse
	var apiErr transfer.FacebookErrorResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(&result).
		SetError(&apiErr).
		Post(endpoint)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("facebook: request failed: %w", err)
	}

	if resp.IsError() {
		return nil, normalizeError("facebook", apiErr.Error.Code, apiErr.Error.Message, apiErr.Error.FbtraceID)
	}

	// /photos returns both the photo id and the owning post id; the post id
	// is the one that resolves on www.facebook.com.
	externalID := result.PostID
	if externalID == "" {
		externalID = result.ID
	}

	return &PublishResult{
		ExternalID: externalID,
		PostURL:    fmt.Sprintf("https://www.facebook.com/%s", externalID),
	}, nil
}
