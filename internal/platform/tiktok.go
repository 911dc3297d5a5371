package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/go-resty/resty/v2"
)

const tiktokOpenAPIURL = "https://open.tiktokapis.com/v2"

var ErrNoVideoMedia = errors.New("tiktok requires at least one video media item")

type tiktokAdapter struct {
	client  *resty.Client
	baseURL string
}

func NewTiktokAdapter(client *resty.Client) Publisher {
	return &tiktokAdapter{client: client, baseURL: tiktokOpenAPIURL}
}

// Publish runs TikTok's two-step protocol: query creator info for the
// allowed privacy levels, then initiate a pull-from-URL video post. The init
// call only returns a publish id; the canonical post URL would need a later
// status poll against /post/publish/status/fetch/, which is not implemented,
// so PostURL stays empty.
func (a *tiktokAdapter) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	videoURL := firstVideoURL(req.MediaURLs, req.MediaMimeTypes)
	if videoURL == "" {
		return nil, ErrNoVideoMedia
	}

	privacyLevel, err := a.queryCreatorInfo(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}

	initRequest := transfer.TiktokVideoInitRequest{
		PostInfo: transfer.TiktokVideoPostInfo{
			Title:                 req.Caption,
			PrivacyLevel:          privacyLevel,
			VideoCoverTimestampMs: 1000,
		},
		SourceInfo: transfer.TiktokVideoSourceInfo{
			Source:   "PULL_FROM_URL",
			VideoURL: videoURL,
		},
	}

	var result transfer.TiktokVideoInitResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(req.AccessToken).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetBody(initRequest).
		SetResult(&result).
		SetError(&result).
		Post(a.baseURL + "/post/publish/video/init/")
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("tiktok: request failed: %w", err)
	}

	if resp.IsError() || result.Error.IsError() {
		return nil, normalizeError("tiktok", result.Error.Code, result.Error.Message, result.Error.LogID)
	}

	return &PublishResult{ExternalID: result.Data.PublishID}, nil
}

func (a *tiktokAdapter) queryCreatorInfo(ctx context.Context, accessToken string) (string, error) {
	var result transfer.TiktokCreatorInfoResponse

	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetResult(&result).
		SetError(&result).
		Post(a.baseURL + "/post/publish/creator_info/query/")
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("tiktok: creator info query failed: %w", err)
	}

	if resp.IsError() || result.Error.IsError() {
		return "", normalizeError("tiktok", result.Error.Code, result.Error.Message, result.Error.LogID)
	}

	return pickPrivacyLevel(result.Data.PrivacyLevelOptions), nil
}

// pickPrivacyLevel prefers a public post, falls back to whatever the creator
// is allowed, and stays private when the options are unknown.
func pickPrivacyLevel(options []string) string {
	for _, option := range options {
		if option == "PUBLIC_TO_EVERYONE" {
			return option
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return "SELF_ONLY"
}

func firstVideoURL(mediaURLs, mimeTypes []string) string {
	for i, url := range mediaURLs {
		if i < len(mimeTypes) && strings.HasPrefix(mimeTypes[i], "video/") {
			return url
		}
	}
	return ""
}
