package platform

import (
	"context"
	"fmt"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/go-resty/resty/v2"
)

// PublishRequest carries everything an adapter needs for one external call.
// MediaMimeTypes is parallel to MediaURLs.
type PublishRequest struct {
	AccessToken    string
	Caption        string
	MediaURLs      []string
	MediaMimeTypes []string
	// Address is the platform-specific target, e.g. a Facebook page id or an
	// Instagram business account id.
	Address string
}

// PublishResult is the normalized success shape across platforms. PostURL is
// empty when the platform cannot provide one in the immediate response.
type PublishResult struct {
	ExternalID string
	PostURL    string
}

type Publisher interface {
	Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error)
}

// Selector picks the adapter for a platform. The worker depends on this
// interface so tests can substitute fakes.
type Selector interface {
	ForPlatform(p models.Platform) (Publisher, error)
}

type Registry struct {
	facebook  Publisher
	instagram Publisher
	tiktok    Publisher
	twitter   Publisher
}

func NewRegistry(client *resty.Client) *Registry {
	return &Registry{
		facebook:  NewFacebookAdapter(client),
		instagram: NewInstagramAdapter(client),
		tiktok:    NewTiktokAdapter(client),
		twitter:   NewTwitterAdapter(client),
	}
}

func (r *Registry) ForPlatform(p models.Platform) (Publisher, error) {
	switch p {
	case models.PlatformFacebook:
		return r.facebook, nil
	case models.PlatformInstagram:
		return r.instagram, nil
	case models.PlatformTiktok:
		return r.tiktok, nil
	case models.PlatformTwitter:
		return r.twitter, nil
	}
	return nil, fmt.Errorf("no adapter registered for platform %q", p)
}
