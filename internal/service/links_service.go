package service

import (
	"fmt"
	"log/slog"

	config "github.com/MathengeNewton/socialCommerce-sub000/configs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type LinksService interface {
	NewRef() string
	BuildLink(slug, ref string, platform models.Platform) string
	AppendToCaption(caption, link string, platform models.Platform, include bool) string
}

type linksService struct {
	cfg config.Config
}

func NewLinksService(cfg config.Config) LinksService {
	return &linksService{cfg: cfg}
}

// NewRef mints the tracking code shared by every destination of one post.
func (s *linksService) NewRef() string {
	ref, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "direct"
	}
	return ref
}

func (s *linksService) BuildLink(slug, ref string, platform models.Platform) string {
	return fmt.Sprintf("https://%s/p/%s?ref=%s&utm_source=%s", s.cfg.ShopDomain, slug, ref, platform)
}

// AppendToCaption merges the trackable link into the caption following each
// platform's convention. Twitter gets a single newline to spare characters;
// Instagram and TikTok captions don't render links, so the URL is labeled.
func (s *linksService) AppendToCaption(caption, link string, platform models.Platform, include bool) string {
	if !include || link == "" {
		return caption
	}

	switch platform {
	case models.PlatformTwitter:
		return caption + "\n" + link
	case models.PlatformInstagram, models.PlatformTiktok:
		return caption + "\n\nShop: " + link
	default:
		return caption + "\n\n" + link
	}
}
