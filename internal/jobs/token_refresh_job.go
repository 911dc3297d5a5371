package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	config "github.com/MathengeNewton/socialCommerce-sub000/configs"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
	"github.com/MathengeNewton/socialCommerce-sub000/pkg/utils"
	"golang.org/x/oauth2"
)

// TokenRefreshJob refreshes integration tokens that expire within the next
// half hour, so queued publish jobs never pick up a token about to lapse.
type TokenRefreshJob struct {
	cfg config.Config
	ir  repository.IntegrationRepository
}

func NewTokenRefreshJob(cfg config.Config, ir repository.IntegrationRepository) *TokenRefreshJob {
	return &TokenRefreshJob{cfg: cfg, ir: ir}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	integrations, err := c.ir.ListByExpiryInterval(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, integration := range integrations {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(integration *models.Integration) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := c.refresh(ctx, integration); err != nil {
				slog.Info("Unable to refresh tokens for " + string(integration.Provider))
			}
		}(integration)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refresh(ctx context.Context, integration *models.Integration) error {
	conf, ok := c.oauthConfig(integration.Provider)
	if !ok || integration.RefreshToken == "" {
		return nil
	}

	refreshToken, err := utils.DecryptToken(integration.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.EncryptToken(token.AccessToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	newRefreshToken := token.RefreshToken
	if newRefreshToken == "" {
		newRefreshToken = refreshToken
	}
	encryptedRefreshToken, err := utils.EncryptToken(newRefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		return err
	}

	return c.ir.SetTokens(ctx, integration.ID, encryptedAccessToken, encryptedRefreshToken, token.Expiry)
}

func (c *TokenRefreshJob) oauthConfig(provider models.Platform) (*oauth2.Config, bool) {
	switch provider {
	case models.PlatformFacebook, models.PlatformInstagram:
		return &oauth2.Config{
			ClientID:     c.cfg.FacebookClientID,
			ClientSecret: c.cfg.FacebookClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: "https://graph.facebook.com/v19.0/oauth/access_token"},
		}, true
	case models.PlatformTiktok:
		return &oauth2.Config{
			ClientID:     c.cfg.TiktokClientKey,
			ClientSecret: c.cfg.TiktokClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: "https://open.tiktokapis.com/v2/oauth/token/"},
		}, true
	case models.PlatformTwitter:
		return &oauth2.Config{
			ClientID:     c.cfg.TwitterClientID,
			ClientSecret: c.cfg.TwitterClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: "https://api.twitter.com/2/oauth2/token"},
		}, true
	}
	return nil, false
}
