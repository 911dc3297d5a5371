package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/transfer"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookPublishesPhotoWhenMediaPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page123/photos", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "https://cdn.example.com/a.jpg", r.FormValue("url"))
		assert.Equal(t, "summer sale", r.FormValue("caption"))
		assert.Equal(t, "token", r.FormValue("access_token"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transfer.FacebookPublishResponse{
			ID:     "987",
			PostID: "page123_987",
		})
	}))
	defer srv.Close()

	adapter := &facebookAdapter{client: resty.New(), baseURL: srv.URL}

	result, err := adapter.Publish(context.Background(), &PublishRequest{
		AccessToken:    "token",
		Caption:        "summer sale",
		MediaURLs:      []string{"https://cdn.example.com/a.jpg"},
		MediaMimeTypes: []string{"image/jpeg"},
		Address:        "page123",
	})

	require.NoError(t, err)
	assert.Equal(t, "page123_987", result.ExternalID)
	assert.Equal(t, "https://www.facebook.com/page123_987", result.PostURL)
}

func TestFacebookPublishesFeedPostWithoutMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page123/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "summer sale", r.FormValue("message"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transfer.FacebookPublishResponse{ID: "page123_555"})
	}))
	defer srv.Close()

	adapter := &facebookAdapter{client: resty.New(), baseURL: srv.URL}

	result, err := adapter.Publish(context.Background(), &PublishRequest{
		AccessToken: "token",
		Caption:     "summer sale",
		Address:     "page123",
	})

	require.NoError(t, err)
	assert.Equal(t, "page123_555", result.ExternalID)
	assert.Equal(t, "https://www.facebook.com/page123_555", result.PostURL)
}

func TestFacebookNormalizesGraphErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(transfer.FacebookErrorResponse{
			Error: transfer.FacebookError{
				Message:   "Invalid OAuth access token",
				Type:      "OAuthException",
				Code:      190,
				FbtraceID: "AbCdEf",
			},
		})
	}))
	defer srv.Close()

	adapter := &facebookAdapter{client: resty.New(), baseURL: srv.URL}

	_, err := adapter.Publish(context.Background(), &PublishRequest{
		AccessToken: "expired",
		Caption:     "summer sale",
		Address:     "page123",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "facebook")
	assert.Contains(t, err.Error(), "190")
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
	assert.Contains(t, err.Error(), "AbCdEf")
}

func TestFacebookRequiresPageID(t *testing.T) {
	adapter := &facebookAdapter{client: resty.New(), baseURL: "http://unreachable.invalid"}

	_, err := adapter.Publish(context.Background(), &PublishRequest{
		AccessToken: "token",
		Caption:     "summer sale",
	})

	assert.Error(t, err)
}

func TestRegistryCoversEveryPlatform(t *testing.T) {
	registry := NewRegistry(resty.New())

	for _, platformKey := range []models.Platform{
		models.PlatformFacebook,
		models.PlatformInstagram,
		models.PlatformTiktok,
		models.PlatformTwitter,
	} {
		publisher, err := registry.ForPlatform(platformKey)
		require.NoError(t, err)
		assert.NotNil(t, publisher)
	}

	_, err := registry.ForPlatform("myspace")
	assert.Error(t, err)
}
