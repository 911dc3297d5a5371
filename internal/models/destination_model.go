package models

import (
	"time"

	"github.com/lib/pq"
)

// Destination is a connected external account (a Facebook Page, a TikTok
// profile) that belongs to exactly one Integration.
type Destination struct {
	ID            int64     `db:"id" json:"id"`
	TenantID      int64     `db:"tenant_id" json:"tenant_id"`
	IntegrationID int64     `db:"integration_id" json:"integration_id"`
	Platform      Platform  `db:"platform" json:"platform"`
	ExternalID    string    `db:"external_id" json:"external_id"`
	Name          string    `db:"name" json:"name"`
	AccessToken   string    `db:"access_token" json:"-"` // page-scoped token, empty when the integration token applies
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Integration is the OAuth-authorized provider connection one or more
// destinations hang off. Tokens are stored encrypted.
type Integration struct {
	ID             int64     `db:"id" json:"id"`
	TenantID       int64     `db:"tenant_id" json:"tenant_id"`
	Provider       Platform  `db:"provider" json:"provider"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// PostDestination joins one post to one destination and carries the
// per-destination publishing outcome.
type PostDestination struct {
	PostID         int64         `db:"post_id" json:"post_id"`
	DestinationID  int64         `db:"destination_id" json:"destination_id"`
	Status         string        `db:"status" json:"status"` // draft, publishing, published, failed
	ExternalPostID string        `db:"external_post_id" json:"external_post_id"`
	PostURL        string        `db:"post_url" json:"post_url"`
	Error          string        `db:"error" json:"error"`
	MediaIDs       pq.Int64Array `db:"media_ids" json:"media_ids"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

const (
	DestinationStatusDraft      = "draft"
	DestinationStatusPublishing = "publishing"
	DestinationStatusPublished  = "published"
	DestinationStatusFailed     = "failed"
)
