package transfer

import (
	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

type ScheduleRequest struct {
	ScheduledAt string `json:"scheduled_at"` // RFC 3339
}

type PostCreation struct {
	ClientID      int64             `json:"client_id"`
	ScheduledAt   string            `json:"scheduled_at,omitempty"` // RFC 3339
	Captions      []CaptionInput    `json:"captions"`
	MediaAssetIDs []int64           `json:"media_asset_ids"`
	Destinations  []DestinationPick `json:"destinations"`
}

type CaptionInput struct {
	Platform    models.Platform `json:"platform"`
	Caption     string          `json:"caption"`
	Hashtags    string          `json:"hashtags,omitempty"`
	IncludeLink bool            `json:"include_link"`
}

type DestinationPick struct {
	DestinationID int64   `json:"destination_id"`
	MediaIDs      []int64 `json:"media_ids,omitempty"`
}

type CustomClaims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}
