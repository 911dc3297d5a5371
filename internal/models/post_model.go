package models

import "time"

type Post struct {
	ID          int64      `db:"id" json:"id"`
	TenantID    int64      `db:"tenant_id" json:"tenant_id"`
	ClientID    int64      `db:"client_id" json:"client_id"`
	Status      string     `db:"status" json:"status"` // draft, scheduled, publishing, published, failed
	ScheduledAt *time.Time `db:"scheduled_at" json:"scheduled_at"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

type Caption struct {
	PostID      int64    `db:"post_id" json:"post_id"`
	Platform    Platform `db:"platform" json:"platform"`
	Caption     string   `db:"caption" json:"caption"`
	Hashtags    string   `db:"hashtags" json:"hashtags"`
	IncludeLink bool     `db:"include_link" json:"include_link"`
}

type MediaAsset struct {
	ID        int64     `db:"id"`
	TenantID  int64     `db:"tenant_id"`
	FileName  string    `db:"file_name"`
	FileType  string    `db:"file_type"`
	FileSize  int64     `db:"file_size"`
	CreatedAt time.Time `db:"created_at"`
}

type PostMedia struct {
	PostID       int64     `db:"post_id"`
	AssetID      int64     `db:"asset_id"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}

const (
	PostStatusDraft      = "draft"
	PostStatusScheduled  = "scheduled"
	PostStatusPublishing = "publishing"
	PostStatusPublished  = "published"
	PostStatusFailed     = "failed"
)

// ReduceDestinationStatuses derives the post-level status from its
// destination rows: published when every row is published, failed when at
// least one row failed and none is still publishing. The bool reports
// whether the rows decide an aggregate; rows still in flight leave the post
// as it is. Reading current rows rather than counting events keeps
// concurrent recomputations convergent.
func ReduceDestinationStatuses(statuses []string) (string, bool) {
	if len(statuses) == 0 {
		return "", false
	}

	published := 0
	failed := 0
	inFlight := 0
	for _, status := range statuses {
		switch status {
		case DestinationStatusPublished:
			published++
		case DestinationStatusFailed:
			failed++
		case DestinationStatusPublishing:
			inFlight++
		}
	}

	switch {
	case published == len(statuses):
		return PostStatusPublished, true
	case failed > 0 && inFlight == 0:
		return PostStatusFailed, true
	}
	return "", false
}
