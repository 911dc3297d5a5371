package models

import "time"

type Product struct {
	ID        int64     `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	Slug      string    `db:"slug" json:"slug"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type PostProduct struct {
	PostID    int64     `db:"post_id" json:"post_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	IsPrimary bool      `db:"is_primary" json:"is_primary"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	ActorID   int64     `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	Metadata  string    `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type UsageRecord struct {
	ID        int64     `db:"id" json:"id"`
	TenantID  int64     `db:"tenant_id" json:"tenant_id"`
	ClientID  int64     `db:"client_id" json:"client_id"`
	UsageType string    `db:"usage_type" json:"usage_type"`
	Quantity  int       `db:"quantity" json:"quantity"`
	Metadata  string    `db:"metadata" json:"metadata"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
