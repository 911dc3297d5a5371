package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type UsageRecordRepository interface {
	Create(ctx context.Context, record *models.UsageRecord) (int64, error)
}

type usageRecordRepository struct {
	db *sql.DB
}

func NewUsageRecordRepository(db *sql.DB) UsageRecordRepository {
	return &usageRecordRepository{db: db}
}

func (r *usageRecordRepository) Create(ctx context.Context, record *models.UsageRecord) (int64, error) {
	query := `
		INSERT INTO usage_records (tenant_id, client_id, usage_type, quantity, metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, record.TenantID, record.ClientID, record.UsageType, record.Quantity, record.Metadata).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}
