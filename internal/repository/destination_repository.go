package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type DestinationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Destination, error)
}

type destinationRepository struct {
	db *sql.DB
}

func NewDestinationRepository(db *sql.DB) DestinationRepository {
	return &destinationRepository{db: db}
}

func (r *destinationRepository) GetByID(ctx context.Context, id int64) (*models.Destination, error) {
	query := `
		SELECT id, tenant_id, integration_id, platform, external_id, name, COALESCE(access_token, ''), created_at, updated_at
		FROM destinations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var dest models.Destination
	err := row.Scan(&dest.ID, &dest.TenantID, &dest.IntegrationID, &dest.Platform, &dest.ExternalID, &dest.Name, &dest.AccessToken, &dest.CreatedAt, &dest.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &dest, nil
}
