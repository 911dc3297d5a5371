package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type IntegrationRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Integration, error)
	ListByExpiryInterval(ctx context.Context, from, to time.Time) ([]*models.Integration, error)
	SetTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error
}

type integrationRepository struct {
	db *sql.DB
}

func NewIntegrationRepository(db *sql.DB) IntegrationRepository {
	return &integrationRepository{db: db}
}

func (r *integrationRepository) GetByID(ctx context.Context, id int64) (*models.Integration, error) {
	query := `
		SELECT id, tenant_id, provider, access_token, COALESCE(refresh_token, ''), token_expires_at, created_at, updated_at
		FROM integrations
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var integration models.Integration
	err := row.Scan(&integration.ID, &integration.TenantID, &integration.Provider, &integration.AccessToken, &integration.RefreshToken, &integration.TokenExpiresAt, &integration.CreatedAt, &integration.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &integration, nil
}

func (r *integrationRepository) ListByExpiryInterval(ctx context.Context, from, to time.Time) ([]*models.Integration, error) {
	query := `
		SELECT id, tenant_id, provider, access_token, COALESCE(refresh_token, ''), token_expires_at, created_at, updated_at
		FROM integrations
		WHERE token_expires_at BETWEEN $1 AND $2
	`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var integrations []*models.Integration
	for rows.Next() {
		var integration models.Integration
		err := rows.Scan(&integration.ID, &integration.TenantID, &integration.Provider, &integration.AccessToken, &integration.RefreshToken, &integration.TokenExpiresAt, &integration.CreatedAt, &integration.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		integrations = append(integrations, &integration)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return integrations, nil
}

func (r *integrationRepository) SetTokens(ctx context.Context, id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	query := `
		UPDATE integrations
		SET access_token = $1,
			refresh_token = $2,
			token_expires_at = $3,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query, accessToken, refreshToken, expiresAt, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
