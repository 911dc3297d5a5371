package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/lib/pq"
)

type PostMediaRepository interface {
	Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error
	ListAssetsByPostID(ctx context.Context, postID int64) ([]*models.MediaAsset, error)
	ListAssetsByIDs(ctx context.Context, ids []int64) ([]*models.MediaAsset, error)
}

type postMediaRepository struct {
	db *sql.DB
}

func NewPostMediaRepository(db *sql.DB) PostMediaRepository {
	return &postMediaRepository{db: db}
}

func (r *postMediaRepository) Create(ctx context.Context, tx *sql.Tx, pm *models.PostMedia) error {
	var err error

	query := `
		INSERT INTO post_media (post_id, asset_id, display_order)
		VALUES ($1, $2, $3)
	`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, pm.PostID, pm.AssetID, pm.DisplayOrder)
	} else {
		_, err = r.db.ExecContext(ctx, query, pm.PostID, pm.AssetID, pm.DisplayOrder)
	}

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postMediaRepository) ListAssetsByPostID(ctx context.Context, postID int64) ([]*models.MediaAsset, error) {
	query := `
		SELECT a.id, a.tenant_id, a.file_name, COALESCE(a.file_type, ''), a.file_size, a.created_at
		FROM post_media pm
		JOIN media_assets a ON a.id = pm.asset_id
		WHERE pm.post_id = $1
		ORDER BY pm.display_order
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanAssets(rows)
}

func (r *postMediaRepository) ListAssetsByIDs(ctx context.Context, ids []int64) ([]*models.MediaAsset, error) {
	query := `
		SELECT id, tenant_id, file_name, COALESCE(file_type, ''), file_size, created_at
		FROM media_assets
		WHERE id = ANY($1)
		ORDER BY array_position($1, id)
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Int64Array(ids))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanAssets(rows)
}

func scanAssets(rows *sql.Rows) ([]*models.MediaAsset, error) {
	var assets []*models.MediaAsset
	for rows.Next() {
		var asset models.MediaAsset
		if err := rows.Scan(&asset.ID, &asset.TenantID, &asset.FileName, &asset.FileType, &asset.FileSize, &asset.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		assets = append(assets, &asset)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return assets, nil
}
