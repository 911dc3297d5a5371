package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type ProductRepository interface {
	GetPrimaryByPostID(ctx context.Context, postID int64) (*models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetPrimaryByPostID(ctx context.Context, postID int64) (*models.Product, error) {
	query := `
		SELECT p.id, p.tenant_id, p.slug, p.name, p.created_at
		FROM post_products pp
		JOIN products p ON p.id = pp.product_id
		WHERE pp.post_id = $1 AND pp.is_primary = TRUE
	`
	row := r.db.QueryRowContext(ctx, query, postID)

	var product models.Product
	err := row.Scan(&product.ID, &product.TenantID, &product.Slug, &product.Name, &product.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &product, nil
}
