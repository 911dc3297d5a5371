package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type CaptionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, caption *models.Caption) error
	ListByPostID(ctx context.Context, postID int64) ([]*models.Caption, error)
}

type captionRepository struct {
	db *sql.DB
}

func NewCaptionRepository(db *sql.DB) CaptionRepository {
	return &captionRepository{db: db}
}

func (r *captionRepository) Create(ctx context.Context, tx *sql.Tx, caption *models.Caption) error {
	var err error

	query := `
		INSERT INTO captions (post_id, platform, caption, hashtags, include_link)
		VALUES ($1, $2, $3, $4, $5)
	`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, caption.PostID, caption.Platform, caption.Caption, caption.Hashtags, caption.IncludeLink)
	} else {
		_, err = r.db.ExecContext(ctx, query, caption.PostID, caption.Platform, caption.Caption, caption.Hashtags, caption.IncludeLink)
	}

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *captionRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.Caption, error) {
	query := `SELECT post_id, platform, caption, COALESCE(hashtags, ''), include_link FROM captions WHERE post_id = $1`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var captions []*models.Caption
	for rows.Next() {
		var caption models.Caption
		if err := rows.Scan(&caption.PostID, &caption.Platform, &caption.Caption, &caption.Hashtags, &caption.IncludeLink); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		captions = append(captions, &caption)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return captions, nil
}
