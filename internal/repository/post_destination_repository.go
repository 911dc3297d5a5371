package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type PostDestinationRepository interface {
	Create(ctx context.Context, tx *sql.Tx, pd *models.PostDestination) error
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostDestination, error)
	ListStatuses(ctx context.Context, postID int64) ([]string, error)
	MarkPublishing(ctx context.Context, postID, destinationID int64) error
	MarkPublished(ctx context.Context, postID, destinationID int64, externalPostID, postURL string) error
	MarkFailed(ctx context.Context, postID, destinationID int64, errMsg string) error
}

type postDestinationRepository struct {
	db *sql.DB
}

func NewPostDestinationRepository(db *sql.DB) PostDestinationRepository {
	return &postDestinationRepository{db: db}
}

func (r *postDestinationRepository) Create(ctx context.Context, tx *sql.Tx, pd *models.PostDestination) error {
	var err error

	query := `
		INSERT INTO post_destinations (post_id, destination_id, status, media_ids)
		VALUES ($1, $2, $3, $4)
	`
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, pd.PostID, pd.DestinationID, models.DestinationStatusDraft, pd.MediaIDs)
	} else {
		_, err = r.db.ExecContext(ctx, query, pd.PostID, pd.DestinationID, models.DestinationStatusDraft, pd.MediaIDs)
	}

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postDestinationRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostDestination, error) {
	query := `
		SELECT post_id, destination_id, status, COALESCE(external_post_id, ''), COALESCE(post_url, ''), COALESCE(error, ''), media_ids, created_at, updated_at
		FROM post_destinations
		WHERE post_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	var destinations []*models.PostDestination
	for rows.Next() {
		var pd models.PostDestination
		if err := rows.Scan(&pd.PostID, &pd.DestinationID, &pd.Status, &pd.ExternalPostID, &pd.PostURL, &pd.Error, &pd.MediaIDs, &pd.CreatedAt, &pd.UpdatedAt); err != nil {
			slog.Info(err.Error())
			return nil, fmt.Errorf("scan row: %w", err)
		}
		destinations = append(destinations, &pd)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return destinations, nil
}

func (r *postDestinationRepository) ListStatuses(ctx context.Context, postID int64) ([]string, error) {
	query := `SELECT status FROM post_destinations WHERE post_id = $1`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return statuses, nil
}

// MarkPublishing resets the row for a fresh attempt. A republish of a failed
// post must not carry a stale external id or error into the new attempt.
func (r *postDestinationRepository) MarkPublishing(ctx context.Context, postID, destinationID int64) error {
	query := `
		UPDATE post_destinations
		SET status = $1,
			external_post_id = NULL,
			post_url = NULL,
			error = NULL,
			updated_at = $2
		WHERE post_id = $3 AND destination_id = $4
	`
	_, err := r.db.ExecContext(ctx, query, models.DestinationStatusPublishing, time.Now(), postID, destinationID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postDestinationRepository) MarkPublished(ctx context.Context, postID, destinationID int64, externalPostID, postURL string) error {
	query := `
		UPDATE post_destinations
		SET status = $1,
			external_post_id = $2,
			post_url = NULLIF($3, ''),
			error = NULL,
			updated_at = $4
		WHERE post_id = $5 AND destination_id = $6
	`
	_, err := r.db.ExecContext(ctx, query, models.DestinationStatusPublished, externalPostID, postURL, time.Now(), postID, destinationID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postDestinationRepository) MarkFailed(ctx context.Context, postID, destinationID int64, errMsg string) error {
	query := `
		UPDATE post_destinations
		SET status = $1,
			external_post_id = NULL,
			post_url = NULL,
			error = $2,
			updated_at = $3
		WHERE post_id = $4 AND destination_id = $5
	`
	_, err := r.db.ExecContext(ctx, query, models.DestinationStatusFailed, errMsg, time.Now(), postID, destinationID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
