package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
)

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, tenant_id, actor_id, action, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, entry.ID, entry.TenantID, entry.ActorID, entry.Action, entry.Metadata)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
