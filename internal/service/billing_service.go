package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/MathengeNewton/socialCommerce-sub000/internal/models"
	"github.com/MathengeNewton/socialCommerce-sub000/internal/repository"
)

// BillingService appends usage records for invoicing. Recording is
// best-effort: a failure here must never change a publish outcome, so
// RecordUsage logs and returns nothing.
type BillingService interface {
	RecordUsage(ctx context.Context, tenantID, clientID int64, usageType string, quantity int, metadata map[string]any)
}

type billingService struct {
	ur repository.UsageRecordRepository
}

func NewBillingService(ur repository.UsageRecordRepository) BillingService {
	return &billingService{ur: ur}
}

func (s *billingService) RecordUsage(ctx context.Context, tenantID, clientID int64, usageType string, quantity int, metadata map[string]any) {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		slog.Info(err.Error())
		metadataJSON = []byte("{}")
	}

	record := models.UsageRecord{
		TenantID:  tenantID,
		ClientID:  clientID,
		UsageType: usageType,
		Quantity:  quantity,
		Metadata:  string(metadataJSON),
	}

	if _, err := s.ur.Create(ctx, &record); err != nil {
		slog.Info("failed to record usage: " + err.Error())
	}
}
