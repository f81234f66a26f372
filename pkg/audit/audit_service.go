package audit

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type (
	// AuditService reads the append-only log; writing happens inside the
	// ledger and session services so no mutation can skip it.
	AuditService interface {
		GetSessionAudit(ctx context.Context, sessionID string) ([]domain.AuditEntryResponse, error)
	}

	auditService struct {
		auditRepository AuditRepository
	}
)

func NewAuditService(auditRepository AuditRepository) AuditService {
	return &auditService{auditRepository: auditRepository}
}

func (s *auditService) GetSessionAudit(ctx context.Context, sessionID string) ([]domain.AuditEntryResponse, error) {
	entries, err := s.auditRepository.GetEntriesBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var response []domain.AuditEntryResponse
	for _, entry := range entries {
		response = append(response, domain.AuditEntryResponse{
			ID:        entry.ID.String(),
			SessionID: entry.SessionID.String(),
			UserID:    entry.UserID.String(),
			Action:    entry.Action,
			Payload:   entry.Payload,
			CreatedAt: entry.CreatedAt,
		})
	}
	return response, nil
}

// NewEntry builds an audit row with the payload snapshot marshalled to JSON.
func NewEntry(sessionID, userID uuid.UUID, action string, payload any) *entities.AuditLogEntry {
	snapshot := ""
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			snapshot = string(raw)
		}
	}
	return &entities.AuditLogEntry{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Action:    action,
		Payload:   snapshot,
		CreatedAt: time.Now(),
	}
}
