package audit

import (
	"StockCount-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	AuditRepository interface {
		CreateEntry(ctx context.Context, entry *entities.AuditLogEntry) error
		GetEntriesBySession(ctx context.Context, sessionID string) ([]*entities.AuditLogEntry, error)
		CountEntries(ctx context.Context, sessionID string, action string) (int64, error)
	}

	auditRepository struct {
		db *gorm.DB
	}
)

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateEntry(ctx context.Context, entry *entities.AuditLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditRepository) GetEntriesBySession(ctx context.Context, sessionID string) ([]*entities.AuditLogEntry, error) {
	var entries []*entities.AuditLogEntry
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditRepository) CountEntries(ctx context.Context, sessionID string, action string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.AuditLogEntry{}).
		Where("session_id = ?", sessionID)
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
