package session

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	SessionRepository interface {
		CreateSession(ctx context.Context, session *entities.InventorySession) error
		GetSessionByID(ctx context.Context, id string) (*entities.InventorySession, error)
		GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]*entities.InventorySession, int64, error)
		UpdateSession(ctx context.Context, session *entities.InventorySession) error
		GetLastCompletedSession(ctx context.Context, locationID string) (*entities.InventorySession, error)
		GetSessionItems(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error)
		CreateItems(ctx context.Context, items []*entities.InventoryItem) error
	}

	sessionRepository struct {
		db *gorm.DB
	}
)

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *entities.InventorySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (*entities.InventorySession, error) {
	var session entities.InventorySession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]*entities.InventorySession, int64, error) {
	var sessions []*entities.InventorySession
	var count int64

	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if locationID != "" {
		query = query.Where("location_id = ?", locationID)
	}

	if err := query.Model(&entities.InventorySession{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("started_at desc").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, count, nil
}

func (r *sessionRepository) UpdateSession(ctx context.Context, session *entities.InventorySession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

// GetLastCompletedSession returns the most recent completed count for a
// location, or nil when the location has never been counted.
func (r *sessionRepository) GetLastCompletedSession(ctx context.Context, locationID string) (*entities.InventorySession, error) {
	var session entities.InventorySession
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND status = ?", locationID, domain.SessionStatusCompleted).
		Order("completed_at desc").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetSessionItems(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Preload("Product").
		Order("created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *sessionRepository) CreateItems(ctx context.Context, items []*entities.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(items).Error
}
