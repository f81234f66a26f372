package scan

import (
	"StockCount-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ScanRepository interface {
		CreateScanCapture(ctx context.Context, capture *entities.ScanCapture) error
		GetScanCaptureByID(ctx context.Context, id string) (*entities.ScanCapture, error)
		UpdateScanCapture(ctx context.Context, capture *entities.ScanCapture) error
	}

	scanRepository struct {
		db *gorm.DB
	}
)

func NewScanRepository(db *gorm.DB) ScanRepository {
	return &scanRepository{db: db}
}

func (r *scanRepository) CreateScanCapture(ctx context.Context, capture *entities.ScanCapture) error {
	return r.db.WithContext(ctx).Create(capture).Error
}

func (r *scanRepository) GetScanCaptureByID(ctx context.Context, id string) (*entities.ScanCapture, error) {
	var capture entities.ScanCapture
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&capture).Error; err != nil {
		return nil, err
	}
	return &capture, nil
}

func (r *scanRepository) UpdateScanCapture(ctx context.Context, capture *entities.ScanCapture) error {
	return r.db.WithContext(ctx).Save(capture).Error
}
