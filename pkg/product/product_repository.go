package product

import (
	"StockCount-Backend/entities"
	"context"

	"gorm.io/gorm"
)

type (
	ProductRepository interface {
		CreateProduct(ctx context.Context, product *entities.Product) error
		GetProductByID(ctx context.Context, id string) (*entities.Product, error)
		GetProductByBarcode(ctx context.Context, barcode string) (*entities.Product, error)
		SearchProducts(ctx context.Context, query string, page, limit int) ([]*entities.Product, int64, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
	}

	productRepository struct {
		db *gorm.DB
	}
)

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetProductByBarcode(ctx context.Context, barcode string) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) SearchProducts(ctx context.Context, query string, page, limit int) ([]*entities.Product, int64, error) {
	var products []*entities.Product
	var count int64

	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&entities.Product{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where("name ILIKE ? OR brand ILIKE ? OR barcode = ?", pattern, pattern, query)
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Offset(offset).Limit(limit).Order("name asc").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
