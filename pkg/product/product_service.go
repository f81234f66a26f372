package product

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ProductService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error)
		GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error)
		SearchProducts(ctx context.Context, query string, page, limit int) ([]domain.ProductResponse, int64, error)
	}

	productService struct {
		productRepository ProductRepository
	}
)

func NewProductService(productRepository ProductRepository) ProductService {
	return &productService{productRepository: productRepository}
}

func (s *productService) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (domain.ProductResponse, error) {
	product := &entities.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Brand:       req.Brand,
		SizeDisplay: req.SizeDisplay,
		Category:    req.Category,
		Barcode:     req.Barcode,
		LastPrice:   req.LastPrice,
	}

	if err := s.productRepository.CreateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}

	return toProductResponse(product), nil
}

func (s *productService) GetProductByID(ctx context.Context, id string) (domain.ProductResponse, error) {
	product, err := s.productRepository.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProductResponse{}, domain.ErrProductNotFound
		}
		return domain.ProductResponse{}, err
	}
	return toProductResponse(product), nil
}

func (s *productService) SearchProducts(ctx context.Context, query string, page, limit int) ([]domain.ProductResponse, int64, error) {
	products, count, err := s.productRepository.SearchProducts(ctx, query, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.ProductResponse
	for _, product := range products {
		response = append(response, toProductResponse(product))
	}
	return response, count, nil
}

func toProductResponse(product *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:          product.ID.String(),
		Name:        product.Name,
		Brand:       product.Brand,
		SizeDisplay: product.SizeDisplay,
		Category:    product.Category,
		Barcode:     product.Barcode,
		LastPrice:   product.LastPrice,
	}
}
