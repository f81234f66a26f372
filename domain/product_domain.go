package domain

import (
	"errors"
)

var (
	MessageSuccessCreateProduct = "product created successfully"
	MessageSuccessGetProducts   = "products retrieved successfully"

	MessageFailedCreateProduct = "failed to create product"
	MessageFailedGetProducts   = "failed to retrieve products"

	ErrProductNotFound = errors.New("product not found")
)

type (
	CreateProductRequest struct {
		Name        string   `json:"name" validate:"required"`
		Brand       string   `json:"brand,omitempty"`
		SizeDisplay string   `json:"size_display,omitempty"`
		Category    string   `json:"category,omitempty"`
		Barcode     string   `json:"barcode,omitempty"`
		LastPrice   *float64 `json:"last_price,omitempty" validate:"omitempty,min=0"`
	}

	ProductResponse struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Brand       string   `json:"brand,omitempty"`
		SizeDisplay string   `json:"size_display,omitempty"`
		Category    string   `json:"category,omitempty"`
		Barcode     string   `json:"barcode,omitempty"`
		LastPrice   *float64 `json:"last_price,omitempty"`
	}
)
