package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfront/shopfront/internal/domain/catalog"
	"github.com/shopfront/shopfront/internal/port/outbound"
)

// CatalogService reads products from the commerce backend.
// An unknown product id surfaces as outbound.ErrNotFound so the handler can
// render a not-found page instead of a failure.
type CatalogService struct {
	api    outbound.CatalogAPI
	logger *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(api outbound.CatalogAPI, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		api:    api,
		logger: logger,
	}
}

// ListProducts returns all products.
func (s *CatalogService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []catalog.Product{}
	}
	return products, nil
}

// GetProduct returns one product by id.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (*catalog.Product, error) {
	product, err := s.api.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}
