package service

import (
	"context"
	"fmt"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/port"
)

// CatalogService serves catalog reads to the host surface. Adapters report
// missing records as (nil, nil); here that becomes a NotFoundError the
// transport layer can render.
type CatalogService struct {
	catalog port.CatalogRepository
}

func NewCatalogService(catalog port.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	if p == nil {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	return p, nil
}

func (s *CatalogService) GetKit(ctx context.Context, id int64) (*domain.Kit, error) {
	k, err := s.catalog.GetKit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get kit %d: %w", id, err)
	}
	if k == nil {
		return nil, &NotFoundError{Resource: "kit", ID: id}
	}
	return k, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *CatalogService) SearchKits(ctx context.Context, name string) ([]domain.Kit, error) {
	kits, err := s.catalog.SearchKits(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("search kits: %w", err)
	}
	if kits == nil {
		kits = []domain.Kit{}
	}
	return kits, nil
}
