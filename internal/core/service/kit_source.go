package service

import (
	"context"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/port"
)

// kitSource routes kit lookups by id space: catalog kits come from the
// backing catalog, user-composed kits from the transient custom kit store.
type kitSource struct {
	catalog    port.CatalogRepository
	customKits port.CustomKitStore
	threshold  int64
}

func (s *kitSource) kitByID(ctx context.Context, id int64) (*domain.Kit, error) {
	if domain.IsCustomID(id, s.threshold) {
		return s.customKits.GetKit(ctx, id)
	}
	return s.catalog.GetKit(ctx, id)
}
