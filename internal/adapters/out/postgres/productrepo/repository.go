package productrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductCatalog implements ports.ProductCatalog over the products table.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// Add inserts a product. Used to seed the catalog.
func (r *GormProductCatalog) Add(ctx context.Context, p ports.Product) error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	dto := ProductDTO{ID: p.ID.Bytes(), Name: p.Name, PriceCents: p.Price.Cents()}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// FindByIDs loads the requested products; unknown ids are left out of the result.
func (r *GormProductCatalog) FindByIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	result := make(map[kernel.UUID]ports.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		result[p.ID] = p
	}
	return result, nil
}
