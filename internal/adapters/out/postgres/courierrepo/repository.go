package courierrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier to the database.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update is the claim/release compare-and-swap: the row changes only if nobody
// else wrote it since it was loaded.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&CourierDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"name":         dto.Name,
			"availability": dto.Availability,
			"version":      dto.Version + 1,
			"updated_at":   dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
		}
		return errs.NewConflictError("courier", aggregate.ID().String())
	}

	aggregate.MarkPersisted()
	return nil
}

// Get retrieves a courier by ID.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListFree retrieves Free couriers in registration order.
func (r *GormCourierRepository) ListFree(ctx context.Context, limit int) ([]*courier.Courier, error) {
	query := r.db.WithContext(ctx).
		Where("availability = ?", int(courier.Free)).
		Order("created_at ASC").Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var dtos []CourierDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// List returns one page of couriers and the total count.
func (r *GormCourierRepository) List(ctx context.Context, page ports.Page) ([]*courier.Courier, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&CourierDTO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []CourierDTO
	err := r.db.WithContext(ctx).
		Order("created_at ASC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	couriers, err := toDomainAll(dtos)
	return couriers, total, err
}

func toDomainAll(dtos []CourierDTO) ([]*courier.Courier, error) {
	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, c)
	}
	return couriers, nil
}
