package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update writes the aggregate if the stored version still matches the loaded one.
// Items are rewritten only while the order is in Basket, the only status in which
// they can change.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"courier_id":       dto.CourierID,
			"total_cents":      dto.TotalCents,
			"delivery_address": dto.DeliveryAddress,
			"status":           dto.Status,
			"version":          dto.Version + 1,
			"updated_at":       dto.UpdatedAt,
			"deleted_at":       dto.DeletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID())
	}

	if aggregate.Status() == order.Basket {
		if err := r.replaceItems(ctx, dto); err != nil {
			return err
		}
	}

	aggregate.MarkPersisted()
	return nil
}

// Delete hard-deletes the order and its items, or soft-deletes it when the
// aggregate carries a deletion timestamp.
func (r *GormOrderRepository) Delete(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.DeletedAt() != nil {
		return r.Update(ctx, aggregate)
	}

	db := r.db.WithContext(ctx)
	id := aggregate.ID().Bytes()

	result := db.Unscoped().
		Where("id = ? AND version = ?", id, aggregate.Version()).
		Delete(&OrderDTO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate.ID())
	}

	return db.Where("order_id = ?", id).Delete(&OrderItemDTO{}).Error
}

// Get retrieves a live order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List returns a page of orders matching filter, newest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter, page ports.Page) ([]*order.Order, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Model(&OrderDTO{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dtos []OrderDTO
	err := r.filtered(ctx, filter).
		Preload("Items", orderedItems).
		Order("created_at DESC").Order("id").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, err
	}

	orders, err := toDomainAll(dtos)
	return orders, total, err
}

// ListAwaitingCourier retrieves Confirmed orders without courier, oldest confirmation first.
func (r *GormOrderRepository) ListAwaitingCourier(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("status = ? AND courier_id IS NULL", int(order.Confirmed)).
		Order("updated_at ASC").Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func (r *GormOrderRepository) filtered(ctx context.Context, filter ports.OrderFilter) *gorm.DB {
	query := r.db.WithContext(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", filter.CustomerID.Bytes())
	}
	if filter.CourierID != nil {
		query = query.Where("courier_id = ?", filter.CourierID.Bytes())
	}
	return query
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", orderedItems)
}

func (r *GormOrderRepository) replaceItems(ctx context.Context, dto OrderDTO) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", dto.ID).Delete(&OrderItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Items) == 0 {
		return nil
	}
	return db.Create(&dto.Items).Error
}

func (r *GormOrderRepository) missOrConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewConflictError("order", id.String())
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
