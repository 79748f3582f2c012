package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAllCouriersQueryHandler reads couriers straight from the database.
//
// Example:
//
//	handler := NewGetAllCouriersQueryHandler(db)
//	query, _ := NewGetAllCouriersQuery(admin, nil, ports.NewPage(1, 10))
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get couriers: %v", err)
//	    return err
//	}
type GetAllCouriersQueryHandler struct {
	db *gorm.DB
}

func NewGetAllCouriersQueryHandler(db *gorm.DB) GetAllCouriersQueryHandler {
	return GetAllCouriersQueryHandler{db: db}
}

// Handle returns one page of couriers sorted by name, then id.
func (h GetAllCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAllCouriersQuery,
) (*GetAllCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if !query.admin.IsAdmin() {
		return nil, errs.NewForbiddenError("list couriers", "admin only")
	}

	scope := func() *gorm.DB {
		tx := h.db.WithContext(ctx).Table("couriers")
		if query.availability != nil {
			tx = tx.Where("availability = ?", int(*query.availability))
		}
		return tx
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, errs.WrapStore("count couriers", err)
	}

	rows, err := scope().
		Select("id", "name", "availability", "created_at", "updated_at").
		Order("name").Order("id").
		Limit(query.page.Limit).
		Offset(query.page.Offset()).
		Rows()
	if err != nil {
		return nil, errs.WrapStore("list couriers", err)
	}
	defer rows.Close()

	couriers := make([]CourierView, 0, query.page.Limit)
	for rows.Next() {
		var (
			id           uuid.UUID
			view         CourierView
			availability int
			createdAt    time.Time
			updatedAt    time.Time
		)
		if err = rows.Scan(&id, &view.Name, &availability, &createdAt, &updatedAt); err != nil {
			return nil, errs.WrapStore("scan courier", err)
		}

		courierID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		view.ID = courierID
		view.Availability = courier.Availability(availability)
		view.CreatedAt = createdAt
		view.UpdatedAt = updatedAt
		couriers = append(couriers, view)
	}

	if err = rows.Err(); err != nil {
		return nil, errs.WrapStore("list couriers", err)
	}

	return &GetAllCouriersQueryResponse{
		Couriers: couriers,
		Total:    total,
		Page:     query.page,
	}, nil
}
