package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// Product is the catalog view needed to price an order.
type Product struct {
	ID    kernel.UUID
	Name  string
	Price kernel.Money
}

// ProductCatalog resolves product ids. Unknown ids are simply absent from the result.
type ProductCatalog interface {
	FindByIDs(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Product, error)
}
