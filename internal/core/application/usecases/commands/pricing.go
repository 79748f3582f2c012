package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// priceItems resolves productIDs against the catalog, keeping their order.
// It runs before any transaction is opened.
func priceItems(ctx context.Context, catalog ports.ProductCatalog, productIDs []kernel.UUID) ([]order.Item, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	products, err := catalog.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, errs.WrapStore("find products", err)
	}

	items := make([]order.Item, 0, len(productIDs))
	for _, id := range productIDs {
		p, ok := products[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
		item, err := order.NewItem(p.ID, p.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
