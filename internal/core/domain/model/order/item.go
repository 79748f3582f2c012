package order

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a product reference with the price captured when it was put in the basket.
type Item struct {
	productID kernel.UUID
	price     kernel.Money
	guard     guard.ConstructorGuard
}

func NewItem(productID kernel.UUID, price kernel.Money) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	return Item{productID: productID, price: price, guard: guard.NewConstructorGuard()}, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) Price() kernel.Money {
	return i.price
}
