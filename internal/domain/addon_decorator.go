package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "snackapp/internal/errors"
)

// AddOnDecorator layers one add-on on top of another Product. The wrapped
// product is never modified.
type AddOnDecorator struct {
	wrapped  Product
	addOn    AddOnDefinition
	quantity int
}

var _ Product = (*AddOnDecorator)(nil)

// Wrap decorates product with quantity units of addOn.
func Wrap(product Product, addOn *AddOnDefinition, quantity int) (Product, error) {
	if product == nil {
		return nil, apperrors.NewInvalidArgumentError("product to decorate is required")
	}
	if addOn == nil {
		return nil, apperrors.NewInvalidArgumentError("add-on is required")
	}
	if quantity <= 0 {
		return nil, apperrors.NewInvalidArgumentError("add-on quantity must be positive, got %d", quantity)
	}

	return &AddOnDecorator{
		wrapped:  product,
		addOn:    *addOn,
		quantity: quantity,
	}, nil
}

func (d *AddOnDecorator) ProductID() int64 {
	return d.wrapped.ProductID()
}

func (d *AddOnDecorator) ProductName() string {
	name := d.wrapped.ProductDescription() + ", com " + d.addOn.Name
	if d.quantity > 1 {
		name += fmt.Sprintf(" (x%d)", d.quantity)
	}
	return name
}

func (d *AddOnDecorator) ProductDescription() string {
	return d.wrapped.ProductDescription()
}

func (d *AddOnDecorator) ProductPrice() decimal.Decimal {
	cost := d.addOn.Price.Mul(decimal.NewFromInt(int64(d.quantity)))
	return d.wrapped.ProductPrice().Add(cost)
}

func (d *AddOnDecorator) Definition() ProductDefinition {
	return d.wrapped.Definition()
}

func (d *AddOnDecorator) AppliedAddOns() []AppliedAddOn {
	inner := d.wrapped.AppliedAddOns()
	applied := make([]AppliedAddOn, 0, len(inner)+1)
	applied = append(applied, inner...)
	return append(applied, AppliedAddOn{AddOn: d.addOn, Quantity: d.quantity})
}
