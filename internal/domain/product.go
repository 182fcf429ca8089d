package domain

import (
	"github.com/shopspring/decimal"

	apperrors "snackapp/internal/errors"
)

type Category string

const (
	CategoryLanche         Category = "LANCHE"
	CategoryAcompanhamento Category = "ACOMPANHAMENTO"
	CategoryBebida         Category = "BEBIDA"
	CategorySobremesa      Category = "SOBREMESA"
)

func ParseCategory(value string) (Category, error) {
	switch c := Category(value); c {
	case CategoryLanche, CategoryAcompanhamento, CategoryBebida, CategorySobremesa:
		return c, nil
	}
	return "", apperrors.NewInvalidArgumentError("invalid category %q", value)
}

// Product is anything that can be priced as an order line: a base
// ProductDefinition or an add-on decorator wrapping one.
type Product interface {
	ProductID() int64
	ProductName() string
	ProductDescription() string
	ProductPrice() decimal.Decimal
	Definition() ProductDefinition
	AppliedAddOns() []AppliedAddOn
}

// ProductDefinition is an immutable catalog item. Inactive products stay
// readable but cannot be ordered.
type ProductDefinition struct {
	ID          int64
	Name        string
	Category    Category
	Price       decimal.Decimal
	Description string
	Active      bool
}

var _ Product = ProductDefinition{}

func (p ProductDefinition) ProductID() int64              { return p.ID }
func (p ProductDefinition) ProductName() string           { return p.Name }
func (p ProductDefinition) ProductDescription() string    { return p.Description }
func (p ProductDefinition) ProductPrice() decimal.Decimal { return p.Price }
func (p ProductDefinition) Definition() ProductDefinition { return p }
func (p ProductDefinition) AppliedAddOns() []AppliedAddOn { return []AppliedAddOn{} }

// AddOnDefinition is an immutable priced extra, e.g. bacon or cheese.
type AddOnDefinition struct {
	ID       int64
	Name     string
	Category Category
	Price    decimal.Decimal
	Active   bool
}

// AppliedAddOn is an add-on as applied to one order line.
type AppliedAddOn struct {
	AddOn    AddOnDefinition
	Quantity int
}

func NewAppliedAddOn(addOn AddOnDefinition, quantity int) (AppliedAddOn, error) {
	if quantity <= 0 {
		return AppliedAddOn{}, apperrors.NewInvalidArgumentError("add-on quantity must be positive, got %d", quantity)
	}
	return AppliedAddOn{AddOn: addOn, Quantity: quantity}, nil
}

// Cost is the add-on price times its quantity.
func (a AppliedAddOn) Cost() decimal.Decimal {
	return a.AddOn.Price.Mul(decimal.NewFromInt(int64(a.Quantity)))
}

// NewProductDefinition builds an active catalog product.
func NewProductDefinition(name string, category Category, price decimal.Decimal, description string) (ProductDefinition, error) {
	if err := ValidateCatalogEntry(name, price); err != nil {
		return ProductDefinition{}, err
	}
	return ProductDefinition{
		Name:        name,
		Category:    category,
		Price:       price,
		Description: description,
		Active:      true,
	}, nil
}

// NewAddOnDefinition builds an active add-on.
func NewAddOnDefinition(name string, category Category, price decimal.Decimal) (AddOnDefinition, error) {
	if err := ValidateCatalogEntry(name, price); err != nil {
		return AddOnDefinition{}, err
	}
	return AddOnDefinition{
		Name:     name,
		Category: category,
		Price:    price,
		Active:   true,
	}, nil
}

// ValidateCatalogEntry checks the fields shared by products and add-ons.
func ValidateCatalogEntry(name string, price decimal.Decimal) error {
	if name == "" {
		return apperrors.NewInvalidArgumentError("name is required")
	}
	if !price.IsPositive() {
		return apperrors.NewInvalidArgumentError("price must be positive, got %s", price)
	}
	return nil
}
