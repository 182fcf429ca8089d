package product

import (
	"github.com/shopspring/decimal"

	"snackapp/internal/domain"
	"snackapp/internal/dto"
)

type ProductCreateRequest struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// ProductUpdateRequest only changes the fields that are present.
type ProductUpdateRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Active      *bool            `json:"active"`
}

type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Active      bool            `json:"active"`
}

type AddOnCreateRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

type AddOnUpdateRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Active   *bool            `json:"active"`
}

type AddOnDTO struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
}

type CustomizeRequest struct {
	ProductID     int64                     `json:"productId"`
	AddOnPortions []dto.AddOnPortionRequest `json:"addOnPortions"`
}

type DecoratedProductDTO struct {
	ProductID     int64                      `json:"productId"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Price         decimal.Decimal            `json:"price"`
	AppliedAddOns []dto.AppliedAddOnResponse `json:"appliedAddOns"`
}

func NewProductDTO(p domain.ProductDefinition) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       p.Price,
		Description: p.Description,
		Active:      p.Active,
	}
}

func NewAddOnDTO(a domain.AddOnDefinition) AddOnDTO {
	return AddOnDTO{
		ID:       a.ID,
		Name:     a.Name,
		Category: string(a.Category),
		Price:    a.Price,
		Active:   a.Active,
	}
}

func NewDecoratedProductDTO(p domain.Product) DecoratedProductDTO {
	return DecoratedProductDTO{
		ProductID:     p.ProductID(),
		Name:          p.ProductName(),
		Description:   p.ProductDescription(),
		Price:         p.ProductPrice(),
		AppliedAddOns: dto.NewAppliedAddOnResponses(p.AppliedAddOns()),
	}
}
