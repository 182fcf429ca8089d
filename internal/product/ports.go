package product

import (
	"context"

	"snackapp/internal/domain"
)

type Repository interface {
	Save(ctx context.Context, p domain.ProductDefinition) (domain.ProductDefinition, error)
	FindByID(ctx context.Context, id int64) (domain.ProductDefinition, error)
	FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.ProductDefinition, error)
	Update(ctx context.Context, p domain.ProductDefinition) error
}

type AddOnRepository interface {
	Save(ctx context.Context, a domain.AddOnDefinition) (domain.AddOnDefinition, error)
	FindByID(ctx context.Context, id int64) (domain.AddOnDefinition, error)
	FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.AddOnDefinition, error)
	Update(ctx context.Context, a domain.AddOnDefinition) error
}

// Service composes orderable products out of the catalog.
type Service interface {
	Customize(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error)
}

type CatalogUseCase interface {
	CreateProduct(ctx context.Context, req ProductCreateRequest) (domain.ProductDefinition, error)
	GetProduct(ctx context.Context, id int64) (domain.ProductDefinition, error)
	ListProducts(ctx context.Context, filter domain.CatalogFilter) ([]domain.ProductDefinition, error)
	UpdateProduct(ctx context.Context, id int64, req ProductUpdateRequest) (domain.ProductDefinition, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateAddOn(ctx context.Context, req AddOnCreateRequest) (domain.AddOnDefinition, error)
	GetAddOn(ctx context.Context, id int64) (domain.AddOnDefinition, error)
	ListAddOns(ctx context.Context, filter domain.CatalogFilter) ([]domain.AddOnDefinition, error)
	UpdateAddOn(ctx context.Context, id int64, req AddOnUpdateRequest) (domain.AddOnDefinition, error)
	DeleteAddOn(ctx context.Context, id int64) error

	CustomizeProduct(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error)
}
