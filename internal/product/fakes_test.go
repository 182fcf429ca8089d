package product

import (
	"context"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type fakeRepository struct {
	products map[int64]domain.ProductDefinition
	nextID   int64
}

func newFakeRepository(products ...domain.ProductDefinition) *fakeRepository {
	r := &fakeRepository{products: map[int64]domain.ProductDefinition{}, nextID: 100}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeRepository) Save(ctx context.Context, p domain.ProductDefinition) (domain.ProductDefinition, error) {
	r.nextID++
	p.ID = r.nextID
	r.products[p.ID] = p
	return p, nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id int64) (domain.ProductDefinition, error) {
	p, ok := r.products[id]
	if !ok {
		return domain.ProductDefinition{}, apperrors.NewNotFoundError("product", id)
	}
	return p, nil
}

func (r *fakeRepository) FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.ProductDefinition, error) {
	var out []domain.ProductDefinition
	for _, p := range r.products {
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepository) Update(ctx context.Context, p domain.ProductDefinition) error {
	r.products[p.ID] = p
	return nil
}

type fakeAddOnRepository struct {
	addOns map[int64]domain.AddOnDefinition
	nextID int64
}

func newFakeAddOnRepository(addOns ...domain.AddOnDefinition) *fakeAddOnRepository {
	r := &fakeAddOnRepository{addOns: map[int64]domain.AddOnDefinition{}, nextID: 200}
	for _, a := range addOns {
		r.addOns[a.ID] = a
	}
	return r
}

func (r *fakeAddOnRepository) Save(ctx context.Context, a domain.AddOnDefinition) (domain.AddOnDefinition, error) {
	r.nextID++
	a.ID = r.nextID
	r.addOns[a.ID] = a
	return a, nil
}

func (r *fakeAddOnRepository) FindByID(ctx context.Context, id int64) (domain.AddOnDefinition, error) {
	a, ok := r.addOns[id]
	if !ok {
		return domain.AddOnDefinition{}, apperrors.NewNotFoundError("add-on", id)
	}
	return a, nil
}

func (r *fakeAddOnRepository) FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.AddOnDefinition, error) {
	var out []domain.AddOnDefinition
	for _, a := range r.addOns {
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAddOnRepository) Update(ctx context.Context, a domain.AddOnDefinition) error {
	r.addOns[a.ID] = a
	return nil
}
