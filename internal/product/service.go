package product

import (
	"context"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type productService struct {
	repo      Repository
	addOnRepo AddOnRepository
}

func NewService(repo Repository, addOnRepo AddOnRepository) Service {
	return &productService{repo: repo, addOnRepo: addOnRepo}
}

// Customize loads the base product and wraps it with every requested add-on
// portion, in request order. Inactive products and add-ons are rejected.
func (s *productService) Customize(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error) {
	def, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !def.Active {
		return nil, apperrors.NewPreconditionFailedError("product %d is inactive", productID)
	}

	var product domain.Product = def
	for _, portion := range portions {
		addOn, err := s.addOnRepo.FindByID(ctx, portion.AddOnID)
		if err != nil {
			return nil, err
		}
		if !addOn.Active {
			return nil, apperrors.NewPreconditionFailedError("add-on %d is inactive", portion.AddOnID)
		}

		product, err = domain.Wrap(product, &addOn, portion.Quantity)
		if err != nil {
			return nil, err
		}
	}

	return product, nil
}
