package product

import (
	"context"

	"go.uber.org/zap"

	"snackapp/internal/domain"
)

type catalogUseCase struct {
	repo      Repository
	addOnRepo AddOnRepository
	service   Service
	logger    *zap.Logger
}

func NewCatalogUseCase(repo Repository, addOnRepo AddOnRepository, service Service, logger *zap.Logger) CatalogUseCase {
	return &catalogUseCase{
		repo:      repo,
		addOnRepo: addOnRepo,
		service:   service,
		logger:    logger,
	}
}

func (uc *catalogUseCase) CreateProduct(ctx context.Context, req ProductCreateRequest) (domain.ProductDefinition, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.ProductDefinition{}, err
	}

	p, err := domain.NewProductDefinition(req.Name, category, req.Price, req.Description)
	if err != nil {
		return domain.ProductDefinition{}, err
	}

	saved, err := uc.repo.Save(ctx, p)
	if err != nil {
		return domain.ProductDefinition{}, err
	}

	uc.logger.Info("product created", zap.Int64("productId", saved.ID))
	return saved, nil
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id int64) (domain.ProductDefinition, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filter domain.CatalogFilter) ([]domain.ProductDefinition, error) {
	return uc.repo.FindByFilters(ctx, filter)
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, id int64, req ProductUpdateRequest) (domain.ProductDefinition, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return domain.ProductDefinition{}, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return domain.ProductDefinition{}, err
		}
		p.Category = category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := domain.ValidateCatalogEntry(p.Name, p.Price); err != nil {
		return domain.ProductDefinition{}, err
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return domain.ProductDefinition{}, err
	}

	uc.logger.Info("product updated", zap.Int64("productId", id))
	return p, nil
}

// DeleteProduct deactivates the product. It stays readable.
func (uc *catalogUseCase) DeleteProduct(ctx context.Context, id int64) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Active {
		return nil
	}

	p.Active = false
	if err := uc.repo.Update(ctx, p); err != nil {
		return err
	}

	uc.logger.Info("product deactivated", zap.Int64("productId", id))
	return nil
}

func (uc *catalogUseCase) CreateAddOn(ctx context.Context, req AddOnCreateRequest) (domain.AddOnDefinition, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.AddOnDefinition{}, err
	}

	a, err := domain.NewAddOnDefinition(req.Name, category, req.Price)
	if err != nil {
		return domain.AddOnDefinition{}, err
	}

	saved, err := uc.addOnRepo.Save(ctx, a)
	if err != nil {
		return domain.AddOnDefinition{}, err
	}

	uc.logger.Info("add-on created", zap.Int64("addOnId", saved.ID))
	return saved, nil
}

func (uc *catalogUseCase) GetAddOn(ctx context.Context, id int64) (domain.AddOnDefinition, error) {
	return uc.addOnRepo.FindByID(ctx, id)
}

func (uc *catalogUseCase) ListAddOns(ctx context.Context, filter domain.CatalogFilter) ([]domain.AddOnDefinition, error) {
	return uc.addOnRepo.FindByFilters(ctx, filter)
}

func (uc *catalogUseCase) UpdateAddOn(ctx context.Context, id int64, req AddOnUpdateRequest) (domain.AddOnDefinition, error) {
	a, err := uc.addOnRepo.FindByID(ctx, id)
	if err != nil {
		return domain.AddOnDefinition{}, err
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Category != nil {
		category, err := domain.ParseCategory(*req.Category)
		if err != nil {
			return domain.AddOnDefinition{}, err
		}
		a.Category = category
	}
	if req.Price != nil {
		a.Price = *req.Price
	}
	if req.Active != nil {
		a.Active = *req.Active
	}

	if err := domain.ValidateCatalogEntry(a.Name, a.Price); err != nil {
		return domain.AddOnDefinition{}, err
	}

	if err := uc.addOnRepo.Update(ctx, a); err != nil {
		return domain.AddOnDefinition{}, err
	}

	uc.logger.Info("add-on updated", zap.Int64("addOnId", id))
	return a, nil
}

func (uc *catalogUseCase) DeleteAddOn(ctx context.Context, id int64) error {
	a, err := uc.addOnRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.Active {
		return nil
	}

	a.Active = false
	if err := uc.addOnRepo.Update(ctx, a); err != nil {
		return err
	}

	uc.logger.Info("add-on deactivated", zap.Int64("addOnId", id))
	return nil
}

// CustomizeProduct previews the composed price of a product with add-ons.
// Nothing is persisted.
func (uc *catalogUseCase) CustomizeProduct(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error) {
	return uc.service.Customize(ctx, productID, portions)
}
