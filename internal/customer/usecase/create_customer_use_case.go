package usecase

import (
	"context"

	"go.uber.org/zap"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error)
}

type CreateCustomerUseCase struct {
	repo   CustomerRepository
	logger *zap.Logger
}

func NewCreateCustomerUseCase(repo CustomerRepository, logger *zap.Logger) *CreateCustomerUseCase {
	return &CreateCustomerUseCase{repo: repo, logger: logger}
}

// CreateCustomer registers a customer. A cpf can only be registered once.
func (uc *CreateCustomerUseCase) CreateCustomer(ctx context.Context, name, email, cpf string) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(name, email, cpf)
	if err != nil {
		return nil, err
	}

	_, err = uc.repo.FindByCPF(ctx, customer.CPF)
	if err == nil {
		return nil, apperrors.NewConflictError("customer with cpf " + customer.CPF.String() + " already exists")
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	saved, err := uc.repo.Save(ctx, customer)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("customer created", zap.Int64("customerId", saved.ID))
	return saved, nil
}
