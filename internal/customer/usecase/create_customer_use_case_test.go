package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type mockCustomerRepository struct {
	SaveFunc      func(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByCPFFunc func(ctx context.Context, cpf domain.CPF) (*domain.Customer, error)
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return m.SaveFunc(ctx, customer)
}

func (m *mockCustomerRepository) FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
	return m.FindByCPFFunc(ctx, cpf)
}

func notFound(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
	return nil, apperrors.NewNotFoundError("customer", cpf)
}

func TestCreateCustomer_Success(t *testing.T) {
	repo := &mockCustomerRepository{
		FindByCPFFunc: notFound,
		SaveFunc: func(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
			saved := *customer
			saved.ID = 10
			return &saved, nil
		},
	}

	uc := NewCreateCustomerUseCase(repo, zap.NewNop())

	customer, err := uc.CreateCustomer(context.Background(), "Maria", "maria@example.com", "12345678900")
	require.NoError(t, err)
	assert.Equal(t, int64(10), customer.ID)
	assert.Equal(t, domain.CPF("12345678900"), customer.CPF)
}

func TestCreateCustomer_InvalidCPF(t *testing.T) {
	uc := NewCreateCustomerUseCase(&mockCustomerRepository{}, zap.NewNop())

	_, err := uc.CreateCustomer(context.Background(), "Maria", "", "123")

	_, ok := apperrors.IsInvalidArgumentError(err)
	assert.True(t, ok)
}

func TestCreateCustomer_AlreadyExists(t *testing.T) {
	repo := &mockCustomerRepository{
		FindByCPFFunc: func(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
			return &domain.Customer{ID: 1, CPF: cpf}, nil
		},
	}

	uc := NewCreateCustomerUseCase(repo, zap.NewNop())

	_, err := uc.CreateCustomer(context.Background(), "Maria", "", "12345678900")

	_, ok := apperrors.IsConflictError(err)
	assert.True(t, ok)
}

func TestCreateCustomer_LookupFails(t *testing.T) {
	dbErr := errors.New("db down")
	repo := &mockCustomerRepository{
		FindByCPFFunc: func(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
			return nil, dbErr
		},
	}

	uc := NewCreateCustomerUseCase(repo, zap.NewNop())

	_, err := uc.CreateCustomer(context.Background(), "Maria", "", "12345678900")
	assert.ErrorIs(t, err, dbErr)
}
