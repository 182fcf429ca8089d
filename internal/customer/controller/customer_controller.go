package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"snackapp/internal/commons"
	"snackapp/internal/domain"
	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
)

type CreateCustomerUseCase interface {
	CreateCustomer(ctx context.Context, name, email, cpf string) (*domain.Customer, error)
}

type CustomerController struct {
	useCase CreateCustomerUseCase
	logger  *zap.Logger
}

func NewCustomerController(useCase CreateCustomerUseCase, logger *zap.Logger) *CustomerController {
	return &CustomerController{useCase: useCase, logger: logger}
}

func (c *CustomerController) Routes(r chi.Router) {
	r.Post("/api/customers", c.Create)
}

func (c *CustomerController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CustomerCreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var details []apperrors.ValidationDetail
	if req.Name == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.CPF == "" {
		details = append(details, apperrors.ValidationDetail{Field: "cpf", Message: "cpf is required"})
	}
	if len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", details, logger)
		return
	}

	customer, err := c.useCase.CreateCustomer(r.Context(), req.Name, req.Email, req.CPF)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewCustomerResponse(customer), logger)
}
