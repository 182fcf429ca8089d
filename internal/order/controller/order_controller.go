package controller

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snackapp/internal/commons"
	"snackapp/internal/domain"
	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
)

type OrderUseCase interface {
	InitOrder(ctx context.Context, cpf string) (*domain.Order, error)
	AddItems(ctx context.Context, orderID int64, lines []domain.OrderLine) (*domain.Order, error)
	RequestPaymentCreation(ctx context.Context, orderID int64, amount decimal.Decimal, customerID int64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error)
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByFilters(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}

type OrderController struct {
	useCase OrderUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase OrderUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) Routes(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Get("/", c.List)
		r.Post("/init", c.Init)
		r.Post("/payment", c.RequestPayment)
		r.Get("/{orderId}", c.Get)
		r.Post("/{orderId}/items", c.AddItems)
		r.Patch("/{orderId}/status", c.UpdateStatus)
	})
}

func (c *OrderController) Init(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.InitOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.InitOrder(r.Context(), req.CPF)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) AddItems(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := commons.ParseID("orderId", chi.URLParam(r, "orderId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.AddItemsRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if details := validateItems(req.Items); len(details) > 0 {
		commons.WriteValidationError(w, traceID, "validation failed", details, logger)
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		portions := make([]domain.AddOnPortion, 0, len(item.AddOns))
		for _, a := range item.AddOns {
			portions = append(portions, domain.AddOnPortion{AddOnID: a.AddOnID, Quantity: a.Quantity})
		}
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity, AddOns: portions})
	}

	order, err := c.useCase.AddItems(r.Context(), orderID, lines)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), logger)
}

func validateItems(items []dto.ItemRequest) []apperrors.ValidationDetail {
	if len(items) == 0 {
		return []apperrors.ValidationDetail{{Field: "items", Message: "at least one item is required"}}
	}

	var details []apperrors.ValidationDetail
	for i, item := range items {
		if item.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].productId", i),
				Message: "productId must be a positive integer",
			})
		}
		if item.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "quantity must be greater than 0",
			})
		}
		for j, a := range item.AddOns {
			if a.AddOnID <= 0 || a.Quantity <= 0 {
				details = append(details, apperrors.ValidationDetail{
					Field:   fmt.Sprintf("items[%d].addOns[%d]", i, j),
					Message: "addOnId and quantity must be positive",
				})
			}
		}
	}
	return details
}

func (c *OrderController) RequestPayment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.PaymentCreateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if req.OrderID <= 0 {
		commons.WriteValidationError(w, traceID, "validation failed", []apperrors.ValidationDetail{
			{Field: "orderId", Message: "orderId must be a positive integer"},
		}, logger)
		return
	}
	if req.Amount.IsNegative() {
		commons.WriteValidationError(w, traceID, "validation failed", []apperrors.ValidationDetail{
			{Field: "amount", Message: "amount must not be negative"},
		}, logger)
		return
	}

	order, err := c.useCase.RequestPaymentCreation(r.Context(), req.OrderID, req.Amount, req.CustomerID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusAccepted, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := commons.ParseID("orderId", chi.URLParam(r, "orderId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	var req dto.StatusUpdateRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.UpdateStatus(r.Context(), orderID, status)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, err := commons.ParseID("orderId", chi.URLParam(r, "orderId"))
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	order, err := c.useCase.GetOrder(r.Context(), orderID)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(order), logger)
}

// List accepts repeated or comma-separated status parameters. No status
// lists every order.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var statuses []domain.OrderStatus
	for _, raw := range r.URL.Query()["status"] {
		for _, value := range strings.Split(raw, ",") {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			status, err := domain.ParseOrderStatus(value)
			if err != nil {
				commons.WriteError(w, traceID, err, logger)
				return
			}
			statuses = append(statuses, status)
		}
	}

	orders, err := c.useCase.ListByFilters(r.Context(), statuses)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, dto.NewOrderResponse(order))
	}
	commons.WriteJSON(w, http.StatusOK, resp, logger)
}
