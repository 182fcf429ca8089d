package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type OrderResponse struct {
	ID         int64               `json:"id"`
	Status     string              `json:"status"`
	CPF        *string             `json:"cpf"`
	Items      []OrderItemResponse `json:"items"`
	TotalPrice decimal.Decimal     `json:"totalPrice"`
	QRCodeURL  *string             `json:"qrCodeUrl"`
	PaymentID  *string             `json:"paymentId"`
}

type OrderItemResponse struct {
	ProductID   int64                  `json:"productId"`
	ProductName string                 `json:"productName"`
	Quantity    int                    `json:"quantity"`
	UnitPrice   decimal.Decimal        `json:"unitPrice"`
	TotalPrice  decimal.Decimal        `json:"totalPrice"`
	AddOns      []AppliedAddOnResponse `json:"addOns"`
}

type AppliedAddOnResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type ErrorResponse struct {
	TraceID   string                       `json:"traceId"`
	Status    int                          `json:"status"`
	Code      string                       `json:"code"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items()))
	for _, item := range order.Items() {
		items = append(items, NewOrderItemResponse(item))
	}

	resp := OrderResponse{
		ID:         order.ID,
		Status:     string(order.Status()),
		Items:      items,
		TotalPrice: order.TotalPrice(),
		QRCodeURL:  optional(order.QRCodeURL),
		PaymentID:  optional(order.PaymentID),
	}
	if order.Customer != nil {
		resp.CPF = optional(order.Customer.CPF.String())
	}
	return resp
}

func NewOrderItemResponse(item domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ProductID:   item.ProductID(),
		ProductName: item.ProductName(),
		Quantity:    item.Quantity(),
		UnitPrice:   item.UnitPrice(),
		TotalPrice:  item.TotalPrice(),
		AddOns:      NewAppliedAddOnResponses(item.AddOns()),
	}
}

func NewAppliedAddOnResponses(addOns []domain.AppliedAddOn) []AppliedAddOnResponse {
	resp := make([]AppliedAddOnResponse, 0, len(addOns))
	for _, a := range addOns {
		resp = append(resp, AppliedAddOnResponse{
			ID:       a.AddOn.ID,
			Name:     a.AddOn.Name,
			Category: string(a.AddOn.Category),
			Price:    a.AddOn.Price,
			Quantity: a.Quantity,
		})
	}
	return resp
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
