package dto

import "github.com/shopspring/decimal"

type InitOrderRequest struct {
	CPF string `json:"cpf"`
}

type AddItemsRequest struct {
	Items []ItemRequest `json:"items"`
}

type ItemRequest struct {
	ProductID int64                 `json:"productId"`
	Quantity  int                   `json:"quantity"`
	AddOns    []AddOnPortionRequest `json:"addOns"`
}

type AddOnPortionRequest struct {
	AddOnID  int64 `json:"addOnId"`
	Quantity int   `json:"quantity"`
}

type PaymentCreateRequest struct {
	OrderID    int64           `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	CustomerID int64           `json:"customerId"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
