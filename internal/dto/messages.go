package dto

import (
	"github.com/shopspring/decimal"

	"snackapp/internal/domain"
)

// PaymentRequestedMessage asks the payment service to create a payment.
type PaymentRequestedMessage struct {
	OrderID    int64           `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	CustomerID int64           `json:"customerId"`
}

// PaymentCreatedMessage is sent back by the payment service once the QR code
// is available.
type PaymentCreatedMessage struct {
	PaymentID string          `json:"paymentId"`
	OrderID   int64           `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	QRCodeURL string          `json:"qrCodeUrl"`
	Status    string          `json:"status"`
}

type PaymentStatusUpdatedMessage struct {
	OrderID   int64  `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// KitchenDispatchMessage hands a paid order to the kitchen.
type KitchenDispatchMessage struct {
	OrderID int64         `json:"orderId"`
	Items   []KitchenItem `json:"itens"`
}

type KitchenItem struct {
	Name     string         `json:"name"`
	Quantity int            `json:"quantity"`
	AddOns   []KitchenAddOn `json:"addOns"`
}

type KitchenAddOn struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func NewKitchenDispatchMessage(order *domain.Order) KitchenDispatchMessage {
	items := make([]KitchenItem, 0, len(order.Items()))
	for _, item := range order.Items() {
		addOns := make([]KitchenAddOn, 0, len(item.AddOns()))
		for _, a := range item.AddOns() {
			addOns = append(addOns, KitchenAddOn{Name: a.AddOn.Name, Quantity: a.Quantity})
		}
		items = append(items, KitchenItem{
			Name:     item.ProductName(),
			Quantity: item.Quantity(),
			AddOns:   addOns,
		})
	}

	return KitchenDispatchMessage{OrderID: order.ID, Items: items}
}
