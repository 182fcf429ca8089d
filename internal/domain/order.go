package domain

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "snackapp/internal/errors"
)

// OrderItem is one order line. Product name and prices are captured when the
// item is created so later catalog changes do not alter the order.
type OrderItem struct {
	id          int64
	productID   int64
	productName string
	unitPrice   decimal.Decimal
	quantity    int
	addOns      []AppliedAddOn
}

// NewOrderItem snapshots product, including any add-ons applied to it.
func NewOrderItem(product Product, quantity int) (OrderItem, error) {
	if product == nil {
		return OrderItem{}, apperrors.NewInvalidArgumentError("product is required")
	}
	if quantity <= 0 {
		return OrderItem{}, apperrors.NewInvalidArgumentError("item quantity must be positive, got %d", quantity)
	}

	def := product.Definition()
	return OrderItem{
		productID:   def.ID,
		productName: def.Name,
		unitPrice:   def.Price,
		quantity:    quantity,
		addOns:      product.AppliedAddOns(),
	}, nil
}

// RestoreOrderItem rebuilds a persisted line without re-reading the catalog.
func RestoreOrderItem(id, productID int64, productName string, unitPrice decimal.Decimal, quantity int, addOns []AppliedAddOn) OrderItem {
	return OrderItem{
		id:          id,
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
		addOns:      append([]AppliedAddOn(nil), addOns...),
	}
}

func (i OrderItem) ID() int64                  { return i.id }
func (i OrderItem) ProductID() int64           { return i.productID }
func (i OrderItem) ProductName() string        { return i.productName }
func (i OrderItem) UnitPrice() decimal.Decimal { return i.unitPrice }
func (i OrderItem) Quantity() int              { return i.quantity }

func (i OrderItem) AddOns() []AppliedAddOn {
	return append([]AppliedAddOn(nil), i.addOns...)
}

// TotalPrice is (unit price + sum of add-on costs) * quantity.
func (i OrderItem) TotalPrice() decimal.Decimal {
	unit := i.unitPrice
	for _, a := range i.addOns {
		unit = unit.Add(a.Cost())
	}
	return unit.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// WithID returns a copy of the line carrying its persisted id.
func (i OrderItem) WithID(id int64) OrderItem {
	i.id = id
	i.addOns = append([]AppliedAddOn(nil), i.addOns...)
	return i
}

// Order is the aggregate for one purchase. ID is zero until persisted and
// Customer is nil for anonymous orders.
type Order struct {
	ID        int64
	Customer  *Customer
	PaymentID string
	QRCodeURL string

	// KitchenDispatched is set once the kitchen has been sent this order.
	KitchenDispatched bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	status OrderStatus
	items  []OrderItem
}

func NewOrder(customer *Customer) *Order {
	return &Order{
		Customer: customer,
		status:   OrderStatusIniciado,
		items:    []OrderItem{},
	}
}

func RestoreOrder(id int64, customer *Customer, status OrderStatus, items []OrderItem, paymentID, qrCodeURL string) *Order {
	return &Order{
		ID:        id,
		Customer:  customer,
		PaymentID: paymentID,
		QRCodeURL: qrCodeURL,
		status:    status,
		items:     append([]OrderItem{}, items...),
	}
}

func (o *Order) Status() OrderStatus {
	return o.status
}

func (o *Order) Items() []OrderItem {
	return append([]OrderItem(nil), o.items...)
}

func (o *Order) AddItem(item OrderItem) {
	o.items = append(o.items, item)
}

// ReplaceItems swaps in the persisted copies of the lines, in the same order.
func (o *Order) ReplaceItems(items []OrderItem) {
	o.items = append([]OrderItem{}, items...)
}

func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// AttachPayment records the payment created for this order.
func (o *Order) AttachPayment(paymentID, qrCodeURL string) {
	o.PaymentID = paymentID
	o.QRCodeURL = qrCodeURL
}

func (o *Order) CustomerID() int64 {
	if o.Customer == nil {
		return 0
	}
	return o.Customer.ID
}
