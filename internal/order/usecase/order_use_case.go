package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snackapp/internal/domain"
	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
	"snackapp/internal/lock"
	"snackapp/internal/messaging"
)

const (
	placeholderCustomerName  = "Cliente"
	placeholderCustomerEmail = "default@email.com"
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error)
}

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByFilters(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}

// ProductService resolves a product plus add-on portions into an orderable
// Product.
type ProductService interface {
	Customize(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error)
}

type Topics struct {
	PaymentRequest messaging.Topic
	Kitchen        messaging.Topic
}

// OrderUseCase is the only writer of order state. Every mutation of one order
// runs under that order's lock.
type OrderUseCase struct {
	customers CustomerRepository
	orders    OrderRepository
	products  ProductService
	locker    lock.Locker
	publisher messaging.Publisher
	topics    Topics
	logger    *zap.Logger
}

func NewOrderUseCase(
	customers CustomerRepository,
	orders OrderRepository,
	products ProductService,
	locker lock.Locker,
	publisher messaging.Publisher,
	topics Topics,
	logger *zap.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		customers: customers,
		orders:    orders,
		products:  products,
		locker:    locker,
		publisher: publisher,
		topics:    topics,
		logger:    logger,
	}
}

// InitOrder opens an order for the customer with cpf, registering a
// placeholder customer the first time a cpf is seen. An empty cpf opens an
// anonymous order.
func (uc *OrderUseCase) InitOrder(ctx context.Context, cpf string) (*domain.Order, error) {
	var customer *domain.Customer
	if cpf != "" {
		var err error
		customer, err = uc.resolveCustomer(ctx, cpf)
		if err != nil {
			return nil, err
		}
	}

	order, err := uc.orders.Save(ctx, domain.NewOrder(customer))
	if err != nil {
		return nil, err
	}

	uc.logger.Info("order initiated", zap.Int64("orderId", order.ID), zap.Int64("customerId", order.CustomerID()))
	return order, nil
}

func (uc *OrderUseCase) resolveCustomer(ctx context.Context, cpf string) (*domain.Customer, error) {
	validCPF, err := domain.NewCPF(cpf)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customers.FindByCPF(ctx, validCPF)
	if err == nil {
		return customer, nil
	}
	if _, ok := apperrors.IsNotFoundError(err); !ok {
		return nil, err
	}

	placeholder, err := domain.NewCustomer(placeholderCustomerName, placeholderCustomerEmail, cpf)
	if err != nil {
		return nil, err
	}

	customer, err = uc.customers.Save(ctx, placeholder)
	if _, ok := apperrors.IsConflictError(err); ok {
		// registered concurrently by another request
		return uc.customers.FindByCPF(ctx, validCPF)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("placeholder customer created", zap.Int64("customerId", customer.ID))
	return customer, nil
}

// AddItems appends one line per request and saves the order once, so a
// failure on any line commits none of them. Lines can only be added while the
// order is INICIADO.
func (uc *OrderUseCase) AddItems(ctx context.Context, orderID int64, lines []domain.OrderLine) (*domain.Order, error) {
	var result *domain.Order
	err := uc.withOrderLock(ctx, orderID, func() error {
		order, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status() != domain.OrderStatusIniciado {
			return apperrors.NewPreconditionFailedError("cannot add items to order %d in status %s", orderID, order.Status())
		}

		for _, line := range lines {
			product, err := uc.products.Customize(ctx, line.ProductID, line.AddOns)
			if err != nil {
				return err
			}
			item, err := domain.NewOrderItem(product, line.Quantity)
			if err != nil {
				return err
			}
			order.AddItem(item)
		}

		result, err = uc.orders.Save(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("items added",
		zap.Int64("orderId", orderID),
		zap.Int("itemCount", len(lines)),
		zap.String("totalPrice", result.TotalPrice().StringFixed(2)),
	)
	return result, nil
}

// RequestPaymentCreation moves the order to PAGAMENTO_PENDENTE and then asks
// the payment service for a payment. A zero amount defaults to the order
// total and a zero customerID to the order's customer. Calling it again for
// a pending order that has no payment yet re-sends the request.
func (uc *OrderUseCase) RequestPaymentCreation(ctx context.Context, orderID int64, amount decimal.Decimal, customerID int64) (*domain.Order, error) {
	var result *domain.Order
	err := uc.withOrderLock(ctx, orderID, func() error {
		order, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if order.Status() == domain.OrderStatusPagamentoPendente && order.PaymentID == "" {
			uc.logger.Info("payment request not answered yet, sending again", zap.Int64("orderId", orderID))
			result = order
		} else {
			if err := order.TransitionTo(domain.OrderStatusPagamentoPendente); err != nil {
				return err
			}
			if result, err = uc.orders.Save(ctx, order); err != nil {
				return err
			}
		}

		if amount.IsZero() {
			amount = order.TotalPrice()
		}
		if customerID == 0 {
			customerID = order.CustomerID()
		}

		msg := dto.PaymentRequestedMessage{OrderID: orderID, Amount: amount, CustomerID: customerID}
		if err := uc.publisher.Publish(ctx, uc.topics.PaymentRequest, msg); err != nil {
			return fmt.Errorf("requesting payment for order %d: %w", orderID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("payment requested", zap.Int64("orderId", orderID), zap.String("amount", amount.StringFixed(2)))
	return result, nil
}

// HandlePaymentCreated records the payment id and QR code sent back by the
// payment service. Redelivering the same event leaves the order unchanged.
func (uc *OrderUseCase) HandlePaymentCreated(ctx context.Context, paymentID string, orderID int64, amount decimal.Decimal, qrCodeURL string) error {
	return uc.withOrderLock(ctx, orderID, func() error {
		order, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		changed := order.PaymentID != paymentID || order.QRCodeURL != qrCodeURL
		order.AttachPayment(paymentID, qrCodeURL)

		// a status event may already have moved the order past PENDENTE
		if order.Status() == domain.OrderStatusIniciado {
			if err := order.TransitionTo(domain.OrderStatusPagamentoPendente); err != nil {
				return err
			}
			changed = true
		}

		if !amount.IsZero() && !amount.Equal(order.TotalPrice()) {
			uc.logger.Warn("payment amount differs from order total",
				zap.Int64("orderId", orderID),
				zap.String("amount", amount.StringFixed(2)),
				zap.String("totalPrice", order.TotalPrice().StringFixed(2)),
			)
		}

		if !changed {
			uc.logger.Debug("payment already attached", zap.Int64("orderId", orderID), zap.String("paymentId", paymentID))
			return nil
		}

		if _, err := uc.orders.Save(ctx, order); err != nil {
			return err
		}

		uc.logger.Info("payment attached", zap.Int64("orderId", orderID), zap.String("paymentId", paymentID))
		return nil
	})
}

// HandlePaymentStatusUpdated applies a payment outcome. An approved payment
// dispatches the order to the kitchen; a refused one cancels the order. A
// status the order already went through is ignored, unless its follow-up
// step did not complete, in which case that step is run again.
func (uc *OrderUseCase) HandlePaymentStatusUpdated(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	return uc.withOrderLock(ctx, orderID, func() error {
		order, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		resume := order.Status() == status && followUpPending(order)
		if order.HasApplied(status) && !resume {
			uc.logger.Info("payment status already applied",
				zap.Int64("orderId", orderID),
				zap.String("status", string(status)),
				zap.String("current", string(order.Status())),
			)
			return nil
		}

		if resume {
			uc.logger.Info("resuming payment status follow-up",
				zap.Int64("orderId", orderID),
				zap.String("status", string(status)),
			)
		} else {
			from := order.Status()
			if err := order.TransitionTo(status); err != nil {
				return err
			}
			if _, err := uc.orders.Save(ctx, order); err != nil {
				return err
			}
			uc.logger.Info("order status changed",
				zap.Int64("orderId", orderID),
				zap.String("from", string(from)),
				zap.String("to", string(status)),
			)
		}

		switch status {
		case domain.OrderStatusPagamentoAprovado:
			return uc.dispatchToKitchen(ctx, order)

		case domain.OrderStatusPagamentoRecusado:
			if err := order.TransitionTo(domain.OrderStatusCancelado); err != nil {
				return err
			}
			if _, err := uc.orders.Save(ctx, order); err != nil {
				return err
			}
			uc.logger.Info("order cancelled after payment refusal", zap.Int64("orderId", orderID))
		}

		return nil
	})
}

// followUpPending reports whether the order sits in a payment outcome whose
// follow-up step has not been recorded.
func followUpPending(order *domain.Order) bool {
	switch order.Status() {
	case domain.OrderStatusPagamentoAprovado:
		return !order.KitchenDispatched
	case domain.OrderStatusPagamentoRecusado:
		return true
	}
	return false
}

// dispatchToKitchen publishes the order and then records the dispatch. When
// recording fails the next delivery publishes again, so the kitchen may see
// an order twice but never misses one.
func (uc *OrderUseCase) dispatchToKitchen(ctx context.Context, order *domain.Order) error {
	msg := dto.NewKitchenDispatchMessage(order)
	if err := uc.publisher.Publish(ctx, uc.topics.Kitchen, msg); err != nil {
		uc.logger.Error("kitchen dispatch failed", zap.Int64("orderId", order.ID), zap.Error(err))
		return fmt.Errorf("dispatching order %d to kitchen: %w", order.ID, err)
	}

	order.KitchenDispatched = true
	if _, err := uc.orders.Save(ctx, order); err != nil {
		return fmt.Errorf("recording kitchen dispatch of order %d: %w", order.ID, err)
	}

	uc.logger.Info("order sent to kitchen", zap.Int64("orderId", order.ID), zap.Int("itemCount", len(msg.Items)))
	return nil
}

// UpdateStatus applies a manual status change.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	var result *domain.Order
	err := uc.withOrderLock(ctx, orderID, func() error {
		order, err := uc.orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		from := order.Status()
		if err := order.TransitionTo(status); err != nil {
			return err
		}
		if result, err = uc.orders.Save(ctx, order); err != nil {
			return err
		}

		uc.logger.Info("order status changed",
			zap.Int64("orderId", orderID),
			zap.String("from", string(from)),
			zap.String("to", string(status)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return uc.orders.FindByID(ctx, orderID)
}

// ListByFilters returns the orders in any of statuses; the store defines what
// an empty list matches.
func (uc *OrderUseCase) ListByFilters(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	return uc.orders.FindByFilters(ctx, statuses)
}

func (uc *OrderUseCase) withOrderLock(ctx context.Context, orderID int64, fn func() error) error {
	unlock, err := uc.locker.Lock(ctx, fmt.Sprintf("order:%d", orderID))
	if errors.Is(err, lock.ErrNotAcquired) {
		uc.logger.Warn("order is locked by another operation", zap.Int64("orderId", orderID))
		return apperrors.NewConflictError(fmt.Sprintf("order %d is being modified, try again", orderID))
	}
	if err != nil {
		return fmt.Errorf("locking order %d: %w", orderID, err)
	}
	defer unlock()

	return fn()
}
