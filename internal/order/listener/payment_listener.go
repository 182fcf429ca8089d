// Package listener adapts payment service events to order use case calls.
package listener

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"snackapp/internal/domain"
	"snackapp/internal/dto"
	apperrors "snackapp/internal/errors"
)

type OrderEventHandler interface {
	HandlePaymentCreated(ctx context.Context, paymentID string, orderID int64, amount decimal.Decimal, qrCodeURL string) error
	HandlePaymentStatusUpdated(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

type PaymentListener struct {
	orders OrderEventHandler
	logger *zap.Logger
}

func NewPaymentListener(orders OrderEventHandler, logger *zap.Logger) *PaymentListener {
	return &PaymentListener{
		orders: orders,
		logger: logger,
	}
}

// HandlePaymentCreated consumes dto.PaymentCreatedMessage bodies.
func (l *PaymentListener) HandlePaymentCreated(ctx context.Context, body []byte) error {
	var msg dto.PaymentCreatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return apperrors.NewValidationError("malformed payment created message: " + err.Error())
	}
	if msg.OrderID <= 0 || msg.PaymentID == "" {
		return apperrors.NewValidationError("payment created message requires orderId and paymentId")
	}

	l.logger.Debug("payment created received",
		zap.Int64("orderId", msg.OrderID),
		zap.String("paymentId", msg.PaymentID),
		zap.String("status", msg.Status),
	)
	return l.orders.HandlePaymentCreated(ctx, msg.PaymentID, msg.OrderID, msg.Amount, msg.QRCodeURL)
}

// HandlePaymentStatus consumes dto.PaymentStatusUpdatedMessage bodies.
func (l *PaymentListener) HandlePaymentStatus(ctx context.Context, body []byte) error {
	var msg dto.PaymentStatusUpdatedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return apperrors.NewValidationError("malformed payment status message: " + err.Error())
	}
	if msg.OrderID <= 0 {
		return apperrors.NewValidationError("payment status message requires orderId")
	}

	status, err := domain.ParseOrderStatus(msg.Status)
	if err != nil {
		return err
	}

	l.logger.Debug("payment status received",
		zap.Int64("orderId", msg.OrderID),
		zap.String("paymentId", msg.PaymentID),
		zap.String("status", msg.Status),
	)
	return l.orders.HandlePaymentStatusUpdated(ctx, msg.OrderID, status)
}

// ShouldRequeue sends a failed message back to the queue unless it can never
// succeed. Missing orders are requeued since the order write may not be
// visible yet.
func ShouldRequeue(err error) bool {
	return !apperrors.IsBusinessError(err)
}
