package listener

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type mockOrderEventHandler struct {
	HandlePaymentCreatedFunc       func(ctx context.Context, paymentID string, orderID int64, amount decimal.Decimal, qrCodeURL string) error
	HandlePaymentStatusUpdatedFunc func(ctx context.Context, orderID int64, status domain.OrderStatus) error
}

func (m *mockOrderEventHandler) HandlePaymentCreated(ctx context.Context, paymentID string, orderID int64, amount decimal.Decimal, qrCodeURL string) error {
	return m.HandlePaymentCreatedFunc(ctx, paymentID, orderID, amount, qrCodeURL)
}

func (m *mockOrderEventHandler) HandlePaymentStatusUpdated(ctx context.Context, orderID int64, status domain.OrderStatus) error {
	return m.HandlePaymentStatusUpdatedFunc(ctx, orderID, status)
}

func TestHandlePaymentCreated_DecodesMessage(t *testing.T) {
	var gotPayment, gotQR string
	var gotOrder int64
	var gotAmount decimal.Decimal
	handler := &mockOrderEventHandler{
		HandlePaymentCreatedFunc: func(ctx context.Context, paymentID string, orderID int64, amount decimal.Decimal, qrCodeURL string) error {
			gotPayment, gotOrder, gotAmount, gotQR = paymentID, orderID, amount, qrCodeURL
			return nil
		},
	}
	l := NewPaymentListener(handler, zap.NewNop())

	body := []byte(`{"paymentId":"pay-1","orderId":12,"amount":"52.00","qrCodeUrl":"https://qr/12","status":"PENDING"}`)
	err := l.HandlePaymentCreated(context.Background(), body)

	require.NoError(t, err)
	assert.Equal(t, "pay-1", gotPayment)
	assert.Equal(t, int64(12), gotOrder)
	assert.True(t, decimal.RequireFromString("52.00").Equal(gotAmount))
	assert.Equal(t, "https://qr/12", gotQR)
}

func TestHandlePaymentCreated_Malformed(t *testing.T) {
	l := NewPaymentListener(&mockOrderEventHandler{}, zap.NewNop())

	for name, body := range map[string]string{
		"not json":      `{"orderId":`,
		"missing order": `{"paymentId":"pay-1"}`,
		"missing id":    `{"orderId":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			err := l.HandlePaymentCreated(context.Background(), []byte(body))

			_, ok := apperrors.IsValidationError(err)
			assert.True(t, ok)
			assert.False(t, ShouldRequeue(err))
		})
	}
}

func TestHandlePaymentStatus_ParsesStatus(t *testing.T) {
	var got domain.OrderStatus
	handler := &mockOrderEventHandler{
		HandlePaymentStatusUpdatedFunc: func(ctx context.Context, orderID int64, status domain.OrderStatus) error {
			assert.Equal(t, int64(4), orderID)
			got = status
			return nil
		},
	}
	l := NewPaymentListener(handler, zap.NewNop())

	err := l.HandlePaymentStatus(context.Background(), []byte(`{"orderId":4,"paymentId":"pay-4","status":"PAGAMENTO_APROVADO"}`))

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPagamentoAprovado, got)
}

func TestHandlePaymentStatus_UnknownStatusIsRejected(t *testing.T) {
	l := NewPaymentListener(&mockOrderEventHandler{}, zap.NewNop())

	err := l.HandlePaymentStatus(context.Background(), []byte(`{"orderId":4,"status":"PAID"}`))

	_, ok := apperrors.IsInvalidArgumentError(err)
	assert.True(t, ok)
	assert.False(t, ShouldRequeue(err))
}

func TestHandlePaymentStatus_PropagatesHandlerError(t *testing.T) {
	handlerErr := apperrors.NewNotFoundError("order", 4)
	handler := &mockOrderEventHandler{
		HandlePaymentStatusUpdatedFunc: func(ctx context.Context, orderID int64, status domain.OrderStatus) error {
			return handlerErr
		},
	}
	l := NewPaymentListener(handler, zap.NewNop())

	err := l.HandlePaymentStatus(context.Background(), []byte(`{"orderId":4,"status":"PAGAMENTO_RECUSADO"}`))

	assert.ErrorIs(t, err, handlerErr)
}

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", apperrors.NewNotFoundError("order", 1), true},
		{"conflict", apperrors.NewConflictError("order 1 is busy"), true},
		{"infrastructure", errors.New("connection refused"), true},
		{"invalid transition", apperrors.NewInvalidTransitionError("INICIADO", "CONCLUIDO"), false},
		{"precondition", apperrors.NewPreconditionFailedError("no items"), false},
		{"validation", apperrors.NewValidationError("bad body"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldRequeue(tt.err))
		})
	}
}
