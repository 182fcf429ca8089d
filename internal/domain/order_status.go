package domain

import (
	apperrors "snackapp/internal/errors"
)

type OrderStatus string

const (
	OrderStatusIniciado          OrderStatus = "INICIADO"
	OrderStatusPagamentoPendente OrderStatus = "PAGAMENTO_PENDENTE"
	OrderStatusPagamentoAprovado OrderStatus = "PAGAMENTO_APROVADO"
	OrderStatusPagamentoRecusado OrderStatus = "PAGAMENTO_RECUSADO"
	OrderStatusCancelado         OrderStatus = "CANCELADO"
	OrderStatusConcluido         OrderStatus = "CONCLUIDO"
)

var AllOrderStatuses = []OrderStatus{
	OrderStatusIniciado,
	OrderStatusPagamentoPendente,
	OrderStatusPagamentoAprovado,
	OrderStatusPagamentoRecusado,
	OrderStatusCancelado,
	OrderStatusConcluido,
}

// transitions is the complete set of legal status edges. CANCELADO and
// CONCLUIDO are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusIniciado:          {OrderStatusPagamentoPendente},
	OrderStatusPagamentoPendente: {OrderStatusPagamentoAprovado, OrderStatusPagamentoRecusado},
	OrderStatusPagamentoRecusado: {OrderStatusCancelado, OrderStatusPagamentoPendente},
	OrderStatusPagamentoAprovado: {OrderStatusConcluido},
}

// settledBy maps a payment outcome to the status the order reaches once that
// outcome has been fully handled.
var settledBy = map[OrderStatus]OrderStatus{
	OrderStatusPagamentoRecusado: OrderStatusCancelado,
	OrderStatusPagamentoAprovado: OrderStatusConcluido,
}

func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, s := range AllOrderStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", apperrors.NewInvalidArgumentError("invalid order status %q", value)
}

// Transitions returns a copy of the transition table.
func Transitions() map[OrderStatus][]OrderStatus {
	table := make(map[OrderStatus][]OrderStatus, len(transitions))
	for from, to := range transitions {
		table[from] = append([]OrderStatus(nil), to...)
	}
	return table
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// TransitionTo moves the order to status. Item-less orders never change
// status.
func (o *Order) TransitionTo(status OrderStatus) error {
	if len(o.items) == 0 {
		return apperrors.NewPreconditionFailedError("cannot change status of an item-less order")
	}
	if !CanTransition(o.status, status) {
		return apperrors.NewInvalidTransitionError(string(o.status), string(status))
	}

	o.status = status
	return nil
}

// HasApplied reports whether status was already applied to the order, either
// because the order is in it or because it already moved on to the status
// that settles it.
func (o *Order) HasApplied(status OrderStatus) bool {
	if o.status == status {
		return true
	}
	next, ok := settledBy[status]
	return ok && o.status == next
}
