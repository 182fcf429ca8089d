package service

import (
	"context"
	"database/sql"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"snackapp/internal/domain"
	"snackapp/internal/order/repository"
)

const (
	saveTimeout = 5 * time.Second
	baseBackoff = 50 * time.Millisecond
)

type Tx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Commit() error
	Rollback() error
}

type TransactionManager interface {
	Begin(ctx context.Context) (Tx, error)
}

type sqlTransactionManager struct {
	db *sql.DB
}

func NewSQLTransactionManager(db *sql.DB) TransactionManager {
	return &sqlTransactionManager{db: db}
}

func (m *sqlTransactionManager) Begin(ctx context.Context) (Tx, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

type OrderRepository interface {
	Insert(ctx context.Context, exec repository.Execer, order *domain.Order) (int64, error)
	Update(ctx context.Context, exec repository.Execer, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	FindByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, exec repository.Execer, orderID int64, item domain.OrderItem) (int64, error)
	FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error)
}

// OrderStore persists whole Order aggregates. A save writes the order header
// and every line not yet persisted in one transaction.
type OrderStore struct {
	txm         TransactionManager
	orders      OrderRepository
	items       OrderItemRepository
	logger      *zap.Logger
	maxAttempts int
}

func NewOrderStore(
	txm TransactionManager,
	orders OrderRepository,
	items OrderItemRepository,
	logger *zap.Logger,
	maxAttempts int,
) *OrderStore {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OrderStore{
		txm:         txm,
		orders:      orders,
		items:       items,
		logger:      logger,
		maxAttempts: maxAttempts,
	}
}

// Save inserts or updates order and retries the transaction when MySQL
// reports a deadlock or lock wait timeout. The order's id and line ids are
// only filled in once the transaction commits.
func (s *OrderStore) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	for attempt := 1; ; attempt++ {
		err := s.save(ctx, order)
		if err == nil {
			return order, nil
		}

		if !isDeadlockError(err) || attempt >= s.maxAttempts {
			return nil, err
		}

		// ±20% jitter around an exponential base
		backoff := baseBackoff << (attempt - 1)
		wait := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		s.logger.Warn("deadlock detected, retrying",
			zap.Int64("orderId", order.ID),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", s.maxAttempts),
			zap.Duration("backoff", wait),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (s *OrderStore) save(ctx context.Context, order *domain.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()

	tx, err := s.txm.Begin(txCtx)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// no-op once committed
	defer tx.Rollback()

	orderID := order.ID
	if orderID == 0 {
		orderID, err = s.orders.Insert(txCtx, tx, order)
	} else {
		err = s.orders.Update(txCtx, tx, order)
	}
	if err != nil {
		return err
	}

	items := order.Items()
	inserted := 0
	for i, item := range items {
		if item.ID() != 0 {
			continue
		}
		itemID, err := s.items.Insert(txCtx, tx, orderID, item)
		if err != nil {
			return err
		}
		items[i] = item.WithID(itemID)
		inserted++
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Int64("orderId", orderID), zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	if order.ID == 0 {
		order.CreatedAt = now
	}
	order.ID = orderID
	order.UpdatedAt = now
	order.ReplaceItems(items)

	s.logger.Debug("order saved",
		zap.Int64("orderId", orderID),
		zap.String("status", string(order.Status())),
		zap.Int("insertedItems", inserted),
	)
	return nil
}

func (s *OrderStore) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.items.FindByOrderIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}

	order.ReplaceItems(items[id])
	return order, nil
}

// FindByFilters returns the orders in any of statuses. An empty list matches
// every order.
func (s *OrderStore) FindByFilters(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	orders, err := s.orders.FindByStatuses(ctx, statuses)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}

	items, err := s.items.FindByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		o.ReplaceItems(items[o.ID])
	}
	return orders, nil
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
