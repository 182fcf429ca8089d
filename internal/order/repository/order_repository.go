package repository

import (
	"context"
	"database/sql"
	"fmt"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, exec Execer, order *domain.Order) (int64, error) {
	query := `INSERT INTO Orders (customerId, status, paymentId, qrCodeUrl, kitchenDispatched) VALUES (?, ?, ?, ?, ?)`

	result, err := exec.ExecContext(ctx, query,
		nullInt64(order.CustomerID()), string(order.Status()),
		nullString(order.PaymentID), nullString(order.QRCodeURL), order.KitchenDispatched,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return id, nil
}

// Update writes the mutable order fields: status, payment data and the
// kitchen dispatch flag.
func (r *MySQLOrderRepository) Update(ctx context.Context, exec Execer, order *domain.Order) error {
	query := `UPDATE Orders SET status = ?, paymentId = ?, qrCodeUrl = ?, kitchenDispatched = ? WHERE id = ?`

	_, err := exec.ExecContext(ctx, query,
		string(order.Status()), nullString(order.PaymentID), nullString(order.QRCodeURL),
		order.KitchenDispatched, order.ID,
	)
	if err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	return nil
}

const orderSelect = `
	SELECT o.id, o.status, o.paymentId, o.qrCodeUrl, o.kitchenDispatched, o.createdAt, o.updatedAt,
	       c.id, c.name, c.email, c.cpf
	FROM Orders o
	LEFT JOIN Customers c ON c.id = o.customerId`

// FindByID loads the order header and its customer. Items are loaded
// separately by the order item repository.
func (r *MySQLOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := orderSelect + ` WHERE o.id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("order", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return order, nil
}

// FindByStatuses returns the orders in any of statuses, oldest first. An empty
// list returns every order.
func (r *MySQLOrderRepository) FindByStatuses(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	query := orderSelect
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		for _, s := range statuses {
			args = append(args, string(s))
		}
		query += fmt.Sprintf(` WHERE o.status IN (%s)`, placeholders(len(statuses)))
	}
	query += ` ORDER BY o.createdAt, o.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		id                   int64
		status               string
		paymentID, qrCodeURL sql.NullString
		kitchenDispatched    bool
		createdAt, updatedAt sql.NullTime
		customerID           sql.NullInt64
		name, email, cpf     sql.NullString
	)

	err := row.Scan(&id, &status, &paymentID, &qrCodeURL, &kitchenDispatched, &createdAt, &updatedAt,
		&customerID, &name, &email, &cpf)
	if err != nil {
		return nil, err
	}

	var customer *domain.Customer
	if customerID.Valid {
		customer = &domain.Customer{
			ID:    customerID.Int64,
			Name:  name.String,
			Email: domain.Email(email.String),
			CPF:   domain.CPF(cpf.String),
		}
	}

	order := domain.RestoreOrder(id, customer, domain.OrderStatus(status), nil, paymentID.String, qrCodeURL.String)
	order.KitchenDispatched = kitchenDispatched
	order.CreatedAt = createdAt.Time
	order.UpdatedAt = updatedAt.Time
	return order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
