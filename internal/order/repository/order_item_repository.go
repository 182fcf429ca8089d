package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"snackapp/internal/domain"
)

type MySQLOrderItemRepository struct {
	db *sql.DB
}

func NewMySQLOrderItemRepository(db *sql.DB) *MySQLOrderItemRepository {
	return &MySQLOrderItemRepository{db: db}
}

// Insert stores the line and a snapshot of each applied add-on.
func (r *MySQLOrderItemRepository) Insert(ctx context.Context, exec Execer, orderID int64, item domain.OrderItem) (int64, error) {
	query := `INSERT INTO OrderItems (orderId, productId, productName, unitPrice, quantity) VALUES (?, ?, ?, ?, ?)`

	result, err := exec.ExecContext(ctx, query, orderID, item.ProductID(), item.ProductName(), item.UnitPrice(), item.Quantity())
	if err != nil {
		return 0, fmt.Errorf("inserting order item: %w", err)
	}

	itemID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	addOnQuery := `INSERT INTO OrderItemAddOns (orderItemId, addOnId, name, category, price, quantity) VALUES (?, ?, ?, ?, ?, ?)`
	for _, a := range item.AddOns() {
		_, err := exec.ExecContext(ctx, addOnQuery, itemID, a.AddOn.ID, a.AddOn.Name, string(a.AddOn.Category), a.AddOn.Price, a.Quantity)
		if err != nil {
			return 0, fmt.Errorf("inserting order item add-on: %w", err)
		}
	}

	return itemID, nil
}

type itemRow struct {
	orderID     int64
	id          int64
	productID   int64
	productName string
	unitPrice   decimal.Decimal
	quantity    int
}

// FindByOrderIDs returns the lines of each order keyed by order id, in
// insertion order.
func (r *MySQLOrderItemRepository) FindByOrderIDs(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	result := make(map[int64][]domain.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT id, orderId, productId, productName, unitPrice, quantity
		FROM OrderItems
		WHERE orderId IN (%s)
		ORDER BY id`,
		placeholders(len(orderIDs)),
	)

	rows, err := r.db.QueryContext(ctx, query, int64Args(orderIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []itemRow
	for rows.Next() {
		var row itemRow
		if err := rows.Scan(&row.id, &row.orderID, &row.productID, &row.productName, &row.unitPrice, &row.quantity); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}

	itemIDs := make([]int64, len(items))
	for i, row := range items {
		itemIDs[i] = row.id
	}

	addOns, err := r.findAddOns(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	for _, row := range items {
		item := domain.RestoreOrderItem(row.id, row.productID, row.productName, row.unitPrice, row.quantity, addOns[row.id])
		result[row.orderID] = append(result[row.orderID], item)
	}

	return result, nil
}

func (r *MySQLOrderItemRepository) findAddOns(ctx context.Context, itemIDs []int64) (map[int64][]domain.AppliedAddOn, error) {
	result := make(map[int64][]domain.AppliedAddOn)
	if len(itemIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT orderItemId, addOnId, name, category, price, quantity
		FROM OrderItemAddOns
		WHERE orderItemId IN (%s)
		ORDER BY id`,
		placeholders(len(itemIDs)),
	)

	rows, err := r.db.QueryContext(ctx, query, int64Args(itemIDs)...)
	if err != nil {
		return nil, fmt.Errorf("querying order item add-ons: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID   int64
			applied  domain.AppliedAddOn
			category string
		)
		err := rows.Scan(&itemID, &applied.AddOn.ID, &applied.AddOn.Name, &category, &applied.AddOn.Price, &applied.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scanning order item add-on row: %w", err)
		}
		applied.AddOn.Category = domain.Category(category)
		applied.AddOn.Active = true
		result[itemID] = append(result[itemID], applied)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item add-on rows: %w", err)
	}

	return result, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
