package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

const productColumns = `id, name, category, price, description, isActive`

func (r *MySQLRepository) Save(ctx context.Context, p domain.ProductDefinition) (domain.ProductDefinition, error) {
	query := `INSERT INTO Products (name, category, price, description, isActive) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.Name, string(p.Category), p.Price, p.Description, p.Active)
	if err != nil {
		return domain.ProductDefinition{}, fmt.Errorf("inserting product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.ProductDefinition{}, fmt.Errorf("getting last insert id: %w", err)
	}

	p.ID = id
	return p, nil
}

func (r *MySQLRepository) FindByID(ctx context.Context, id int64) (domain.ProductDefinition, error) {
	query := `SELECT ` + productColumns + ` FROM Products WHERE id = ?`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.ProductDefinition{}, apperrors.NewNotFoundError("product", id)
	}
	if err != nil {
		return domain.ProductDefinition{}, fmt.Errorf("querying product by id: %w", err)
	}

	return p, nil
}

func (r *MySQLRepository) FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.ProductDefinition, error) {
	where, args := catalogWhere(filter)
	query := `SELECT ` + productColumns + ` FROM Products` + where + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []domain.ProductDefinition{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (r *MySQLRepository) Update(ctx context.Context, p domain.ProductDefinition) error {
	query := `UPDATE Products SET name = ?, category = ?, price = ?, description = ?, isActive = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, p.Name, string(p.Category), p.Price, p.Description, p.Active, p.ID); err != nil {
		return fmt.Errorf("updating product: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.ProductDefinition, error) {
	var (
		p        domain.ProductDefinition
		category string
	)
	if err := row.Scan(&p.ID, &p.Name, &category, &p.Price, &p.Description, &p.Active); err != nil {
		return domain.ProductDefinition{}, err
	}
	p.Category = domain.Category(category)
	return p, nil
}

// catalogWhere renders the WHERE clause shared by product and add-on listings.
func catalogWhere(filter domain.CatalogFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Active != nil {
		conds = append(conds, "isActive = ?")
		args = append(args, *filter.Active)
	}
	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*filter.Category))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
