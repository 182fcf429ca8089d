package repository

import (
	"context"
	"database/sql"
	"fmt"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

type MySQLAddOnRepository struct {
	db *sql.DB
}

func NewMySQLAddOnRepository(db *sql.DB) *MySQLAddOnRepository {
	return &MySQLAddOnRepository{db: db}
}

const addOnColumns = `id, name, category, price, isActive`

func (r *MySQLAddOnRepository) Save(ctx context.Context, a domain.AddOnDefinition) (domain.AddOnDefinition, error) {
	query := `INSERT INTO AddOns (name, category, price, isActive) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, a.Name, string(a.Category), a.Price, a.Active)
	if err != nil {
		return domain.AddOnDefinition{}, fmt.Errorf("inserting add-on: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.AddOnDefinition{}, fmt.Errorf("getting last insert id: %w", err)
	}

	a.ID = id
	return a, nil
}

func (r *MySQLAddOnRepository) FindByID(ctx context.Context, id int64) (domain.AddOnDefinition, error) {
	query := `SELECT ` + addOnColumns + ` FROM AddOns WHERE id = ?`

	a, err := scanAddOn(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return domain.AddOnDefinition{}, apperrors.NewNotFoundError("add-on", id)
	}
	if err != nil {
		return domain.AddOnDefinition{}, fmt.Errorf("querying add-on by id: %w", err)
	}

	return a, nil
}

func (r *MySQLAddOnRepository) FindByFilters(ctx context.Context, filter domain.CatalogFilter) ([]domain.AddOnDefinition, error) {
	where, args := catalogWhere(filter)
	query := `SELECT ` + addOnColumns + ` FROM AddOns` + where + ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying add-ons: %w", err)
	}
	defer rows.Close()

	addOns := []domain.AddOnDefinition{}
	for rows.Next() {
		a, err := scanAddOn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning add-on row: %w", err)
		}
		addOns = append(addOns, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating add-on rows: %w", err)
	}

	return addOns, nil
}

func (r *MySQLAddOnRepository) Update(ctx context.Context, a domain.AddOnDefinition) error {
	query := `UPDATE AddOns SET name = ?, category = ?, price = ?, isActive = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, a.Name, string(a.Category), a.Price, a.Active, a.ID); err != nil {
		return fmt.Errorf("updating add-on: %w", err)
	}
	return nil
}

func scanAddOn(row rowScanner) (domain.AddOnDefinition, error) {
	var (
		a        domain.AddOnDefinition
		category string
	)
	if err := row.Scan(&a.ID, &a.Name, &category, &a.Price, &a.Active); err != nil {
		return domain.AddOnDefinition{}, err
	}
	a.Category = domain.Category(category)
	return a, nil
}
