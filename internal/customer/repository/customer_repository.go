package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
)

const mysqlDuplicateEntry = 1062

type MySQLCustomerRepository struct {
	db *sql.DB
}

func NewMySQLCustomerRepository(db *sql.DB) *MySQLCustomerRepository {
	return &MySQLCustomerRepository{db: db}
}

// Save inserts a new customer and returns it with its assigned id.
func (r *MySQLCustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	query := `INSERT INTO Customers (name, email, cpf) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, customer.Name, nullString(customer.Email.String()), customer.CPF.String())
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return nil, apperrors.NewConflictError(fmt.Sprintf("customer with cpf %s already exists", customer.CPF))
		}
		return nil, fmt.Errorf("inserting customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	saved := *customer
	saved.ID = id
	return &saved, nil
}

func (r *MySQLCustomerRepository) FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
	query := `SELECT id, name, email, cpf FROM Customers WHERE cpf = ?`

	var (
		customer domain.Customer
		email    sql.NullString
		rawCPF   string
	)
	err := r.db.QueryRowContext(ctx, query, cpf.String()).Scan(&customer.ID, &customer.Name, &email, &rawCPF)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("customer", cpf)
	}
	if err != nil {
		return nil, fmt.Errorf("querying customer by cpf: %w", err)
	}

	customer.Email = domain.Email(email.String)
	customer.CPF = domain.CPF(rawCPF)
	return &customer, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
