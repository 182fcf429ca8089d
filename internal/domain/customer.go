package domain

import (
	"regexp"

	apperrors "snackapp/internal/errors"
)

var (
	cpfPattern   = regexp.MustCompile(`^\d{11}$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)
)

// CPF is the Brazilian national tax identifier: exactly 11 digits.
type CPF string

func NewCPF(value string) (CPF, error) {
	if !cpfPattern.MatchString(value) {
		return "", apperrors.NewInvalidArgumentError("invalid cpf %q: must have exactly 11 digits", value)
	}
	return CPF(value), nil
}

func (c CPF) String() string {
	return string(c)
}

// Email is optional; the empty value means absent.
type Email string

func NewEmail(value string) (Email, error) {
	if value != "" && !emailPattern.MatchString(value) {
		return "", apperrors.NewInvalidArgumentError("invalid email %q", value)
	}
	return Email(value), nil
}

func (e Email) String() string {
	return string(e)
}

// Customer ID is zero until the customer is persisted.
type Customer struct {
	ID    int64
	Name  string
	Email Email
	CPF   CPF
}

func NewCustomer(name, email, cpf string) (*Customer, error) {
	validCPF, err := NewCPF(cpf)
	if err != nil {
		return nil, err
	}
	validEmail, err := NewEmail(email)
	if err != nil {
		return nil, err
	}

	return &Customer{
		Name:  name,
		Email: validEmail,
		CPF:   validCPF,
	}, nil
}
