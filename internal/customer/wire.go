package customer

import (
	"database/sql"

	"go.uber.org/zap"

	"snackapp/internal/customer/controller"
	"snackapp/internal/customer/repository"
	"snackapp/internal/customer/usecase"
)

func NewModule(db *sql.DB, logger *zap.Logger) *controller.CustomerController {
	repo := repository.NewMySQLCustomerRepository(db)
	uc := usecase.NewCreateCustomerUseCase(repo, logger)
	return controller.NewCustomerController(uc, logger)
}
