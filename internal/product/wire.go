package product

import (
	"database/sql"

	"go.uber.org/zap"

	"snackapp/internal/product/repository"
)

type Module struct {
	Controller *Controller
	Service    Service
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	addOnRepo := repository.NewMySQLAddOnRepository(db)
	svc := NewService(repo, addOnRepo)
	uc := NewCatalogUseCase(repo, addOnRepo, svc, logger)

	return &Module{
		Controller: NewController(uc, logger),
		Service:    svc,
	}
}
