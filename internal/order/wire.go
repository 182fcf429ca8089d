package order

import (
	"database/sql"

	"go.uber.org/zap"

	"snackapp/internal/config"
	customerrepo "snackapp/internal/customer/repository"
	"snackapp/internal/lock"
	"snackapp/internal/messaging"
	"snackapp/internal/order/controller"
	"snackapp/internal/order/listener"
	orderrepo "snackapp/internal/order/repository"
	"snackapp/internal/order/service"
	"snackapp/internal/order/usecase"
)

type Module struct {
	Controller *controller.OrderController
	Listener   *listener.PaymentListener
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	products usecase.ProductService,
	locker lock.Locker,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *Module {
	store := service.NewOrderStore(
		service.NewSQLTransactionManager(db),
		orderrepo.NewMySQLOrderRepository(db),
		orderrepo.NewMySQLOrderItemRepository(db),
		logger,
		cfg.Order.SaveRetryAttempts,
	)

	topics := usecase.Topics{
		PaymentRequest: messaging.Topic{
			Exchange:   cfg.RabbitMQ.PaymentExchange,
			RoutingKey: cfg.RabbitMQ.PaymentCreateRoutingKey,
		},
		Kitchen: messaging.Topic{
			Exchange:   cfg.RabbitMQ.KitchenExchange,
			RoutingKey: cfg.RabbitMQ.KitchenRoutingKey,
		},
	}

	uc := usecase.NewOrderUseCase(
		customerrepo.NewMySQLCustomerRepository(db),
		store,
		products,
		locker,
		publisher,
		topics,
		logger,
	)

	return &Module{
		Controller: controller.NewOrderController(uc, logger),
		Listener:   listener.NewPaymentListener(uc, logger),
	}
}
