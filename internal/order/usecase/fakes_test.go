package usecase

import (
	"context"
	"errors"
	"sync"

	"snackapp/internal/domain"
	apperrors "snackapp/internal/errors"
	"snackapp/internal/lock"
	"snackapp/internal/messaging"
)

type mockCustomerRepository struct {
	SaveFunc      func(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	FindByCPFFunc func(ctx context.Context, cpf domain.CPF) (*domain.Customer, error)
}

func (m *mockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return m.SaveFunc(ctx, customer)
}

func (m *mockCustomerRepository) FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
	return m.FindByCPFFunc(ctx, cpf)
}

// memoryOrderRepository keeps detached copies so that a mutation which is
// never saved does not leak into later reads.
type memoryOrderRepository struct {
	mu      sync.Mutex
	orders  map[int64]*domain.Order
	nextID  int64
	saves   int
	SaveErr error
}

func newMemoryOrderRepository() *memoryOrderRepository {
	return &memoryOrderRepository{orders: map[int64]*domain.Order{}}
}

func (r *memoryOrderRepository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.SaveErr != nil {
		return nil, r.SaveErr
	}
	if order.ID == 0 {
		r.nextID++
		order.ID = r.nextID
	}
	items := order.Items()
	for i := range items {
		if items[i].ID() == 0 {
			items[i] = items[i].WithID(int64(i + 1))
		}
	}
	order.ReplaceItems(items)

	r.saves++
	r.orders[order.ID] = clone(order)
	return order, nil
}

func (r *memoryOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("order", id)
	}
	return clone(order), nil
}

func (r *memoryOrderRepository) FindByFilters(ctx context.Context, statuses []domain.OrderStatus) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Order
	for id := int64(1); id <= r.nextID; id++ {
		order, ok := r.orders[id]
		if !ok {
			continue
		}
		if len(statuses) == 0 || containsStatus(statuses, order.Status()) {
			out = append(out, clone(order))
		}
	}
	return out, nil
}

// put stores order as-is, bypassing the state machine.
func (r *memoryOrderRepository) put(order *domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID > r.nextID {
		r.nextID = order.ID
	}
	r.orders[order.ID] = clone(order)
}

func (r *memoryOrderRepository) get(id int64) *domain.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return clone(r.orders[id])
}

func clone(o *domain.Order) *domain.Order {
	if o == nil {
		return nil
	}
	c := domain.RestoreOrder(o.ID, o.Customer, o.Status(), o.Items(), o.PaymentID, o.QRCodeURL)
	c.KitchenDispatched = o.KitchenDispatched
	return c
}

func containsStatus(statuses []domain.OrderStatus, s domain.OrderStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// memoryCustomerRepository enforces the unique cpf the way the customer table
// does.
type memoryCustomerRepository struct {
	mu        sync.Mutex
	customers map[domain.CPF]*domain.Customer
	nextID    int64
}

func newMemoryCustomerRepository() *memoryCustomerRepository {
	return &memoryCustomerRepository{customers: map[domain.CPF]*domain.Customer{}}
}

func (r *memoryCustomerRepository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[customer.CPF]; ok {
		return nil, apperrors.NewConflictError("customer already exists")
	}
	r.nextID++
	saved := *customer
	saved.ID = r.nextID
	r.customers[saved.CPF] = &saved
	return &saved, nil
}

func (r *memoryCustomerRepository) FindByCPF(ctx context.Context, cpf domain.CPF) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[cpf]
	if !ok {
		return nil, apperrors.NewNotFoundError("customer", cpf)
	}
	saved := *c
	return &saved, nil
}

func (r *memoryCustomerRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.customers)
}

type fakeProductService struct {
	products map[int64]domain.ProductDefinition
	addOns   map[int64]domain.AddOnDefinition
}

func (f *fakeProductService) Customize(ctx context.Context, productID int64, portions []domain.AddOnPortion) (domain.Product, error) {
	def, ok := f.products[productID]
	if !ok {
		return nil, apperrors.NewNotFoundError("product", productID)
	}
	if !def.Active {
		return nil, apperrors.NewPreconditionFailedError("product %d is not available", productID)
	}

	var product domain.Product = def
	for _, portion := range portions {
		addOn, ok := f.addOns[portion.AddOnID]
		if !ok {
			return nil, apperrors.NewNotFoundError("add-on", portion.AddOnID)
		}
		var err error
		if product, err = domain.Wrap(product, &addOn, portion.Quantity); err != nil {
			return nil, err
		}
	}
	return product, nil
}

type publishedMessage struct {
	Topic   messaging.Topic
	Payload any
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []publishedMessage
	Err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic messaging.Topic, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.published = append(p.published, publishedMessage{Topic: topic, Payload: payload})
	return nil
}

func (p *recordingPublisher) messages() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMessage(nil), p.published...)
}

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	return nil, lock.ErrNotAcquired
}

type brokenLocker struct{}

func (brokenLocker) Lock(ctx context.Context, key string) (lock.Unlock, error) {
	return nil, errors.New("redis: connection refused")
}
