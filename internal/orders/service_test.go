package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/inventory"
)

// fakeEnv backs every repository interface the service needs. WithTx
// snapshots the state and restores it when the unit of work fails, the
// same all-or-nothing contract the gorm transaction gives.
type fakeEnv struct {
	products map[int64]*domain.Product
	clients  map[int64]*domain.Client
	orders   map[int64]*domain.Order
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		products: map[int64]*domain.Product{},
		clients:  map[int64]*domain.Client{},
		orders:   map[int64]*domain.Order{},
	}
}

func (e *fakeEnv) addProduct(p domain.Product) { e.products[p.ID] = &p }
func (e *fakeEnv) addClient(c domain.Client)   { e.clients[c.ID] = &c }
func (e *fakeEnv) addOrder(o domain.Order)     { e.orders[o.ID] = &o }

func (e *fakeEnv) snapshot() (map[int64]*domain.Product, map[int64]*domain.Order) {
	products := make(map[int64]*domain.Product, len(e.products))
	for id, p := range e.products {
		clone := *p
		products[id] = &clone
	}
	orders := make(map[int64]*domain.Order, len(e.orders))
	for id, o := range e.orders {
		clone := *o
		clone.Items = append([]domain.OrderItem(nil), o.Items...)
		orders[id] = &clone
	}
	return products, orders
}

// OrderRepository

func (e *fakeEnv) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	products, orders := e.snapshot()
	if err := fn(ctx); err != nil {
		e.products = products
		e.orders = orders
		return err
	}
	return nil
}

func (e *fakeEnv) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := e.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	return &clone, nil
}

func (e *fakeEnv) Create(_ context.Context, order *domain.Order) error {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	e.orders[order.ID] = &clone
	return nil
}

func (e *fakeEnv) Update(_ context.Context, order *domain.Order) error {
	if _, ok := e.orders[order.ID]; !ok {
		return domain.ErrNotFound
	}
	return e.Create(nil, order)
}

func (e *fakeEnv) Delete(_ context.Context, id int64) error {
	delete(e.orders, id)
	return nil
}

func (e *fakeEnv) ListBySeller(_ context.Context, sellerID int64) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range e.orders {
		if o.SellerID == sellerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (e *fakeEnv) ListByStatus(_ context.Context, sellerID int64, status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range e.orders {
		if o.SellerID == sellerID && o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (e *fakeEnv) ListAll(_ context.Context) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range e.orders {
		out = append(out, *o)
	}
	return out, nil
}

// ClientDirectory

func (e *fakeEnv) clientDir() ClientDirectory { return clientDirFunc(e.getClient) }

type clientDirFunc func(ctx context.Context, id int64) (*domain.Client, error)

func (f clientDirFunc) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	return f(ctx, id)
}

func (e *fakeEnv) getClient(_ context.Context, id int64) (*domain.Client, error) {
	c, ok := e.clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

// inventory.ProductStore

func (e *fakeEnv) ProductGetByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := e.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

type productStoreAdapter struct{ env *fakeEnv }

func (a productStoreAdapter) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return a.env.ProductGetByID(ctx, id)
}

func (a productStoreAdapter) DecrementStock(_ context.Context, id int64, qty int) (bool, error) {
	p, ok := a.env.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	return true, nil
}

func (a productStoreAdapter) IncrementStock(_ context.Context, id int64, qty int) error {
	p, ok := a.env.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += qty
	return nil
}

func newTestService(env *fakeEnv, policy StatusPolicy) *Service {
	store := productStoreAdapter{env: env}
	return NewService(env, env.clientDir(), store, inventory.NewLedger(store), policy)
}

func (e *fakeEnv) stock(id int64) int { return e.products[id].Stock }

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves stock and persists a pending order", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 5})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		order, err := svc.Create(ctx, 1, CreateInput{
			ClientID: 100,
			Items:    []ItemInput{{ProductID: 1, Quantity: 3}},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, env.stock(1))
		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Equal(t, int64(1), order.SellerID)
		assert.Equal(t, int64(100), order.ClientID)
		assert.Equal(t, 30.0, order.Total)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 10.0, order.Items[0].UnitPrice)

		persisted, err := env.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.SellerID, persisted.SellerID)
	})

	t.Run("owner chain holds: order seller equals client owner", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 5})
		env.addClient(domain.Client{ID: 100, SellerID: 7})
		svc := newTestService(env, StatusPolicy{})

		order, err := svc.Create(ctx, 7, CreateInput{
			ClientID: 100,
			Items:    []ItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, env.clients[100].SellerID, order.SellerID)
	})

	t.Run("insufficient stock rejects the whole order", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 10})
		env.addProduct(domain.Product{ID: 2, Name: "gadget", Price: 5, Stock: 2})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		_, err := svc.Create(ctx, 1, CreateInput{
			ClientID: 100,
			Items: []ItemInput{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: 3},
			},
		})
		require.True(t, inventory.IsInsufficientStock(err))

		var stockErr *domain.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "gadget", stockErr.ProductName)

		// The earlier line's decrement must not survive the failure.
		assert.Equal(t, 10, env.stock(1))
		assert.Equal(t, 2, env.stock(2))
		assert.Empty(t, env.orders)
	})

	t.Run("unknown client is not found", func(t *testing.T) {
		env := newFakeEnv()
		svc := newTestService(env, StatusPolicy{})

		_, err := svc.Create(ctx, 1, CreateInput{ClientID: 404, Items: []ItemInput{{ProductID: 1, Quantity: 1}}})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("another seller's client is unauthorized", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 5})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		_, err := svc.Create(ctx, 2, CreateInput{ClientID: 100, Items: []ItemInput{{ProductID: 1, Quantity: 1}}})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 5, env.stock(1))
	})

	t.Run("explicit status is honored", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 5})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		order, err := svc.Create(ctx, 1, CreateInput{
			ClientID: 100,
			Items:    []ItemInput{{ProductID: 1, Quantity: 1}},
			Status:   domain.OrderStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 5})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		_, err := svc.Create(ctx, 1, CreateInput{
			ClientID: 100,
			Items:    []ItemInput{{ProductID: 1, Quantity: 1}},
			Status:   "SHIPPED",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("empty line items are rejected", func(t *testing.T) {
		env := newFakeEnv()
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		svc := newTestService(env, StatusPolicy{})

		_, err := svc.Create(ctx, 1, CreateInput{ClientID: 100})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})
}

func TestOrderUpdate(t *testing.T) {
	ctx := context.Background()

	seed := func() (*fakeEnv, *Service) {
		env := newFakeEnv()
		env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 2})
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		env.addClient(domain.Client{ID: 200, SellerID: 2})
		env.addOrder(domain.Order{
			ID: 500, SellerID: 1, ClientID: 100, Total: 30,
			Status: domain.OrderStatusPending,
			Items:  []domain.OrderItem{{ID: 1, OrderID: 500, ProductID: 1, Quantity: 3, UnitPrice: 10}},
		})
		return env, newTestService(env, StatusPolicy{})
	}

	t.Run("shrinking a line item credits stock back", func(t *testing.T) {
		env, svc := seed()

		order, err := svc.Update(ctx, 1, 500, UpdateInput{
			Items: []ItemInput{{ProductID: 1, Quantity: 1}},
		})
		require.NoError(t, err)
		// 2 in stock + 2 freed by going from 3 to 1.
		assert.Equal(t, 4, env.stock(1))
		assert.Equal(t, 10.0, order.Total)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 1, order.Items[0].Quantity)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		env, svc := seed()

		_, err := svc.Update(ctx, 2, 500, UpdateInput{
			Items: []ItemInput{{ProductID: 1, Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 2, env.stock(1))
		assert.Equal(t, 3, env.orders[500].Items[0].Quantity)
	})

	t.Run("moving the order to another seller's client is unauthorized", func(t *testing.T) {
		env, svc := seed()

		other := int64(200)
		_, err := svc.Update(ctx, 1, 500, UpdateInput{ClientID: &other})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, int64(100), env.orders[500].ClientID)
	})

	t.Run("moving the order to another owned client keeps the chain", func(t *testing.T) {
		env, svc := seed()
		env.addClient(domain.Client{ID: 300, SellerID: 1})

		moved := int64(300)
		order, err := svc.Update(ctx, 1, 500, UpdateInput{ClientID: &moved})
		require.NoError(t, err)
		assert.Equal(t, int64(300), order.ClientID)
		assert.Equal(t, env.clients[300].SellerID, order.SellerID)
	})

	t.Run("status is set verbatim by default", func(t *testing.T) {
		_, svc := seed()

		status := domain.OrderStatusCompleted
		order, err := svc.Update(ctx, 1, 500, UpdateInput{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCompleted, order.Status)

		// Lax policy even allows regressions.
		back := domain.OrderStatusPending
		order, err = svc.Update(ctx, 1, 500, UpdateInput{Status: &back})
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPending, order.Status)
	})

	t.Run("strict policy forbids leaving a settled status", func(t *testing.T) {
		env := newFakeEnv()
		env.addClient(domain.Client{ID: 100, SellerID: 1})
		env.addOrder(domain.Order{ID: 500, SellerID: 1, ClientID: 100, Status: domain.OrderStatusCompleted})
		svc := newTestService(env, StatusPolicy{Strict: true})

		status := domain.OrderStatusPending
		_, err := svc.Update(ctx, 1, 500, UpdateInput{Status: &status})
		assert.ErrorIs(t, err, domain.ErrStatusTransition)

		// Pending orders may still settle either way.
		env.orders[500].Status = domain.OrderStatusPending
		done := domain.OrderStatusCanceled
		_, err = svc.Update(ctx, 1, 500, UpdateInput{Status: &done})
		assert.NoError(t, err)
	})

	t.Run("failed growth leaves order and stock untouched", func(t *testing.T) {
		env, svc := seed()

		_, err := svc.Update(ctx, 1, 500, UpdateInput{
			Items: []ItemInput{{ProductID: 1, Quantity: 10}},
		})
		require.True(t, inventory.IsInsufficientStock(err))
		assert.Equal(t, 2, env.stock(1))
		assert.Equal(t, 3, env.orders[500].Items[0].Quantity)
		assert.Equal(t, 30.0, env.orders[500].Total)
	})
}

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()

	env := newFakeEnv()
	env.addProduct(domain.Product{ID: 1, Name: "widget", Price: 10, Stock: 2})
	env.addClient(domain.Client{ID: 100, SellerID: 1})
	env.addOrder(domain.Order{
		ID: 500, SellerID: 1, ClientID: 100,
		Status: domain.OrderStatusPending,
		Items:  []domain.OrderItem{{ID: 1, OrderID: 500, ProductID: 1, Quantity: 3, UnitPrice: 10}},
	})
	svc := newTestService(env, StatusPolicy{})

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, 2, 500)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Contains(t, env.orders, int64(500))
	})

	t.Run("owner delete releases reserved stock", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, 1, 500))
		assert.NotContains(t, env.orders, int64(500))
		assert.Equal(t, 5, env.stock(1))
	})

	t.Run("missing order is not found", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, 1, 500), domain.ErrNotFound)
	})
}

func TestOrderQueries(t *testing.T) {
	ctx := context.Background()

	env := newFakeEnv()
	env.addOrder(domain.Order{ID: 1, SellerID: 1, ClientID: 100, Status: domain.OrderStatusPending})
	env.addOrder(domain.Order{ID: 2, SellerID: 1, ClientID: 100, Status: domain.OrderStatusCompleted})
	env.addOrder(domain.Order{ID: 3, SellerID: 2, ClientID: 200, Status: domain.OrderStatusPending})
	svc := newTestService(env, StatusPolicy{})

	t.Run("get enforces ownership", func(t *testing.T) {
		order, err := svc.Get(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), order.ID)

		_, err = svc.Get(ctx, 2, 1)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		_, err = svc.Get(ctx, 1, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("list by seller is scoped", func(t *testing.T) {
		rows, err := svc.ListBySeller(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("list by status filters within the seller scope", func(t *testing.T) {
		rows, err := svc.ListByStatus(ctx, 1, domain.OrderStatusCompleted)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(2), rows[0].ID)
	})

	t.Run("list by unknown status is rejected", func(t *testing.T) {
		_, err := svc.ListByStatus(ctx, 1, "SHIPPED")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}
