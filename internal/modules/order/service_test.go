package order

import (
	"context"
	"errors"
	"maps"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/dbx/dbxtest"
	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog/catalogtest"
	"github.com/georgemunganga/marketplace-backend/internal/modules/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/georgemunganga/marketplace-backend/internal/modules/roles/rolestest"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOrders is an in-memory Repository.
type memOrders struct {
	mu     sync.Mutex
	orders map[uuid.UUID]Order
	// createErrs are returned by successive CreateOrder calls.
	createErrs []error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[uuid.UUID]Order)}
}

func (m *memOrders) factory(dbx.DBTX) Repository { return m }

func (m *memOrders) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := maps.Clone(m.orders)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.orders = saved
	}
}

func cloneOrder(o Order) *Order {
	items := make([]*OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		cp := *it
		items = append(items, &cp)
	}
	o.Items = items
	return &o
}

func (m *memOrders) CreateOrder(ctx context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	o.CreatedAt, o.UpdatedAt = time.Now(), time.Now()
	m.orders[o.ID] = *cloneOrder(*o)
	return nil
}

func (m *memOrders) GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (m *memOrders) ListOrders(ctx context.Context, vendorID uuid.UUID, f ListFilter) ([]*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Order
	for _, o := range m.orders {
		if o.VendorID != vendorID ||
			(f.CustomerID != uuid.Nil && o.CustomerID != f.CustomerID) ||
			(f.Status != "" && o.Status != f.Status) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memOrders) update(id uuid.UUID, fn func(o *Order)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return common.ErrNotFound
	}
	fn(&o)
	m.orders[id] = o
	return nil
}

func (m *memOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return m.update(id, func(o *Order) { o.Status = status })
}

func (m *memOrders) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return m.update(id, func(o *Order) { o.Notes = notes })
}

func (m *memOrders) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return common.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type recordingPublisher struct {
	mu   sync.Mutex
	evts []events.OrderEvent
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, evt events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.evts))
	for _, e := range p.evts {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	svc       Service
	orders    *memOrders
	products  *catalogtest.Store
	roles     *rolestest.Store
	publisher *recordingPublisher

	vendor, owner, staff uuid.UUID
	alice, bob           uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:    newMemOrders(),
		products:  catalogtest.NewStore(),
		roles:     rolestest.NewStore(),
		publisher: &recordingPublisher{},
		vendor:    uuid.New(),
		owner:     uuid.New(),
		staff:     uuid.New(),
		alice:     uuid.New(),
		bob:       uuid.New(),
	}
	f.roles.AddVendor(f.vendor, f.owner)
	f.roles.Grant(f.staff, f.vendor, policy.RoleStaff)
	f.roles.Grant(f.alice, f.vendor, policy.RoleCustomer)
	f.roles.Grant(f.bob, f.vendor, policy.RoleCustomer)

	f.svc = NewService(
		dbx.NewRetryRunner(dbxtest.NewRunner(f.orders, f.products, f.roles), 3, time.Millisecond),
		f.orders.factory,
		f.products.Factory,
		f.roles.Factory,
		f.publisher,
		logging.NewNop(),
	)
	return f
}

func (f *fixture) addProduct(vendorID uuid.UUID, name, price string, stock int) uuid.UUID {
	id := uuid.New()
	f.products.Put(catalog.Product{
		ID:       id,
		VendorID: vendorID,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	})
	return id
}

func (f *fixture) order(t *testing.T, customer uuid.UUID, items ...CartItem) *Order {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), customer, f.vendor, CreateOrderRequest{Items: items})
	require.NoError(t, err)
	return o
}

func TestCreateOrder_LastUnits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "10.00", 2)

	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 2})
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "20.00", o.TotalAmount.StringFixed(2))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "10.00", o.Items[0].Price.StringFixed(2))
	assert.Equal(t, 0, f.products.Stock(p))

	_, err := f.svc.CreateOrder(ctx, f.bob, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: p, Quantity: 1}}})
	require.ErrorIs(t, err, common.ErrInsufficientStock)
	assert.Equal(t, 0, f.products.Stock(p))
	assert.Equal(t, 1, f.orders.count())
	assert.Equal(t, []string{events.TypeOrderCreated}, f.publisher.types())
}

func TestCreateOrder_TotalIsSnapshotted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mug := f.addProduct(f.vendor, "Mug", "4.25", 10)
	cup := f.addProduct(f.vendor, "Cup", "0.10", 10)

	o := f.order(t, f.alice, CartItem{ProductID: mug, Quantity: 3}, CartItem{ProductID: cup, Quantity: 3})
	assert.Equal(t, "13.05", o.TotalAmount.StringFixed(2))

	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.LineTotal())
	}
	assert.True(t, sum.Equal(o.TotalAmount))

	p, err := f.products.GetByID(ctx, mug)
	require.NoError(t, err)
	p.Price = decimal.RequireFromString("99.99")
	require.NoError(t, f.products.Update(ctx, p))

	got, err := f.svc.GetOrder(ctx, f.alice, f.vendor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "13.05", got.TotalAmount.StringFixed(2))
	assert.Equal(t, "4.25", got.Items[0].Price.StringFixed(2))
}

func TestCreateOrder_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	plenty := f.addProduct(f.vendor, "Plenty", "1.00", 10)
	scarce := f.addProduct(f.vendor, "Scarce", "1.00", 1)

	_, err := f.svc.CreateOrder(context.Background(), f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{
		{ProductID: plenty, Quantity: 5},
		{ProductID: scarce, Quantity: 2},
	}})
	require.ErrorIs(t, err, common.ErrInsufficientStock)
	assert.Equal(t, 10, f.products.Stock(plenty))
	assert.Equal(t, 1, f.products.Stock(scarce))
	assert.Zero(t, f.orders.count())
	assert.Empty(t, f.publisher.types())
}

func TestCreateOrder_CrossVendorCart(t *testing.T) {
	f := newFixture(t)
	other := uuid.New()
	f.roles.AddVendor(other, uuid.New())
	mine := f.addProduct(f.vendor, "Mine", "1.00", 5)
	theirs := f.addProduct(other, "Theirs", "1.00", 5)

	_, err := f.svc.CreateOrder(context.Background(), f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{
		{ProductID: mine, Quantity: 1},
		{ProductID: theirs, Quantity: 1},
	}})
	require.ErrorIs(t, err, common.ErrCrossVendorCart)
	assert.Equal(t, 5, f.products.Stock(mine))
	assert.Equal(t, 5, f.products.Stock(theirs))
}

func TestCreateOrder_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "1.00", 5)
	line := []CartItem{{ProductID: p, Quantity: 1}}

	_, err := f.svc.CreateOrder(ctx, f.alice, f.vendor, CreateOrderRequest{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.CreateOrder(ctx, f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: p, Quantity: 0}}})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.CreateOrder(ctx, f.owner, f.vendor, CreateOrderRequest{Items: line})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.CreateOrder(ctx, f.staff, f.vendor, CreateOrderRequest{Items: line})
	assert.ErrorIs(t, err, common.ErrForbidden)

	_, err = f.svc.CreateOrder(ctx, uuid.New(), f.vendor, CreateOrderRequest{Items: line})
	assert.ErrorIs(t, err, common.ErrNoRole)

	_, err = f.svc.CreateOrder(ctx, f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: uuid.New(), Quantity: 1}}})
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, 5, f.products.Stock(p))
}

func TestCreateOrder_OutOfRangeAmounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cheap := f.addProduct(f.vendor, "Cheap", "1.00", 10)
	dear := f.addProduct(f.vendor, "Dear", "99999999.99", 200_000_000)

	_, err := f.svc.CreateOrder(ctx, f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: cheap, Quantity: math.MaxInt32 + 1}}})
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.CreateOrder(ctx, f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{
		{ProductID: cheap, Quantity: 1},
		{ProductID: dear, Quantity: 100_000_001},
	}})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, 10, f.products.Stock(cheap))
	assert.Equal(t, 200_000_000, f.products.Stock(dear))
	assert.Zero(t, f.orders.count())

	o := f.order(t, f.alice, CartItem{ProductID: dear, Quantity: 100})
	assert.Equal(t, "9999999999.00", o.TotalAmount.StringFixed(2))
}

func TestCreateOrder_InactiveProduct(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(f.vendor, "P", "1.00", 5)
	prod, err := f.products.GetByID(context.Background(), p)
	require.NoError(t, err)
	prod.IsActive = false
	f.products.Put(*prod)

	_, err = f.svc.CreateOrder(context.Background(), f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: p, Quantity: 1}}})
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 5, f.products.Stock(p))
}

func TestCreateOrder_ConcurrentNeverOversells(t *testing.T) {
	f := newFixture(t)
	const stock, buyers = 5, 20
	p := f.addProduct(f.vendor, "Hot", "3.00", stock)

	customers := make([]uuid.UUID, buyers)
	for i := range customers {
		customers[i] = uuid.New()
		f.roles.Grant(customers[i], f.vendor, policy.RoleCustomer)
	}

	var (
		wg                 sync.WaitGroup
		mu                 sync.Mutex
		succeeded, soldOut int
	)
	for _, c := range customers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateOrder(context.Background(), c, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: p, Quantity: 1}}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, common.ErrInsufficientStock):
				soldOut++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, buyers-stock, soldOut)
	assert.Equal(t, 0, f.products.Stock(p))
	assert.Equal(t, stock, f.orders.count())
}

func TestCreateOrder_RetriesSerializationFailures(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(f.vendor, "P", "2.00", 3)
	conflict := &pq.Error{Code: "40001"}
	f.orders.createErrs = []error{conflict, conflict}

	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})
	assert.Equal(t, "2.00", o.TotalAmount.StringFixed(2))
	assert.Equal(t, 2, f.products.Stock(p))
	assert.Equal(t, 1, f.orders.count())
}

func TestCreateOrder_RetriesExhausted(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(f.vendor, "P", "2.00", 3)
	conflict := &pq.Error{Code: "40P01"}
	f.orders.createErrs = []error{conflict, conflict, conflict, conflict}

	_, err := f.svc.CreateOrder(context.Background(), f.alice, f.vendor, CreateOrderRequest{Items: []CartItem{{ProductID: p, Quantity: 1}}})
	require.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, 3, f.products.Stock(p))
	assert.Zero(t, f.orders.count())
}

func TestCreateOrder_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	p := f.addProduct(f.vendor, "P", "2.00", 3)

	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})
	assert.NotEqual(t, uuid.Nil, o.ID)
	assert.Equal(t, 1, f.orders.count())
}

func TestCancelOrder_CustomerKeepsRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 3})

	_, _, err := f.svc.CancelOrder(ctx, f.bob, f.vendor, o.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	got, outcome, err := f.svc.CancelOrder(ctx, f.alice, f.vendor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, outcome)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, 4, f.products.Stock(p))

	stored, err := f.svc.GetOrder(ctx, f.owner, f.vendor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)

	_, _, err = f.svc.CancelOrder(ctx, f.alice, f.vendor, o.ID)
	require.ErrorIs(t, err, common.ErrIllegalTransition)
	assert.Equal(t, 4, f.products.Stock(p))
	assert.Equal(t, []string{events.TypeOrderCreated, events.TypeOrderStatusChanged}, f.publisher.types())
}

func TestCancelOrder_OwnerDeletesOnlyPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	paid := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})
	pending := f.order(t, f.bob, CartItem{ProductID: p, Quantity: 2})

	paidStatus := StatusPaid
	_, err := f.svc.UpdateOrder(ctx, f.staff, f.vendor, paid.ID, OrderChanges{Status: &paidStatus})
	require.NoError(t, err)

	_, _, err = f.svc.CancelOrder(ctx, f.owner, f.vendor, paid.ID)
	require.ErrorIs(t, err, common.ErrIllegalTransition)
	require.ErrorIs(t, f.svc.DeleteOrder(ctx, f.owner, f.vendor, paid.ID), common.ErrIllegalTransition)

	_, outcome, err := f.svc.CancelOrder(ctx, f.owner, f.vendor, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDeleted, outcome)
	assert.Equal(t, 3, f.products.Stock(p))

	_, err = f.svc.GetOrder(ctx, f.owner, f.vendor, pending.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDeleteOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 4})

	require.ErrorIs(t, f.svc.DeleteOrder(ctx, f.alice, f.vendor, o.ID), common.ErrForbidden)
	require.NoError(t, f.svc.DeleteOrder(ctx, f.staff, f.vendor, o.ID))
	assert.Equal(t, 4, f.products.Stock(p))
	assert.Zero(t, f.orders.count())
	assert.Contains(t, f.publisher.types(), events.TypeOrderDeleted)
}

func TestUpdateOrder_StatusMachine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})

	set := func(actor uuid.UUID, st Status) error {
		_, err := f.svc.UpdateOrder(ctx, actor, f.vendor, o.ID, OrderChanges{Status: &st})
		return err
	}

	require.ErrorIs(t, set(f.alice, StatusPaid), common.ErrForbidden)
	require.ErrorIs(t, set(f.staff, StatusShipped), common.ErrIllegalTransition)
	require.NoError(t, set(f.staff, StatusPaid))
	require.ErrorIs(t, set(f.owner, StatusCompleted), common.ErrIllegalTransition)
	require.NoError(t, set(f.owner, StatusShipped))
	require.ErrorIs(t, set(f.owner, StatusCancelled), common.ErrIllegalTransition)
	require.NoError(t, set(f.owner, StatusCompleted))
	require.ErrorIs(t, set(f.owner, StatusPending), common.ErrIllegalTransition)

	got, err := f.svc.GetOrder(ctx, f.owner, f.vendor, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Equal(t, "5.00", got.TotalAmount.StringFixed(2))
	assert.Equal(t, 3, f.products.Stock(p))
}

func TestUpdateOrder_CancelPaidReleasesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 2})

	paid, cancelled := StatusPaid, StatusCancelled
	_, err := f.svc.UpdateOrder(ctx, f.staff, f.vendor, o.ID, OrderChanges{Status: &paid})
	require.NoError(t, err)
	got, err := f.svc.UpdateOrder(ctx, f.staff, f.vendor, o.ID, OrderChanges{Status: &cancelled})
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, 4, f.products.Stock(p))
}

func TestUpdateOrder_Notes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "5.00", 4)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})
	notes := "leave at the door"

	_, err := f.svc.UpdateOrder(ctx, f.bob, f.vendor, o.ID, OrderChanges{Notes: &notes})
	require.ErrorIs(t, err, common.ErrForbidden)

	got, err := f.svc.UpdateOrder(ctx, f.alice, f.vendor, o.ID, OrderChanges{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, got.Notes)

	paid := StatusPaid
	_, err = f.svc.UpdateOrder(ctx, f.staff, f.vendor, o.ID, OrderChanges{Status: &paid})
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(ctx, f.alice, f.vendor, o.ID, OrderChanges{Notes: &notes})
	require.ErrorIs(t, err, common.ErrIllegalTransition)

	staffNotes := "packed"
	got, err = f.svc.UpdateOrder(ctx, f.staff, f.vendor, o.ID, OrderChanges{Notes: &staffNotes})
	require.NoError(t, err)
	assert.Equal(t, staffNotes, got.Notes)

	_, err = f.svc.UpdateOrder(ctx, f.staff, f.vendor, o.ID, OrderChanges{})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestOrderVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "1.00", 10)
	a := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})
	b := f.order(t, f.bob, CartItem{ProductID: p, Quantity: 1})

	_, err := f.svc.GetOrder(ctx, f.alice, f.vendor, b.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	mine, err := f.svc.ListVisibleOrders(ctx, f.alice, f.vendor, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	all, err := f.svc.ListVisibleOrders(ctx, f.staff, f.vendor, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	paid := StatusPaid
	_, err = f.svc.UpdateOrder(ctx, f.staff, f.vendor, a.ID, OrderChanges{Status: &paid})
	require.NoError(t, err)
	filtered, err := f.svc.ListVisibleOrders(ctx, f.owner, f.vendor, StatusPaid)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, a.ID, filtered[0].ID)

	_, err = f.svc.ListVisibleOrders(ctx, f.owner, f.vendor, Status("lost"))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.ListVisibleOrders(ctx, uuid.New(), f.vendor, "")
	require.ErrorIs(t, err, common.ErrNoRole)
}

func TestOrderCrossTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(f.vendor, "P", "1.00", 10)
	o := f.order(t, f.alice, CartItem{ProductID: p, Quantity: 1})

	other, otherOwner := uuid.New(), uuid.New()
	f.roles.AddVendor(other, otherOwner)

	_, err := f.svc.GetOrder(ctx, otherOwner, other, o.ID)
	require.ErrorIs(t, err, common.ErrForbidden)

	paid := StatusPaid
	_, err = f.svc.UpdateOrder(ctx, otherOwner, other, o.ID, OrderChanges{Status: &paid})
	require.ErrorIs(t, err, common.ErrForbidden)

	require.ErrorIs(t, f.svc.DeleteOrder(ctx, otherOwner, other, o.ID), common.ErrForbidden)
	assert.Equal(t, 1, f.orders.count())
}
