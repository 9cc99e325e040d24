package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"qr_ordering/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemCall struct {
	OrderID, ItemID uint
	Status          models.ItemStatus
}

type orderCall struct {
	OrderID uint
	Status  models.OrderStatus
}

type fakeAPI struct {
	mu         sync.Mutex
	active     []models.Order
	items      map[uint][]models.OrderItem
	itemCalls  []itemCall
	orderCalls []orderCall
	failItems  bool
}

func (f *fakeAPI) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, len(f.active))
	copy(out, f.active)
	return out, nil
}

func (f *fakeAPI) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[orderID], nil
}

func (f *fakeAPI) UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failItems {
		return errors.New("store unavailable")
	}
	f.itemCalls = append(f.itemCalls, itemCall{orderID, itemID, status})
	return nil
}

func (f *fakeAPI) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls = append(f.orderCalls, orderCall{orderID, status})
	return nil
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func TestAllReadyOrderCompletesOnce(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{active: []models.Order{{
		ID:     7,
		Status: models.OrderProcessing,
		Items: []models.OrderItem{
			{ID: 1, OrderID: 7, Status: models.ItemReady, Duration: 5, CreatedAt: start},
			{ID: 2, OrderID: 7, Status: models.ItemReady, Duration: 10, CreatedAt: start},
		},
	}}}
	c := &clock{t: start}
	r := New(api, quietLogger()).WithClock(c.Now)
	ctx := context.Background()

	require.NoError(t, r.Refresh(ctx))
	require.NoError(t, r.Tick(ctx))
	require.NoError(t, r.Tick(ctx))

	assert.Empty(t, api.itemCalls)
	assert.Equal(t, []orderCall{{7, models.OrderCompleted}}, api.orderCalls)
	assert.Equal(t, 0, r.Held())
}

func TestItemBecomesReadyAtDeadline(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{active: []models.Order{{
		ID:     3,
		Status: models.OrderNew,
		Items: []models.OrderItem{
			{ID: 11, OrderID: 3, Status: models.ItemPreparing, Duration: 5, CreatedAt: start},
		},
	}}}
	c := &clock{t: start}
	r := New(api, quietLogger()).WithClock(c.Now)
	ctx := context.Background()
	require.NoError(t, r.Refresh(ctx))

	c.t = start.Add(5*time.Minute - time.Millisecond)
	require.NoError(t, r.Tick(ctx))
	assert.Empty(t, api.itemCalls)
	assert.Empty(t, api.orderCalls)

	c.t = start.Add(5 * time.Minute)
	require.NoError(t, r.Tick(ctx))
	assert.Equal(t, []itemCall{{3, 11, models.ItemReady}}, api.itemCalls)
	assert.Equal(t, []orderCall{{3, models.OrderCompleted}}, api.orderCalls)
}

func TestPartialReadinessDoesNotComplete(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{active: []models.Order{{
		ID:     4,
		Status: models.OrderProcessing,
		Items: []models.OrderItem{
			{ID: 1, OrderID: 4, Status: models.ItemPreparing, Duration: 2, CreatedAt: start},
			{ID: 2, OrderID: 4, Status: models.ItemPreparing, Duration: 20, CreatedAt: start},
		},
	}}}
	c := &clock{t: start.Add(3 * time.Minute)}
	r := New(api, quietLogger()).WithClock(c.Now)
	ctx := context.Background()
	require.NoError(t, r.Refresh(ctx))

	require.NoError(t, r.Tick(ctx))
	require.NoError(t, r.Tick(ctx))

	// the second tick must not repeat the write for item 1
	assert.Equal(t, []itemCall{{4, 1, models.ItemReady}}, api.itemCalls)
	assert.Empty(t, api.orderCalls)
	assert.Equal(t, 1, r.Held())
}

func TestItemsAreBackfilled(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		items: map[uint][]models.OrderItem{
			9: {{ID: 21, OrderID: 9, Status: models.ItemPreparing, Duration: 1, CreatedAt: start}},
		},
	}
	c := &clock{t: start.Add(time.Hour)}
	r := New(api, quietLogger()).WithClock(c.Now)

	r.Hold(models.Order{ID: 9, Status: models.OrderNew})
	require.NoError(t, r.Tick(context.Background()))

	assert.Equal(t, []itemCall{{9, 21, models.ItemReady}}, api.itemCalls)
	assert.Equal(t, []orderCall{{9, models.OrderCompleted}}, api.orderCalls)
}

func TestFailedWriteRetriesNextTick(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAPI{
		failItems: true,
		active: []models.Order{{
			ID:     5,
			Status: models.OrderNew,
			Items:  []models.OrderItem{{ID: 31, OrderID: 5, Status: models.ItemPreparing, Duration: 1, CreatedAt: start}},
		}},
	}
	c := &clock{t: start.Add(2 * time.Minute)}
	r := New(api, quietLogger()).WithClock(c.Now)
	ctx := context.Background()
	require.NoError(t, r.Refresh(ctx))

	assert.Error(t, r.Tick(ctx))
	assert.Empty(t, api.orderCalls)
	assert.Equal(t, 1, r.Held())

	api.mu.Lock()
	api.failItems = false
	api.mu.Unlock()

	require.NoError(t, r.Tick(ctx))
	assert.Len(t, api.itemCalls, 1)
	assert.Equal(t, []orderCall{{5, models.OrderCompleted}}, api.orderCalls)
}

func TestTerminalOrdersAreNotHeld(t *testing.T) {
	api := &fakeAPI{active: []models.Order{
		{ID: 1, Status: models.OrderCancelled},
		{ID: 2, Status: models.OrderNew},
	}}
	r := New(api, quietLogger())
	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, 1, r.Held())

	r.Hold(models.Order{ID: 2, Status: models.OrderCancelled})
	assert.Equal(t, 0, r.Held())
}

func TestRunStopsOnCancel(t *testing.T) {
	r := New(&fakeAPI{}, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx, 10*time.Millisecond, 20*time.Millisecond, nil) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
