package services

import (
	"context"
	"sync"
	"testing"

	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"
	"qr_ordering/internal/repository"
	"qr_ordering/internal/testutil"
	"qr_ordering/pkg/qrcode"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorder is a notify.Publisher that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Publish(ctx context.Context, event notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// memoryCache is a StatsCache kept in memory.
type memoryCache struct {
	mu          sync.Mutex
	stats       *models.OrderStats
	invalidated int
}

func (c *memoryCache) Get(ctx context.Context) (*models.OrderStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, nil
}

func (c *memoryCache) Set(ctx context.Context, stats *models.OrderStats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	return nil
}

func (c *memoryCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.invalidated++
	return nil
}

type fixture struct {
	db      *gorm.DB
	events  *recorder
	cache   *memoryCache
	orders  OrderService
	calls   WaiterCallService
	tables  TableService
	catalog CatalogService
	product *models.Product
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := quietLogger()

	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	callRepo := repository.NewWaiterCallRepository(db)

	f := &fixture{db: db, events: &recorder{}, cache: &memoryCache{}}
	f.orders = NewOrderService(orderRepo, repository.NewOrderItemRepository(db), tableRepo, catalogRepo, callRepo,
		f.events, f.cache, log, OrderOptions{StrictTransitions: strict})
	f.calls = NewWaiterCallService(callRepo, f.events, f.cache, log)
	f.tables = NewTableService(tableRepo, orderRepo, qrcode.NewGenerator("http://menu.test"), log)
	f.catalog = NewCatalogService(catalogRepo)

	ctx := context.Background()
	category, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Mains"})
	require.NoError(t, err)
	f.product, err = f.catalog.CreateProduct(ctx, ProductInput{
		CategoryID:      category.ID,
		Name:            "Burger",
		Price:           decimal.RequireFromString("12.00"),
		PreparationTime: 7,
		Options:         []ProductOptionInput{{Name: "Extra cheese", Price: decimal.RequireFromString("1.50")}},
	})
	require.NoError(t, err)
	return f
}

func intPtr(v int) *int { return &v }

// tableOrder is two burgers worth of order against a table number; the first item carries an option.
func (f *fixture) tableOrder(number string, durations ...*int) CreateOrderRequest {
	req := CreateOrderRequest{
		TableNumber: number,
		OrderType:   models.OrderTypeTable,
		TotalAmount: decimal.RequireFromString("25.50"),
		Items: []CreateOrderItem{
			{
				ProductID: f.product.ID,
				Quantity:  1,
				Price:     decimal.RequireFromString("12.00"),
				Options:   []CreateOrderItemOption{{ProductOptionID: f.product.Options[0].ID, OptionName: "Extra cheese", Price: decimal.RequireFromString("1.50")}},
			},
			{ProductID: f.product.ID, ProductName: "Burger (no bun)", Quantity: 1, Price: decimal.RequireFromString("12.00")},
		},
	}
	for i, d := range durations {
		if i < len(req.Items) {
			req.Items[i].Duration = d
		}
	}
	return req
}

func (f *fixture) createTable(t *testing.T, number string) *models.RestaurantTable {
	t.Helper()
	table, err := f.tables.CreateTable(context.Background(), number)
	require.NoError(t, err)
	return table
}
