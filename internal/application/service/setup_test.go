package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/caisse-api/internal/domain/cart"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sangkips/caisse-api/internal/domain/enum"
	"github.com/sangkips/caisse-api/internal/domain/repository"
	"github.com/sangkips/caisse-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/caisse-api/internal/infrastructure/repository"
	"github.com/sangkips/caisse-api/pkg/apperror"
	"github.com/sangkips/caisse-api/pkg/cache"
	"github.com/sangkips/caisse-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePrinter struct {
	mu   sync.Mutex
	jobs [][]byte
	err  error
}

func (p *fakePrinter) Print(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, append([]byte(nil), data...))
	return nil
}

func (p *fakePrinter) Close() error      { return nil }
func (p *fakePrinter) IsConnected() bool { return p.err == nil }
func (p *fakePrinter) Describe() string  { return "fake" }

func (p *fakePrinter) Jobs() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

type testEnv struct {
	db       *gorm.DB
	ctx      context.Context
	now      time.Time
	lineTime time.Time
	cache    cache.Cache
	printer  *fakePrinter
	orders   *OrderService
	carts    *CartService
	invoices *InvoiceService
	printers *PrinterService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedDemoData(db, logger.Discard()))

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	env := &testEnv{
		db:       db,
		ctx:      infraRepo.WithRestaurant(context.Background(), database.DemoRestaurantID),
		now:      time.Date(2024, 3, 15, 11, 30, 0, 0, time.UTC),
		lineTime: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		cache:    cache.NewMemoryCache("caisse-test"),
		printer:  &fakePrinter{},
	}

	log := logger.Discard()
	txm := infraRepo.NewTxManager(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	lineRepo := infraRepo.NewOrderLineRepository(db)
	restaurantRepo := infraRepo.NewRestaurantRepository(db)
	catalogRepo := infraRepo.NewCatalogRepository(db)

	env.invoices = NewInvoiceService(InvoiceOptions{
		CharWidth:    48,
		PaperWidthMM: 80,
		Location:     paris,
		CacheTTL:     time.Hour,
	}, orderRepo, lineRepo, restaurantRepo, env.cache, log)
	env.printers = NewPrinterService(env.printer, env.invoices, orderRepo, log)
	env.orders = NewOrderService(OrderServiceConfig{
		DefaultTZ: paris,
		Now:       func() time.Time { return env.now },
	}, txm, orderRepo, lineRepo, restaurantRepo, env.invoices, env.printers, log)
	env.carts = NewCartService(txm, orderRepo, lineRepo, catalogRepo, log)
	env.carts.now = func() time.Time {
		env.lineTime = env.lineTime.Add(time.Second)
		return env.lineTime
	}
	return env
}

func (e *testEnv) item(t *testing.T, name string) *entity.Item {
	t.Helper()
	var item entity.Item
	require.NoError(t, e.db.Preload("Group.Options").First(&item, "name = ?", name).Error)
	return &item
}

func (e *testEnv) option(t *testing.T, combo *entity.Item, name string) entity.GroupOption {
	t.Helper()
	require.NotNil(t, combo.Group)
	for _, o := range combo.Group.Options {
		if o.Name == name {
			return o
		}
	}
	t.Fatalf("option %s not found", name)
	return entity.GroupOption{}
}

func (e *testEnv) newOrder(t *testing.T) *entity.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(e.ctx, &CreateOrderInput{Type: enum.OrderTypeOnSpot})
	require.NoError(t, err)
	return order
}

func (e *testEnv) addLine(t *testing.T, orderID uuid.UUID, itemName string, qty int, price string, parent *uuid.UUID) *entity.OrderLine {
	t.Helper()
	line, err := e.carts.AddLine(e.ctx, &AddLineInput{
		OrderID:   orderID,
		ItemID:    e.item(t, itemName).ID,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
		ParentID:  parent,
	})
	require.NoError(t, err)
	return line
}

// addMenu orders one Menu Burger with a drink and the given sauces.
func (e *testEnv) addMenu(t *testing.T, orderID uuid.UUID, qty int, drink string, sauces ...string) []entity.OrderLine {
	t.Helper()
	combo := e.item(t, "Menu Burger")
	selections := []cart.Selection{{
		OptionID: e.option(t, combo, "Boisson").ID,
		ItemIDs:  []uuid.UUID{e.item(t, drink).ID},
	}}
	if len(sauces) > 0 {
		sel := cart.Selection{OptionID: e.option(t, combo, "Sauces").ID}
		for _, s := range sauces {
			sel.ItemIDs = append(sel.ItemIDs, e.item(t, s).ID)
		}
		selections = append(selections, sel)
	}

	lines, err := e.carts.AddItem(e.ctx, &AddItemInput{
		OrderID:    orderID,
		ItemID:     combo.ID,
		Quantity:   qty,
		Selections: selections,
	})
	require.NoError(t, err)
	return lines
}

func (e *testEnv) reload(t *testing.T, id uuid.UUID) *entity.Order {
	t.Helper()
	var order entity.Order
	require.NoError(t, e.db.First(&order, "id = ?", id).Error)
	return &order
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func infraOrderRepo(e *testEnv) repository.OrderRepository {
	return infraRepo.NewOrderRepository(e.db)
}

// withOtherRestaurant scopes the env context to a restaurant that does not exist.
func withOtherRestaurant(t *testing.T, e *testEnv) context.Context {
	t.Helper()
	return infraRepo.WithRestaurant(context.Background(), uuid.New())
}

func isValidation(err error) bool { return apperror.Is(err, apperror.KindValidation) }
func isNotFound(err error) bool   { return apperror.Is(err, apperror.KindNotFound) }
func isConflict(err error) bool   { return apperror.Is(err, apperror.KindConflict) }
